package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m := New("test")
	require.NoError(t, m.Register(prometheus.NewRegistry()))
	return m
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("test")
	require.NoError(t, m.Register(reg))
	assert.Error(t, m.Register(reg))
}

func TestOrderCounters(t *testing.T) {
	m := newTestMetrics(t)
	c := NewDefaultMetricsCollector(m)

	c.RecordOrderPlaced(2)
	c.RecordOrderPlaced(1)
	c.RecordOrderLinesReplaced(0)
	c.RecordOrderDeleted()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrderOperationsTotal.WithLabelValues("placed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderOperationsTotal.WithLabelValues("lines_replaced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderOperationsTotal.WithLabelValues("deleted")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.OrderOperationsTotal))
}

func TestGinMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestMetrics(t)

	r := gin.New()
	r.Use(GinMiddleware(NewDefaultMetricsCollector(m)))
	r.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/orders/:id", "404")))
}
