package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ok", func(c *gin.Context) { Success(c, gin.H{"id": "1"}) })
	r.GET("/created", func(c *gin.Context) { SuccessWithStatus(c, http.StatusCreated, nil) })
	r.GET("/fail", func(c *gin.Context) { ErrorWithStatus(c, http.StatusConflict, "conflict", "email taken") })

	tests := []struct {
		path   string
		status int
		want   Response
	}{
		{"/ok", http.StatusOK, Response{Code: 0, Message: "success", Data: map[string]any{"id": "1"}}},
		{"/created", http.StatusCreated, Response{Code: 0, Message: "success"}},
		{"/fail", http.StatusConflict, Response{Code: http.StatusConflict, Message: "conflict", Error: "email taken"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.status, w.Code)

			var got Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
