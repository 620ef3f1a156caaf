// Package metrics 提供 Prometheus 指标定义、收集器接口与 Gin 中间件
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/ecommerce/pkg/logger"
)

const namespace = "ecommerce"

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数（method, path, status）
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 订单写操作计数（operation: placed, lines_replaced, deleted）
	OrderOperationsTotal *prometheus.CounterVec
	// 每个订单的行项目数量
	OrderLinesPerOrder prometheus.Histogram
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Total HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),

		OrderOperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "order",
			Name:        "operations_total",
			Help:        "Committed order write operations",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		OrderLinesPerOrder: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "order",
			Name:        "lines_per_order",
			Help:        "Number of line items written per order",
			Buckets:     []float64{0, 1, 2, 5, 10, 20, 50},
			ConstLabels: constLabels,
		}),
	}
}

// Register 将所有指标注册到 reg；reg 为 nil 时使用默认注册器
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrderOperationsTotal,
		m.OrderLinesPerOrder,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}
	logger.Info(context.Background(), "Metrics registered successfully")
	return nil
}

// NewServer 创建暴露 Prometheus 指标的 HTTP 服务器，调用方负责启动与关闭
func NewServer(port int, path string, gatherer prometheus.Gatherer) *http.Server {
	if path == "" {
		path = "/metrics"
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Serve 启动服务器直到 ctx 结束，然后优雅关闭
func Serve(ctx context.Context, srv *http.Server) error {
	logger.Info(ctx, "Starting Prometheus HTTP server", "addr", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// MetricsCollector 指标收集器接口
type MetricsCollector interface {
	// 记录 HTTP 请求
	RecordHTTPRequest(method, path string, statusCode int, duration time.Duration)
	// 记录订单创建
	RecordOrderPlaced(lines int)
	// 记录订单行项目整体替换
	RecordOrderLinesReplaced(lines int)
	// 记录订单删除
	RecordOrderDeleted()
}

// DefaultMetricsCollector 默认指标收集器实现
type DefaultMetricsCollector struct {
	metrics *Metrics
}

// NewDefaultMetricsCollector 创建默认指标收集器
func NewDefaultMetricsCollector(metrics *Metrics) *DefaultMetricsCollector {
	return &DefaultMetricsCollector{
		metrics: metrics,
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (dmc *DefaultMetricsCollector) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	dmc.metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	dmc.metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOrderPlaced 记录订单创建
func (dmc *DefaultMetricsCollector) RecordOrderPlaced(lines int) {
	dmc.metrics.OrderOperationsTotal.WithLabelValues("placed").Inc()
	dmc.metrics.OrderLinesPerOrder.Observe(float64(lines))
}

// RecordOrderLinesReplaced 记录订单行项目替换
func (dmc *DefaultMetricsCollector) RecordOrderLinesReplaced(lines int) {
	dmc.metrics.OrderOperationsTotal.WithLabelValues("lines_replaced").Inc()
	dmc.metrics.OrderLinesPerOrder.Observe(float64(lines))
}

// RecordOrderDeleted 记录订单删除
func (dmc *DefaultMetricsCollector) RecordOrderDeleted() {
	dmc.metrics.OrderOperationsTotal.WithLabelValues("deleted").Inc()
}

// NopCollector 不记录任何指标，用于关闭指标或测试
type NopCollector struct{}

func (NopCollector) RecordHTTPRequest(string, string, int, time.Duration) {}
func (NopCollector) RecordOrderPlaced(int)                                {}
func (NopCollector) RecordOrderLinesReplaced(int)                         {}
func (NopCollector) RecordOrderDeleted()                                  {}

// GinMiddleware 记录每个请求的计数与耗时，path 使用路由模板避免标签爆炸
func GinMiddleware(collector MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
