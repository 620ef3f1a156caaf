// Package http 订单上下文的 HTTP 接口
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/order/application"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/response"
	"github.com/wyfcoding/ecommerce/pkg/validation"
)

// OrderHandler HTTP 处理器
// 负责处理与订单相关的 HTTP 请求
type OrderHandler struct {
	service *application.OrderService
}

// NewOrderHandler 创建 HTTP 处理器实例
func NewOrderHandler(service *application.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/orders")
	{
		api.POST("", h.CreateOrder)       // 创建订单
		api.GET("/:id", h.GetOrder)       // 获取订单详情
		api.PUT("/:id", h.UpdateOrder)    // 整体替换行项目
		api.DELETE("/:id", h.DeleteOrder) // 删除订单
	}
}

// OrderLineRequest 行项目请求
type OrderLineRequest struct {
	ProductID string          `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"gt=0"`
	Price     decimal.Decimal `json:"price" binding:"gte=0"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	UserID string             `json:"user_id" binding:"required"`
	Lines  []OrderLineRequest `json:"lines" binding:"dive"`
}

// UpdateOrderRequest 更新订单请求
type UpdateOrderRequest struct {
	Lines []OrderLineRequest `json:"lines" binding:"dive"`
}

// CreateOrder 创建订单
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", validation.Message(err))
		return
	}

	dto, err := h.service.CreateOrder(c.Request.Context(), &application.CreateOrderRequest{
		UserID: req.UserID,
		Lines:  toLineRequests(req.Lines),
	})
	if err != nil {
		writeError(c, "Failed to create order", err)
		return
	}

	response.SuccessWithStatus(c, http.StatusCreated, dto)
}

// GetOrder 获取订单
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID := c.Param("id")

	dto, err := h.service.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, "Failed to get order", err)
		return
	}
	if dto == nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "order not found", "")
		return
	}

	response.Success(c, dto)
}

// UpdateOrder 整体替换订单行项目
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID := c.Param("id")

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", validation.Message(err))
		return
	}

	dto, err := h.service.UpdateOrder(c.Request.Context(), orderID, &application.UpdateOrderRequest{
		Lines: toLineRequests(req.Lines),
	})
	if err != nil {
		writeError(c, "Failed to update order", err)
		return
	}
	if dto == nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "order not found", "")
		return
	}

	response.Success(c, dto)
}

// DeleteOrder 删除订单
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID := c.Param("id")

	deleted, err := h.service.DeleteOrder(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, "Failed to delete order", err)
		return
	}
	if !deleted {
		response.ErrorWithStatus(c, http.StatusNotFound, "order not found", "")
		return
	}

	response.Success(c, gin.H{"id": orderID, "deleted": true})
}

func toLineRequests(lines []OrderLineRequest) []application.OrderLineRequest {
	out := make([]application.OrderLineRequest, len(lines))
	for i, l := range lines {
		out[i] = application.OrderLineRequest{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
		}
	}
	return out
}

// writeError 将领域错误映射为 HTTP 状态码
func writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidOrder):
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "order not found", "")
	case errors.Is(err, domain.ErrConstraintViolation):
		response.ErrorWithStatus(c, http.StatusConflict, "order conflicts with existing data", "")
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", "")
	}
}
