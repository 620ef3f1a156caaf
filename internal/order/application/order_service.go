// Package application 订单上下文的用例层：创建、查询、整体替换行项目、删除
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/metrics"
)

// Option 订单服务可选项
type Option func(*OrderService)

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

// WithIDGenerator 替换订单 ID 生成器
func WithIDGenerator(gen func() string) Option {
	return func(s *OrderService) { s.newID = gen }
}

// OrderService 订单应用服务
type OrderService struct {
	repo      domain.OrderRepository
	publisher domain.EventPublisher
	collector metrics.MetricsCollector
	now       func() time.Time
	newID     func() string
}

// NewOrderService 创建订单应用服务
func NewOrderService(repo domain.OrderRepository, publisher domain.EventPublisher, collector metrics.MetricsCollector, opts ...Option) *OrderService {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	s := &OrderService{
		repo:      repo,
		publisher: publisher,
		collector: collector,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder 创建订单
// 行项目按请求原样保存，同一商品在一个请求中出现多次时直接拒绝
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderDTO, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", domain.ErrInvalidOrder)
	}
	defer logger.LogDuration(ctx, "Order creation completed", "user_id", req.UserID)()

	order, err := domain.NewOrder(s.newID(), req.UserID, s.now(), toDomainLines(req.Lines))
	if err != nil {
		logger.Warn(ctx, "Rejected order creation request", "user_id", req.UserID, "error", err)
		return nil, err
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		logger.Error(ctx, "Failed to insert order",
			"order_id", order.ID,
			"user_id", order.UserID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	logger.Info(ctx, "Order created successfully",
		"order_id", order.ID,
		"user_id", order.UserID,
		"lines", len(order.Lines),
		"total", order.Total().String(),
	)
	s.collector.RecordOrderPlaced(len(order.Lines))
	s.publish(ctx, domain.TopicOrderPlaced, order.ID, domain.NewOrderPlacedEvent(order, s.now()))

	return toOrderDTO(order), nil
}

// GetOrder 获取订单及其行项目、商品与下单用户；不存在时返回 (nil, nil)
func (s *OrderService) GetOrder(ctx context.Context, id string) (*OrderDTO, error) {
	if id == "" {
		return nil, nil
	}

	order, err := s.repo.FindByID(ctx, id, domain.FullLoad)
	if err != nil {
		logger.Error(ctx, "Failed to get order", "order_id", id, "error", err)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, nil
	}
	return toOrderDTO(order), nil
}

// UpdateOrder 用请求中的行项目整体替换订单现有行项目；订单不存在时返回 (nil, nil)
// 没有版本检查，并发更新以最后一次写入为准
func (s *OrderService) UpdateOrder(ctx context.Context, id string, req *UpdateOrderRequest) (*OrderDTO, error) {
	defer logger.LogDuration(ctx, "Order update completed", "order_id", id)()

	if req == nil {
		return nil, fmt.Errorf("%w: request is required", domain.ErrInvalidOrder)
	}
	if id == "" {
		return nil, nil
	}

	order, err := s.repo.FindByID(ctx, id, domain.LoadOptions{})
	if err != nil {
		logger.Error(ctx, "Failed to load order for update", "order_id", id, "error", err)
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if order == nil {
		return nil, nil
	}

	if err := order.ReplaceLines(toDomainLines(req.Lines)); err != nil {
		logger.Warn(ctx, "Rejected order update request", "order_id", id, "error", err)
		return nil, err
	}

	if err := s.repo.ReplaceLines(ctx, order); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			logger.Info(ctx, "Order disappeared before update", "order_id", id)
			return nil, nil
		}
		logger.Error(ctx, "Failed to replace order lines", "order_id", id, "error", err)
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	logger.Info(ctx, "Order lines replaced",
		"order_id", order.ID,
		"lines", len(order.Lines),
	)
	s.collector.RecordOrderLinesReplaced(len(order.Lines))
	s.publish(ctx, domain.TopicOrderLinesReplaced, order.ID, domain.NewOrderLinesReplacedEvent(order, s.now()))

	return toOrderDTO(order), nil
}

// DeleteOrder 删除订单及其行项目，订单不存在时返回 false
func (s *OrderService) DeleteOrder(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}

	order, err := s.repo.FindByID(ctx, id, domain.LoadOptions{Lines: true})
	if err != nil {
		logger.Error(ctx, "Failed to load order for delete", "order_id", id, "error", err)
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	if order == nil {
		return false, nil
	}

	if err := s.repo.Delete(ctx, order); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return false, nil
		}
		logger.Error(ctx, "Failed to delete order", "order_id", id, "error", err)
		return false, fmt.Errorf("failed to delete order: %w", err)
	}

	logger.Info(ctx, "Order deleted", "order_id", id, "lines", len(order.Lines))
	s.collector.RecordOrderDeleted()
	s.publish(ctx, domain.TopicOrderDeleted, order.ID, domain.NewOrderDeletedEvent(order, s.now()))

	return true, nil
}

// publish 写入已提交后发布事件，失败只记录日志
func (s *OrderService) publish(ctx context.Context, topic, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		logger.Warn(ctx, "Failed to publish order event", "topic", topic, "order_id", key, "error", err)
	}
}
