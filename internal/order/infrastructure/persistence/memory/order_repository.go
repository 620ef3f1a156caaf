// Package memory 提供订单仓储的内存实现，约束语义与关系型实现一致
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

// OrderRepository 基于 map 的订单仓储
// 复合主键 (order_id, product_id) 唯一，行项目的商品与订单用户必须存在
type OrderRepository struct {
	mu        sync.RWMutex
	orders    map[string]*domain.Order
	products  domain.ProductLookup
	customers domain.CustomerLookup
	now       func() time.Time
}

// NewOrderRepository 创建内存订单仓储
func NewOrderRepository(products domain.ProductLookup, customers domain.CustomerLookup) *OrderRepository {
	return &OrderRepository{
		orders:    make(map[string]*domain.Order),
		products:  products,
		customers: customers,
		now:       time.Now,
	}
}

var _ domain.OrderRepository = (*OrderRepository)(nil)

// Insert 写入订单头与行项目
func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	customer, err := r.customers.FindCustomer(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("%w: lookup user %s: %v", domain.ErrStorage, order.UserID, err)
	}
	if customer == nil {
		return fmt.Errorf("%w: user %s does not exist", domain.ErrConstraintViolation, order.UserID)
	}
	if err := r.checkLines(ctx, order.Lines); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; ok {
		return fmt.Errorf("%w: order %s already exists", domain.ErrConstraintViolation, order.ID)
	}
	now := r.now()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = stripped(order)
	return nil
}

// FindByID 查询订单，不存在时返回 (nil, nil)
func (r *OrderRepository) FindByID(ctx context.Context, id string, opts domain.LoadOptions) (*domain.Order, error) {
	r.mu.RLock()
	stored, ok := r.orders[id]
	var order *domain.Order
	if ok {
		order = stored.Clone()
	}
	r.mu.RUnlock()

	if order == nil {
		return nil, nil
	}

	if !opts.Lines && !opts.Products {
		order.Lines = nil
	}
	if opts.Products {
		for i := range order.Lines {
			p, err := r.products.FindProduct(ctx, order.Lines[i].ProductID)
			if err != nil {
				return nil, fmt.Errorf("%w: lookup product %s: %v", domain.ErrStorage, order.Lines[i].ProductID, err)
			}
			order.Lines[i].Product = p
		}
	}
	if opts.Customer {
		c, err := r.customers.FindCustomer(ctx, order.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: lookup user %s: %v", domain.ErrStorage, order.UserID, err)
		}
		order.User = c
	}
	return order, nil
}

// ReplaceLines 用 order.Lines 替换已保存的行项目
func (r *OrderRepository) ReplaceLines(ctx context.Context, order *domain.Order) error {
	if err := r.checkLines(ctx, order.Lines); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	replaced := stripped(order)
	replaced.OrderDate = stored.OrderDate
	replaced.UserID = stored.UserID
	replaced.CreatedAt = stored.CreatedAt
	replaced.UpdatedAt = r.now()
	r.orders[order.ID] = replaced

	order.UpdatedAt = replaced.UpdatedAt
	return nil
}

// Delete 删除订单及其行项目
func (r *OrderRepository) Delete(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, order.ID)
	return nil
}

func (r *OrderRepository) checkLines(ctx context.Context, lines []domain.OrderLine) error {
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, dup := seen[l.ProductID]; dup {
			return fmt.Errorf("%w: product %s appears twice", domain.ErrConstraintViolation, l.ProductID)
		}
		seen[l.ProductID] = struct{}{}

		p, err := r.products.FindProduct(ctx, l.ProductID)
		if err != nil {
			return fmt.Errorf("%w: lookup product %s: %v", domain.ErrStorage, l.ProductID, err)
		}
		if p == nil {
			return fmt.Errorf("%w: product %s does not exist", domain.ErrConstraintViolation, l.ProductID)
		}
	}
	return nil
}

// stripped 拷贝订单，去掉关联对象，只保留自身字段
func stripped(o *domain.Order) *domain.Order {
	c := o.Clone()
	c.User = nil
	for i := range c.Lines {
		c.Lines[i].Product = nil
	}
	return c
}
