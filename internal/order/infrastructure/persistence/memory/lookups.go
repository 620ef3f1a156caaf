package memory

import (
	"context"
	"sync"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

// Directory 内存中的商品与用户目录，实现 domain.ProductLookup 与 domain.CustomerLookup
type Directory struct {
	mu        sync.RWMutex
	products  map[string]domain.ProductSummary
	customers map[string]domain.Customer
}

// NewDirectory 创建空目录
func NewDirectory() *Directory {
	return &Directory{
		products:  make(map[string]domain.ProductSummary),
		customers: make(map[string]domain.Customer),
	}
}

// AddProduct 登记商品
func (d *Directory) AddProduct(p domain.ProductSummary) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.products[p.ID] = p
}

// AddCustomer 登记用户
func (d *Directory) AddCustomer(c domain.Customer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customers[c.ID] = c
}

// FindProduct 实现 domain.ProductLookup
func (d *Directory) FindProduct(_ context.Context, id string) (*domain.ProductSummary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// FindCustomer 实现 domain.CustomerLookup
func (d *Directory) FindCustomer(_ context.Context, id string) (*domain.Customer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}
