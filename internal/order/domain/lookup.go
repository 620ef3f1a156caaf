package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductSummary 订单视角下的商品信息
type ProductSummary struct {
	ID    string
	Name  string
	Slug  string
	Image string
	Price decimal.Decimal
}

// Customer 订单视角下的下单用户
type Customer struct {
	ID      string
	Name    string
	Email   string
	Address string
}

// ProductLookup 按 ID 查询商品，不存在时返回 (nil, nil)
type ProductLookup interface {
	FindProduct(ctx context.Context, id string) (*ProductSummary, error)
}

// CustomerLookup 按 ID 查询用户，不存在时返回 (nil, nil)
type CustomerLookup interface {
	FindCustomer(ctx context.Context, id string) (*Customer, error)
}
