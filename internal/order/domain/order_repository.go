package domain

import (
	"context"
)

// LoadOptions 指定 FindByID 需要一并加载的关联
type LoadOptions struct {
	// 加载行项目
	Lines bool
	// 加载行项目引用的商品，隐含 Lines
	Products bool
	// 加载下单用户
	Customer bool
}

// FullLoad 加载行项目、商品与用户
var FullLoad = LoadOptions{Lines: true, Products: true, Customer: true}

// OrderRepository 订单仓储接口，每个写操作对订单头与行项目是原子的
type OrderRepository interface {
	// Insert 写入订单头与全部行项目
	Insert(ctx context.Context, order *Order) error
	// FindByID 按 ID 查询订单，不存在时返回 (nil, nil)
	FindByID(ctx context.Context, id string, opts LoadOptions) (*Order, error)
	// ReplaceLines 删除订单现有行项目并写入 order.Lines；订单已不存在时返回 ErrOrderNotFound
	ReplaceLines(ctx context.Context, order *Order) error
	// Delete 删除订单及其行项目
	Delete(ctx context.Context, order *Order) error
}
