package domain

import "context"

// CategoryRepository 分类仓储，查询不到时返回 (nil, nil)
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, category *Category) error
	// Delete 删除分类及其全部商品，返回是否删除了分类
	Delete(ctx context.Context, id string) (bool, error)
}

// ProductRepository 商品仓储，查询不到时返回 (nil, nil)
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) (bool, error)
}
