package application

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(
	categories domain.CategoryRepository,
	products domain.ProductRepository,
) *CatalogQueryService {
	return &CatalogQueryService{
		categories: categories,
		products:   products,
	}
}

// GetCategory 根据ID获取分类，不存在时返回 (nil, nil)
func (s *CatalogQueryService) GetCategory(ctx context.Context, id string) (*CategoryDTO, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return toCategoryDTO(c), nil
}

// ListCategories 列出全部分类
func (s *CatalogQueryService) ListCategories(ctx context.Context) ([]*CategoryDTO, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*CategoryDTO, len(categories))
	for i, c := range categories {
		out[i] = toCategoryDTO(c)
	}
	return out, nil
}

// GetProduct 根据ID获取商品信息，包含所属分类
func (s *CatalogQueryService) GetProduct(ctx context.Context, id string) (*ProductDTO, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return toProductDTO(p), nil
}

// ListProducts 列出全部商品
func (s *CatalogQueryService) ListProducts(ctx context.Context) ([]*ProductDTO, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*ProductDTO, len(products))
	for i, p := range products {
		out[i] = toProductDTO(p)
	}
	return out, nil
}
