package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/logger"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand = domain.ProductSpec

// UpdateProductCommand 更新商品命令
type UpdateProductCommand struct {
	ID string
	domain.ProductSpec
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
	publisher  domain.EventPublisher
	images     domain.ImageStore
	now        func() time.Time
	newID      func() string
}

// NewCatalogCommandService 创建商品目录命令服务实例；images 为 nil 时图片上传不可用
func NewCatalogCommandService(
	categories domain.CategoryRepository,
	products domain.ProductRepository,
	publisher domain.EventPublisher,
	images domain.ImageStore,
) *CatalogCommandService {
	return &CatalogCommandService{
		categories: categories,
		products:   products,
		publisher:  publisher,
		images:     images,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// CreateCategory 创建分类
func (s *CatalogCommandService) CreateCategory(ctx context.Context, name string) (*CategoryDTO, error) {
	category, err := domain.NewCategory(s.newID(), name)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		logger.Warn(ctx, "Failed to create category", "name", category.Name, "error", err)
		return nil, err
	}
	logger.Info(ctx, "Category created", "category_id", category.ID, "slug", category.Slug)
	return toCategoryDTO(category), nil
}

// UpdateCategory 重命名分类；不存在时返回 (nil, nil)
func (s *CatalogCommandService) UpdateCategory(ctx context.Context, id, name string) (*CategoryDTO, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil || category == nil {
		return nil, err
	}
	if err := category.Rename(name); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toCategoryDTO(category), nil
}

// DeleteCategory 删除分类及其商品
func (s *CatalogCommandService) DeleteCategory(ctx context.Context, id string) (bool, error) {
	deleted, err := s.categories.Delete(ctx, id)
	if err != nil || !deleted {
		return false, err
	}
	logger.Info(ctx, "Category deleted", "category_id", id)
	s.publish(ctx, domain.TopicCategoryDeleted, id, domain.CategoryDeletedEvent{
		CategoryID: id,
		Timestamp:  s.now(),
	})
	return true, nil
}

// CreateProduct 处理创建商品
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*ProductDTO, error) {
	product, err := domain.NewProduct(s.newID(), cmd)
	if err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		logger.Warn(ctx, "Failed to create product", "name", product.Name, "error", err)
		return nil, err
	}

	// 发布商品创建事件
	s.publish(ctx, domain.TopicProductCreated, product.ID, domain.ProductCreatedEvent{
		ProductID:  product.ID,
		Name:       product.Name,
		Price:      product.Price.StringFixed(2),
		Quantity:   product.Quantity,
		CategoryID: product.CategoryID,
		Timestamp:  s.now(),
	})

	return toProductDTO(product), nil
}

// UpdateProduct 处理更新商品；不存在时返回 (nil, nil)
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*ProductDTO, error) {
	product, err := s.products.GetByID(ctx, cmd.ID)
	if err != nil || product == nil {
		return nil, err
	}

	oldQuantity := product.Quantity
	if err := product.Apply(cmd.ProductSpec); err != nil {
		return nil, err
	}
	return s.saveProduct(ctx, product, oldQuantity)
}

// UploadProductImage 上传商品图片并记录其 URL；商品不存在时返回 (nil, nil)
func (s *CatalogCommandService) UploadProductImage(ctx context.Context, id string, file io.Reader) (*ProductDTO, error) {
	if s.images == nil {
		return nil, domain.ErrMediaUnavailable
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil || product == nil {
		return nil, err
	}

	url, err := s.images.Upload(ctx, product.ID, file)
	if err != nil {
		logger.Error(ctx, "Failed to upload product image", "product_id", id, "error", err)
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	product.Image = url
	return s.saveProduct(ctx, product, product.Quantity)
}

// DeleteProduct 删除商品；仍被订单行引用时返回 ErrConflict
func (s *CatalogCommandService) DeleteProduct(ctx context.Context, id string) (bool, error) {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil || !deleted {
		return false, err
	}
	logger.Info(ctx, "Product deleted", "product_id", id)
	s.publish(ctx, domain.TopicProductDeleted, id, domain.ProductDeletedEvent{
		ProductID: id,
		Timestamp: s.now(),
	})
	return true, nil
}

func (s *CatalogCommandService) saveProduct(ctx context.Context, product *domain.Product, oldQuantity int) (*ProductDTO, error) {
	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.publish(ctx, domain.TopicProductUpdated, product.ID, domain.ProductUpdatedEvent{
		ProductID:   product.ID,
		Name:        product.Name,
		Price:       product.Price.StringFixed(2),
		OldQuantity: oldQuantity,
		Quantity:    product.Quantity,
		CategoryID:  product.CategoryID,
		Image:       product.Image,
		Timestamp:   s.now(),
	})
	return toProductDTO(product), nil
}

func (s *CatalogCommandService) publish(ctx context.Context, topic, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		logger.Warn(ctx, "Failed to publish catalog event", "topic", topic, "key", key, "error", err)
	}
}
