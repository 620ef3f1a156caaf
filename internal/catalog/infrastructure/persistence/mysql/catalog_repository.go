// Package mysql 提供商品目录仓储的 GORM 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/db"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type categoryRepository struct{ db *db.DB }

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(database *db.DB) domain.CategoryRepository {
	return &categoryRepository{db: database}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	model := toCategoryModel(category)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return classify("create category", err)
	}
	category.CreatedAt = model.CreatedAt
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var m CategoryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classify("get category", err)
	}
	return toCategory(&m), nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var models []CategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, classify("list categories", err)
	}
	out := make([]*domain.Category, len(models))
	for i := range models {
		out[i] = toCategory(&models[i])
	}
	return out, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := lockRow(tx, &CategoryModel{}, category.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCategoryNotFound
			}
			return err
		}
		return tx.Model(&CategoryModel{}).Where("id = ?", category.ID).Updates(map[string]any{
			"name": category.Name,
			"slug": category.Slug,
		}).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return err
		}
		return classify("update category", err)
	}
	return nil
}

// Delete 在同一事务中删除分类下的商品与分类本身
func (r *categoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&ProductModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&CategoryModel{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		logger.Error(ctx, "category_repository.delete failed", "category_id", id, "error", err)
		return false, classify("delete category", err)
	}
	return deleted, nil
}

type productRepository struct{ db *db.DB }

// NewProductRepository 创建商品仓储
func NewProductRepository(database *db.DB) domain.ProductRepository {
	return &productRepository{db: database}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	model := toProductModel(product)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return classify("create product", err)
	}
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var m ProductModel
	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classify("get product", err)
	}
	return toProduct(&m), nil
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var models []ProductModel
	if err := r.db.WithContext(ctx).Preload("Category").Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, classify("list products", err)
	}
	out := make([]*domain.Product, len(models))
	for i := range models {
		out[i] = toProduct(&models[i])
	}
	return out, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	model := toProductModel(product)
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := lockRow(tx, &ProductModel{}, product.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProductNotFound
			}
			return err
		}
		return tx.Model(model).
			Select("name", "slug", "image", "description", "price", "quantity", "shipping", "category_id", "updated_at").
			Omit(clause.Associations).
			Updates(model).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return err
		}
		logger.Error(ctx, "product_repository.update failed", "product_id", product.ID, "error", err)
		return classify("update product", err)
	}
	product.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除商品；被订单行引用时外键约束拒绝删除
func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ProductModel{})
	if res.Error != nil {
		logger.Error(ctx, "product_repository.delete failed", "product_id", id, "error", res.Error)
		return false, classify("delete product", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// lockRow 以 SELECT ... FOR UPDATE 锁定一行，不存在时返回 gorm.ErrRecordNotFound
func lockRow(tx *gorm.DB, model any, id string) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", id).
		Take(model).Error
}

func classify(op string, err error) error {
	if db.IsConstraintViolation(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
}
