// Package mysql 提供订单仓储接口的 GORM 实现（MySQL / PostgreSQL / SQLite）
package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/pkg/db"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepositoryImpl 是 domain.OrderRepository 接口的 GORM 实现
type orderRepositoryImpl struct {
	db *db.DB
}

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(database *db.DB) domain.OrderRepository {
	return &orderRepositoryImpl{db: database}
}

// Insert 实现 domain.OrderRepository.Insert
// 订单头与行项目分开写入，行项目不走关联保存，避免联合主键冲突被 ON CONFLICT 吞掉
func (r *orderRepositoryImpl) Insert(ctx context.Context, order *domain.Order) error {
	model := toOrderModel(order)
	lines := toLineModels(order.ID, order.Lines)

	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&lines).Error
	})
	if err != nil {
		logger.Error(ctx, "order_repository.insert failed", "order_id", order.ID, "error", err)
		return classify("insert order", err)
	}

	order.CreatedAt = model.CreatedAt
	order.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 实现 domain.OrderRepository.FindByID
func (r *orderRepositoryImpl) FindByID(ctx context.Context, id string, opts domain.LoadOptions) (*domain.Order, error) {
	q := r.db.WithContext(ctx)
	if opts.Lines || opts.Products {
		q = q.Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		})
	}
	if opts.Products {
		q = q.Preload("Lines.Product")
	}
	if opts.Customer {
		q = q.Preload("User")
	}

	var model OrderModel
	if err := q.Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "order_repository.find_by_id failed", "order_id", id, "error", err)
		return nil, classify("find order", err)
	}
	return toOrder(&model, opts), nil
}

// ReplaceLines 实现 domain.OrderRepository.ReplaceLines
// 锁定订单头后删除旧行项目、写入新行项目，并刷新 updated_at
func (r *orderRepositoryImpl) ReplaceLines(ctx context.Context, order *domain.Order) error {
	lines := toLineModels(order.ID, order.Lines)
	now := time.Now().UTC()

	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		var header OrderModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", order.ID).
			Take(&header).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&OrderLineModel{}).Error; err != nil {
			return err
		}
		if len(lines) > 0 {
			if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
				return err
			}
		}
		return tx.Model(&OrderModel{}).Where("id = ?", order.ID).Update("updated_at", now).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return err
		}
		logger.Error(ctx, "order_repository.replace_lines failed", "order_id", order.ID, "error", err)
		return classify("replace order lines", err)
	}

	order.UpdatedAt = now
	return nil
}

// Delete 实现 domain.OrderRepository.Delete
func (r *orderRepositoryImpl) Delete(ctx context.Context, order *domain.Order) error {
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&OrderLineModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", order.ID).Delete(&OrderModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrOrderNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return err
		}
		logger.Error(ctx, "order_repository.delete failed", "order_id", order.ID, "error", err)
		return classify("delete order", err)
	}
	return nil
}

// classify 将存储错误归类为约束冲突或一般存储错误
func classify(op string, err error) error {
	if db.IsConstraintViolation(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrConstraintViolation, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
}
