// Package mysql 提供用户仓储的 GORM 实现
package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/ecommerce/internal/user/domain"
	"github.com/wyfcoding/ecommerce/pkg/db"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserModel 用户表映射
type UserModel struct {
	ID           string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Name         string    `gorm:"column:name;type:varchar(100);not null"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(100);not null"`
	Address      string    `gorm:"column:address;type:varchar(255)"`
	Image        string    `gorm:"column:image;type:varchar(255)"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false"`
	IsBanned     bool      `gorm:"column:is_banned;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (UserModel) TableName() string { return "users" }

// AutoMigrate 创建用户表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserModel{})
}

type userRepository struct{ db *db.DB }

// NewUserRepository 创建用户仓储
func NewUserRepository(database *db.DB) domain.UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	m := toModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return classify("create user", err)
	}
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classify("get user", err)
	}
	return toUser(&m), nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, classify("list users", err)
	}
	out := make([]*domain.User, len(models))
	for i := range models {
		out[i] = toUser(&models[i])
	}
	return out, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	m := toModel(user)
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", user.ID).
			Take(&UserModel{}).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		return tx.Model(m).
			Select("name", "password_hash", "address", "image", "is_admin", "is_banned", "updated_at").
			Updates(m).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		logger.Error(ctx, "user_repository.update failed", "user_id", user.ID, "error", err)
		return classify("update user", err)
	}
	user.UpdatedAt = m.UpdatedAt
	return nil
}

// Delete 删除用户；仍有订单引用时返回 ErrConflict
func (r *userRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserModel{})
	if res.Error != nil {
		logger.Error(ctx, "user_repository.delete failed", "user_id", id, "error", res.Error)
		return false, classify("delete user", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func classify(op string, err error) error {
	if db.IsConstraintViolation(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
}

func toModel(u *domain.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Address:      u.Address,
		Image:        u.Image,
		IsAdmin:      u.IsAdmin,
		IsBanned:     u.IsBanned,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toUser(m *UserModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Address:      m.Address,
		Image:        m.Image,
		IsAdmin:      m.IsAdmin,
		IsBanned:     m.IsBanned,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
