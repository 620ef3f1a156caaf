package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type parent struct {
	ID   string `gorm:"primaryKey;type:varchar(36)"`
	Name string `gorm:"uniqueIndex;size:50"`
}

type child struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	ParentID string `gorm:"type:varchar(36);not null"`
	Parent   parent `gorm:"foreignKey:ParentID;constraint:OnDelete:RESTRICT"`
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Init(Config{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()),
		// 共享内存库只保留一个连接，避免事务与普通查询相互阻塞
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, d.AutoMigrate(&parent{}, &child{}))
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestInitRejectsUnknownDriver(t *testing.T) {
	_, err := Init(Config{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, d.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&parent{ID: uuid.NewString(), Name: "committed"}).Error
	}))

	boom := errors.New("boom")
	err := d.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&parent{ID: uuid.NewString(), Name: "rolled-back"}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var names []string
	require.NoError(t, d.Model(&parent{}).Pluck("name", &names).Error)
	assert.Equal(t, []string{"committed"}, names)
}

func TestIsConstraintViolation(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	p := parent{ID: uuid.NewString(), Name: "dup"}
	require.NoError(t, d.WithContext(ctx).Create(&p).Error)

	err := d.WithContext(ctx).Create(&parent{ID: uuid.NewString(), Name: "dup"}).Error
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err), "duplicate unique key: %v", err)

	err = d.WithContext(ctx).Omit("Parent").Create(&child{ID: uuid.NewString(), ParentID: uuid.NewString()}).Error
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err), "dangling foreign key: %v", err)

	assert.False(t, IsConstraintViolation(errors.New("other")))
	assert.False(t, IsConstraintViolation(nil))
}

func TestRestrictedDeleteIsConstraintViolation(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	p := parent{ID: uuid.NewString(), Name: "referenced"}
	require.NoError(t, d.WithContext(ctx).Create(&p).Error)
	require.NoError(t, d.WithContext(ctx).Omit("Parent").Create(&child{ID: uuid.NewString(), ParentID: p.ID}).Error)

	err := d.WithContext(ctx).Where("id = ?", p.ID).Delete(&parent{}).Error
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err), "restricted delete: %v", err)

	// 包装后仍可识别
	assert.True(t, IsConstraintViolation(fmt.Errorf("delete parent: %w", err)))
}

func TestIsNotFound(t *testing.T) {
	d := setupTestDB(t)
	var p parent
	err := d.WithContext(context.Background()).Where("id = ?", "missing").First(&p).Error
	assert.True(t, IsNotFound(err))
}
