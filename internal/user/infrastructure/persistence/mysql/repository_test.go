package mysql

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/user/domain"
	"github.com/wyfcoding/ecommerce/pkg/db"
)

// orderRef 模拟订单对用户的外键引用
type orderRef struct {
	ID     string     `gorm:"primaryKey;type:varchar(36)"`
	UserID string     `gorm:"type:varchar(36);not null"`
	User   *UserModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (orderRef) TableName() string { return "orders" }

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Init(db.Config{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(d.DB))
	require.NoError(t, d.Migrator().CreateTable(&orderRef{}))
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newUser(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(uuid.NewString(), email, "hash", domain.Profile{Name: "Ann"})
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	d := setupTestDB(t)
	repo := NewUserRepository(d)
	ctx := context.Background()

	u := newUser(t, "ann@example.com")
	require.NoError(t, repo.Create(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())

	assert.ErrorIs(t, repo.Create(ctx, newUser(t, "ann@example.com")), domain.ErrConflict)

	got, err := repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	require.NoError(t, got.UpdateProfile(domain.Profile{Name: "Ann B", Address: "2 Side St"}))
	got.SetBanned(true)
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", reloaded.Name)
	assert.Equal(t, "2 Side St", reloaded.Address)
	assert.True(t, reloaded.IsBanned)

	assert.ErrorIs(t, repo.Update(ctx, newUser(t, "ghost@example.com")), domain.ErrUserNotFound)

	missing, err := repo.GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Create(ctx, newUser(t, "bob@example.com")))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	deleted, err := repo.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteUserWithOrdersIsConflict(t *testing.T) {
	d := setupTestDB(t)
	repo := NewUserRepository(d)
	ctx := context.Background()

	u := newUser(t, "ann@example.com")
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, d.Omit("User").Create(&orderRef{ID: "o1", UserID: u.ID}).Error)

	_, err := repo.Delete(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
