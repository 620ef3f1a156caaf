package mysql

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/db"
)

// orderLineRef 模拟订单上下文对商品的外键引用
type orderLineRef struct {
	OrderID   string        `gorm:"primaryKey;type:varchar(36)"`
	ProductID string        `gorm:"primaryKey;type:varchar(36)"`
	Product   *ProductModel `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (orderLineRef) TableName() string { return "order_lines" }

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
	require.NoError(t, d.Migrator().CreateTable(&orderLineRef{}))
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newCategory(t *testing.T, repo domain.CategoryRepository, name string) *domain.Category {
	t.Helper()
	c, err := domain.NewCategory(uuid.NewString(), name)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func newProduct(t *testing.T, repo domain.ProductRepository, categoryID, name, price string) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(uuid.NewString(), domain.ProductSpec{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Quantity:   10,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestCategoryRepository(t *testing.T) {
	d := setupTestDB(t)
	repo := NewCategoryRepository(d)
	ctx := context.Background()

	c := newCategory(t, repo, "Home Garden")
	assert.False(t, c.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "home-garden", got.Slug)

	dup, err := domain.NewCategory(uuid.NewString(), "Home Garden")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrConflict)

	require.NoError(t, c.Rename("Garden"))
	require.NoError(t, repo.Update(ctx, c))
	got, err = repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Garden", got.Name)
	assert.Equal(t, "garden", got.Slug)

	missing, err := domain.NewCategory(uuid.NewString(), "Ghost")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrCategoryNotFound)

	got, err = repo.GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)

	newCategory(t, repo, "Books")
	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Books", all[0].Name)
}

func TestProductRepository(t *testing.T) {
	d := setupTestDB(t)
	categories := NewCategoryRepository(d)
	repo := NewProductRepository(d)
	ctx := context.Background()

	c := newCategory(t, categories, "Books")
	p := newProduct(t, repo, c.ID, "Go in Action", "39.90")

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "go-in-action", got.Slug)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("39.90")))
	require.NotNil(t, got.Category)
	assert.Equal(t, "Books", got.Category.Name)

	require.NoError(t, got.Apply(domain.ProductSpec{
		Name:       "Go in Action 2e",
		Price:      decimal.RequireFromString("45"),
		Quantity:   0,
		CategoryID: c.ID,
	}))
	got.Image = "https://img.example.com/p.jpg"
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go in Action 2e", reloaded.Name)
	assert.Equal(t, 0, reloaded.Quantity)
	assert.Equal(t, "https://img.example.com/p.jpg", reloaded.Image)

	reloaded.CategoryID = "missing"
	assert.ErrorIs(t, repo.Update(ctx, reloaded), domain.ErrConflict)

	orphan, err := domain.NewProduct(uuid.NewString(), domain.ProductSpec{Name: "Orphan", CategoryID: "missing"})
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, orphan), domain.ErrConflict)
	assert.ErrorIs(t, repo.Update(ctx, orphan), domain.ErrProductNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	deleted, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteCategoryCascadesProducts(t *testing.T) {
	d := setupTestDB(t)
	categories := NewCategoryRepository(d)
	products := NewProductRepository(d)
	ctx := context.Background()

	books := newCategory(t, categories, "Books")
	toys := newCategory(t, categories, "Toys")
	newProduct(t, products, books.ID, "A", "1")
	newProduct(t, products, books.ID, "B", "2")
	kept := newProduct(t, products, toys.ID, "C", "3")

	deleted, err := categories.Delete(ctx, books.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID, all[0].ID)

	deleted, err = categories.Delete(ctx, books.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteReferencedProductIsConflict(t *testing.T) {
	d := setupTestDB(t)
	categories := NewCategoryRepository(d)
	products := NewProductRepository(d)
	ctx := context.Background()

	c := newCategory(t, categories, "Books")
	p := newProduct(t, products, c.ID, "A", "1")
	require.NoError(t, d.Omit("Product").Create(&orderLineRef{OrderID: "o1", ProductID: p.ID}).Error)

	_, err := products.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// 分类删除在同一事务中失败，商品与分类都保留
	_, err = categories.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	gotCategory, err := categories.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotCategory)
}
