package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/mysql"
	"github.com/wyfcoding/ecommerce/pkg/db"
)

type fakeImageStore struct {
	uploaded map[string]string
	err      error
}

func (f *fakeImageStore) Upload(_ context.Context, publicID string, file io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.uploaded[publicID] = string(data)
	return "https://cdn.example.com/" + publicID, nil
}

type topicRecorder struct{ topics []string }

func (r *topicRecorder) Publish(_ context.Context, topic, _ string, _ any) error {
	r.topics = append(r.topics, topic)
	return nil
}

type services struct {
	commands  *CatalogCommandService
	queries   *CatalogQueryService
	images    *fakeImageStore
	publisher *topicRecorder
}

func setup(t *testing.T) *services {
	t.Helper()
	d, err := db.Init(db.Config{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(d.DB))
	t.Cleanup(func() { _ = d.Close() })

	categories := mysql.NewCategoryRepository(d)
	products := mysql.NewProductRepository(d)
	s := &services{
		images:    &fakeImageStore{uploaded: map[string]string{}},
		publisher: &topicRecorder{},
	}
	s.commands = NewCatalogCommandService(categories, products, s.publisher, s.images)
	s.queries = NewCatalogQueryService(categories, products)
	return s
}

func TestCategoryLifecycle(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	created, err := s.commands.CreateCategory(ctx, "  Video Games ")
	require.NoError(t, err)
	assert.Equal(t, "Video Games", created.Name)
	assert.Equal(t, "video-games", created.Slug)

	_, err = s.commands.CreateCategory(ctx, "Video Games")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.commands.CreateCategory(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)

	updated, err := s.commands.UpdateCategory(ctx, created.ID, "Games")
	require.NoError(t, err)
	assert.Equal(t, "games", updated.Slug)

	missing, err := s.commands.UpdateCategory(ctx, "nope", "X")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	list, err := s.queries.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	deleted, err := s.commands.DeleteCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := s.queries.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, []string{domain.TopicCategoryDeleted}, s.publisher.topics)
}

func TestProductLifecycle(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	category, err := s.commands.CreateCategory(ctx, "Books")
	require.NoError(t, err)

	created, err := s.commands.CreateProduct(ctx, CreateProductCommand{
		Name:       "Learning Go",
		Price:      decimal.RequireFromString("29.99"),
		Quantity:   3,
		Shipping:   decimal.RequireFromString("4.50"),
		CategoryID: category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "learning-go", created.Slug)

	_, err = s.commands.CreateProduct(ctx, CreateProductCommand{Name: "Lost", CategoryID: "missing"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.commands.CreateProduct(ctx, CreateProductCommand{Name: "Bad", Price: decimal.NewFromInt(-1), CategoryID: category.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)

	updated, err := s.commands.UpdateProduct(ctx, UpdateProductCommand{
		ID: created.ID,
		ProductSpec: domain.ProductSpec{
			Name:       "Learning Go 2e",
			Price:      decimal.RequireFromString("34.99"),
			Quantity:   5,
			CategoryID: category.ID,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	withImage, err := s.commands.UploadProductImage(ctx, created.ID, strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+created.ID, withImage.Image)
	assert.Equal(t, "jpeg-bytes", s.images.uploaded[created.ID])

	got, err := s.queries.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Learning Go 2e", got.Name)
	assert.Equal(t, withImage.Image, got.Image)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Books", got.Category.Name)

	all, err := s.queries.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	deleted, err := s.commands.DeleteProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = s.commands.DeleteProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.Equal(t, []string{
		domain.TopicProductCreated,
		domain.TopicProductUpdated,
		domain.TopicProductUpdated,
		domain.TopicProductDeleted,
	}, s.publisher.topics)
}

func TestMissingProductIsAbsent(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	dto, err := s.commands.UpdateProduct(ctx, UpdateProductCommand{ID: "nope", ProductSpec: domain.ProductSpec{Name: "X", CategoryID: "c"}})
	assert.NoError(t, err)
	assert.Nil(t, dto)

	dto, err = s.commands.UploadProductImage(ctx, "nope", strings.NewReader("x"))
	assert.NoError(t, err)
	assert.Nil(t, dto)
}

func TestUploadImageErrors(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	category, err := s.commands.CreateCategory(ctx, "Books")
	require.NoError(t, err)
	p, err := s.commands.CreateProduct(ctx, CreateProductCommand{Name: "A", CategoryID: category.ID})
	require.NoError(t, err)

	s.images.err = errors.New("quota exceeded")
	_, err = s.commands.UploadProductImage(ctx, p.ID, strings.NewReader("x"))
	assert.ErrorContains(t, err, "quota exceeded")

	noMedia := NewCatalogCommandService(nil, nil, nil, nil)
	_, err = noMedia.UploadProductImage(ctx, p.ID, strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrMediaUnavailable)
}
