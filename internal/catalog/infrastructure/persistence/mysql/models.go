package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"gorm.io/gorm"
)

// CategoryModel 分类表映射
type CategoryModel struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Name      string    `gorm:"column:name;type:varchar(50);uniqueIndex;not null"`
	Slug      string    `gorm:"column:slug;type:varchar(64);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (CategoryModel) TableName() string { return "categories" }

// ProductModel 商品表映射，分类删除时级联删除商品
type ProductModel struct {
	ID          string          `gorm:"column:id;primaryKey;type:varchar(36)"`
	Name        string          `gorm:"column:name;type:varchar(160);not null"`
	Slug        string          `gorm:"column:slug;type:varchar(180);index;not null"`
	Image       string          `gorm:"column:image;type:varchar(255)"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(18,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null;default:0"`
	Sold        int             `gorm:"column:sold;not null;default:0"`
	Shipping    decimal.Decimal `gorm:"column:shipping;type:decimal(18,2);not null"`
	CategoryID  string          `gorm:"column:category_id;type:varchar(36);index;not null"`
	Category    *CategoryModel  `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (ProductModel) TableName() string { return "products" }

// AutoMigrate 创建分类与商品表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&CategoryModel{}, &ProductModel{})
}

func toCategoryModel(c *domain.Category) *CategoryModel {
	return &CategoryModel{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
	}
}

func toCategory(m *CategoryModel) *domain.Category {
	if m == nil {
		return nil
	}
	return &domain.Category{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt,
	}
}

func toProductModel(p *domain.Product) *ProductModel {
	return &ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Image:       p.Image,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Sold:        p.Sold,
		Shipping:    p.Shipping,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProduct(m *ProductModel) *domain.Product {
	return &domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Image:       m.Image,
		Description: m.Description,
		Price:       m.Price,
		Quantity:    m.Quantity,
		Sold:        m.Sold,
		Shipping:    m.Shipping,
		CategoryID:  m.CategoryID,
		Category:    toCategory(m.Category),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
