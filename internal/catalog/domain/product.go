package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// Category 商品分类
type Category struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}

// NewCategory 创建分类，slug 由名称生成
func NewCategory(id, name string) (*Category, error) {
	c := &Category{ID: id}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	return c, nil
}

// Rename 修改分类名称并重新生成 slug
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: category name is required", ErrInvalidCatalog)
	}
	if len(name) > 50 {
		return fmt.Errorf("%w: category name exceeds 50 characters", ErrInvalidCatalog)
	}
	c.Name = name
	c.Slug = slug.Make(name)
	return nil
}

// ProductSpec 商品的可编辑属性
type ProductSpec struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	Shipping    decimal.Decimal
	CategoryID  string
}

// Product 商品，Quantity 为可售数量
type Product struct {
	ID          string
	Name        string
	Slug        string
	Image       string
	Description string
	Price       decimal.Decimal
	Quantity    int
	Sold        int
	Shipping    decimal.Decimal
	CategoryID  string
	Category    *Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct 创建商品
func NewProduct(id string, spec ProductSpec) (*Product, error) {
	p := &Product{ID: id}
	if err := p.Apply(spec); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply 用 spec 覆盖商品属性，图片与销量保持不变
func (p *Product) Apply(spec ProductSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(spec.Name)
	p.Slug = slug.Make(p.Name)
	p.Description = spec.Description
	p.Price = spec.Price
	p.Quantity = spec.Quantity
	p.Shipping = spec.Shipping
	p.CategoryID = spec.CategoryID
	return nil
}

// Validate 校验商品属性
func (s ProductSpec) Validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("%w: product name is required", ErrInvalidCatalog)
	case len(s.Name) > 160:
		return fmt.Errorf("%w: product name exceeds 160 characters", ErrInvalidCatalog)
	case s.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidCatalog)
	case s.Shipping.IsNegative():
		return fmt.Errorf("%w: shipping must not be negative", ErrInvalidCatalog)
	case !storable(s.Price):
		return fmt.Errorf("%w: price %s must have at most 2 decimal places and not exceed %s", ErrInvalidCatalog, s.Price, maxAmount)
	case !storable(s.Shipping):
		return fmt.Errorf("%w: shipping %s must have at most 2 decimal places and not exceed %s", ErrInvalidCatalog, s.Shipping, maxAmount)
	case s.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidCatalog)
	case s.CategoryID == "":
		return fmt.Errorf("%w: category id is required", ErrInvalidCatalog)
	}
	return nil
}

// maxAmount 价格列 decimal(18,2) 在所有驱动下都能原样读回的上限
var maxAmount = decimal.RequireFromString("9999999999999.99")

func storable(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2)) && d.LessThanOrEqual(maxAmount)
}
