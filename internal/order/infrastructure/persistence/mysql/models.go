package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"gorm.io/gorm"
)

// OrderModel 订单头表映射
type OrderModel struct {
	ID        string           `gorm:"column:id;primaryKey;type:varchar(36)"`
	OrderDate time.Time        `gorm:"column:order_date;not null"`
	UserID    string           `gorm:"column:user_id;type:varchar(36);index;not null"`
	User      *userRecord      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Lines     []OrderLineModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at"`
}

func (OrderModel) TableName() string { return "orders" }

// OrderLineModel 订单行项目表映射，(order_id, product_id) 为联合主键
type OrderLineModel struct {
	OrderID   string          `gorm:"column:order_id;primaryKey;type:varchar(36)"`
	ProductID string          `gorm:"column:product_id;primaryKey;type:varchar(36);index"`
	LineNo    int             `gorm:"column:line_no;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(18,2);not null"`
	Product   *productRecord  `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (OrderLineModel) TableName() string { return "order_lines" }

// productRecord 订单读取商品所需的列，表由商品目录上下文维护
type productRecord struct {
	ID    string          `gorm:"column:id;primaryKey;type:varchar(36)"`
	Name  string          `gorm:"column:name"`
	Slug  string          `gorm:"column:slug"`
	Image string          `gorm:"column:image"`
	Price decimal.Decimal `gorm:"column:price;type:decimal(18,2)"`
}

func (productRecord) TableName() string { return "products" }

// userRecord 订单读取用户所需的列，表由用户上下文维护
type userRecord struct {
	ID      string `gorm:"column:id;primaryKey;type:varchar(36)"`
	Name    string `gorm:"column:name"`
	Email   string `gorm:"column:email"`
	Address string `gorm:"column:address"`
}

func (userRecord) TableName() string { return "users" }

// AutoMigrate 创建订单相关表，users 与 products 表需先由各自上下文创建
// 这里不用 db.AutoMigrate：它会顺带迁移 productRecord 与 userRecord，改写其它上下文的列定义
func AutoMigrate(db *gorm.DB) error {
	m := db.Migrator()
	for _, model := range []any{&OrderModel{}, &OrderLineModel{}} {
		if m.HasTable(model) {
			continue
		}
		if err := m.CreateTable(model); err != nil {
			return err
		}
	}
	return nil
}

// mapping helpers

func toOrderModel(o *domain.Order) *OrderModel {
	return &OrderModel{
		ID:        o.ID,
		OrderDate: o.OrderDate,
		UserID:    o.UserID,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toLineModels(orderID string, lines []domain.OrderLine) []OrderLineModel {
	models := make([]OrderLineModel, len(lines))
	for i, l := range lines {
		models[i] = OrderLineModel{
			OrderID:   orderID,
			ProductID: l.ProductID,
			LineNo:    i,
			Quantity:  l.Quantity,
			Price:     l.Price,
		}
	}
	return models
}

func toOrder(m *OrderModel, opts domain.LoadOptions) *domain.Order {
	o := &domain.Order{
		ID:        m.ID,
		OrderDate: m.OrderDate,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if opts.Customer && m.User != nil {
		o.User = &domain.Customer{
			ID:      m.User.ID,
			Name:    m.User.Name,
			Email:   m.User.Email,
			Address: m.User.Address,
		}
	}
	if opts.Lines || opts.Products {
		o.Lines = make([]domain.OrderLine, len(m.Lines))
		for i, l := range m.Lines {
			line := domain.OrderLine{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				Price:     l.Price,
			}
			if l.Product != nil {
				line.Product = &domain.ProductSummary{
					ID:    l.Product.ID,
					Name:  l.Product.Name,
					Slug:  l.Product.Slug,
					Image: l.Product.Image,
					Price: l.Product.Price,
				}
			}
			o.Lines[i] = line
		}
	}
	return o
}
