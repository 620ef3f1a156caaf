// Package domain 包含订单上下文的领域模型
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale 单价最多保留的小数位，与 decimal(18,2) 列一致
const PriceScale = 2

// MaxPrice 可精确存储的最大单价
// SQLite 把 decimal 列存为 REAL，只有 15 位有效数字能原样读回，因此整数部分限制为 13 位
var MaxPrice = decimal.RequireFromString("9999999999999.99")

// Order 订单聚合根
// 订单本身没有状态机，创建后唯一可变的是整组行项目
type Order struct {
	ID string
	// 下单时间
	OrderDate time.Time
	// 下单用户 ID
	UserID string
	// 下单用户，仅在 LoadOptions.Customer 时填充
	User *Customer
	// 行项目，按提交顺序排列
	Lines     []OrderLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine 订单行项目，(OrderID, ProductID) 唯一
type OrderLine struct {
	ProductID string
	// 数量，必须为正
	Quantity int
	// 下单时的单价快照，来自请求，不与商品目录重新核对
	Price decimal.Decimal
	// 商品信息，仅在 LoadOptions.Products 时填充
	Product *ProductSummary
}

// NewOrder 创建订单，行项目按原样保存
func NewOrder(id, userID string, orderDate time.Time, lines []OrderLine) (*Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidOrder)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidOrder)
	}
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}
	return &Order{
		ID:        id,
		OrderDate: orderDate,
		UserID:    userID,
		Lines:     cloneLines(lines),
	}, nil
}

// ReplaceLines 整体丢弃现有行项目并换成新的一组，下单时间与用户不变
func (o *Order) ReplaceLines(lines []OrderLine) error {
	if err := ValidateLines(lines); err != nil {
		return err
	}
	o.Lines = cloneLines(lines)
	return nil
}

// Total 订单总额：sum(price * quantity)
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Subtotal 行小计
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ProductIDs 行项目引用的商品 ID，保持顺序
func (o *Order) ProductIDs() []string {
	ids := make([]string, len(o.Lines))
	for i, l := range o.Lines {
		ids[i] = l.ProductID
	}
	return ids
}

// Clone 深拷贝订单
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.User != nil {
		u := *o.User
		c.User = &u
	}
	c.Lines = cloneLines(o.Lines)
	return &c
}

// ValidateLines 校验一组行项目：商品 ID 非空且不重复，数量为正，单价非负且能被精确存储
func ValidateLines(lines []OrderLine) error {
	seen := make(map[string]int, len(lines))
	for i, l := range lines {
		if l.ProductID == "" {
			return fmt.Errorf("%w: line %d: product id is required", ErrInvalidOrder, i)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: line %d: quantity must be positive", ErrInvalidOrder, i)
		}
		if l.Price.IsNegative() {
			return fmt.Errorf("%w: line %d: price must not be negative", ErrInvalidOrder, i)
		}
		if !l.Price.Equal(l.Price.Truncate(PriceScale)) {
			return fmt.Errorf("%w: line %d: price %s has more than %d decimal places", ErrInvalidOrder, i, l.Price, PriceScale)
		}
		if l.Price.GreaterThan(MaxPrice) {
			return fmt.Errorf("%w: line %d: price %s exceeds %s", ErrInvalidOrder, i, l.Price, MaxPrice)
		}
		if first, ok := seen[l.ProductID]; ok {
			return fmt.Errorf("%w: line %d: product %s already appears on line %d", ErrInvalidOrder, i, l.ProductID, first)
		}
		seen[l.ProductID] = i
	}
	return nil
}

func cloneLines(lines []OrderLine) []OrderLine {
	out := make([]OrderLine, len(lines))
	for i, l := range lines {
		out[i] = l
		if l.Product != nil {
			p := *l.Product
			out[i].Product = &p
		}
	}
	return out
}
