package application

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

// OrderLineRequest 行项目请求
type OrderLineRequest struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	UserID string
	Lines  []OrderLineRequest
}

// UpdateOrderRequest 更新订单请求，行项目整体替换
type UpdateOrderRequest struct {
	Lines []OrderLineRequest
}

// OrderDTO 订单响应
type OrderDTO struct {
	ID        string          `json:"id"`
	OrderDate time.Time       `json:"order_date"`
	UserID    string          `json:"user_id"`
	User      *CustomerDTO    `json:"user,omitempty"`
	Lines     []OrderLineDTO  `json:"lines"`
	Total     decimal.Decimal `json:"total"`
}

// OrderLineDTO 行项目响应
type OrderLineDTO struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Product   *ProductDTO     `json:"product,omitempty"`
}

// ProductDTO 行项目引用的商品
type ProductDTO struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
	Image string          `json:"image,omitempty"`
	Price decimal.Decimal `json:"price"`
}

// CustomerDTO 下单用户
type CustomerDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address,omitempty"`
}

func toDomainLines(reqs []OrderLineRequest) []domain.OrderLine {
	lines := make([]domain.OrderLine, len(reqs))
	for i, r := range reqs {
		lines[i] = domain.OrderLine{
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			Price:     r.Price,
		}
	}
	return lines
}

func toOrderDTO(o *domain.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:        o.ID,
		OrderDate: o.OrderDate,
		UserID:    o.UserID,
		Lines:     make([]OrderLineDTO, len(o.Lines)),
		Total:     o.Total(),
	}
	if o.User != nil {
		dto.User = &CustomerDTO{
			ID:      o.User.ID,
			Name:    o.User.Name,
			Email:   o.User.Email,
			Address: o.User.Address,
		}
	}
	for i, l := range o.Lines {
		line := OrderLineDTO{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Subtotal:  l.Subtotal(),
		}
		if l.Product != nil {
			line.Product = &ProductDTO{
				ID:    l.Product.ID,
				Name:  l.Product.Name,
				Slug:  l.Product.Slug,
				Image: l.Product.Image,
				Price: l.Product.Price,
			}
		}
		dto.Lines[i] = line
	}
	return dto
}
