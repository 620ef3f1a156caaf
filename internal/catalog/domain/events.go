package domain

import "time"

const (
	TopicCategoryDeleted = "catalog.category.deleted"
	TopicProductCreated  = "catalog.product.created"
	TopicProductUpdated  = "catalog.product.updated"
	TopicProductDeleted  = "catalog.product.deleted"
)

// ProductCreatedEvent 商品创建事件
type ProductCreatedEvent struct {
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
	Quantity   int       `json:"quantity"`
	CategoryID string    `json:"category_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// ProductUpdatedEvent 商品更新事件
type ProductUpdatedEvent struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	OldQuantity int       `json:"old_quantity"`
	Quantity    int       `json:"quantity"`
	CategoryID  string    `json:"category_id"`
	Image       string    `json:"image,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// ProductDeletedEvent 商品删除事件
type ProductDeletedEvent struct {
	ProductID string    `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CategoryDeletedEvent 分类删除事件，关联商品随之删除
type CategoryDeletedEvent struct {
	CategoryID string    `json:"category_id"`
	Timestamp  time.Time `json:"timestamp"`
}
