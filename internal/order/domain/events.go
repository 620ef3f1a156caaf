package domain

import (
	"time"
)

// 事件主题
const (
	TopicOrderPlaced        = "order.placed"
	TopicOrderLinesReplaced = "order.lines_replaced"
	TopicOrderDeleted       = "order.deleted"
)

// OrderLineEvent 事件中的行项目
type OrderLineEvent struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// OrderPlacedEvent 订单创建事件
type OrderPlacedEvent struct {
	OrderID    string           `json:"order_id"`
	UserID     string           `json:"user_id"`
	OrderDate  time.Time        `json:"order_date"`
	Lines      []OrderLineEvent `json:"lines"`
	Total      string           `json:"total"`
	OccurredOn time.Time        `json:"occurred_on"`
}

// OrderLinesReplacedEvent 订单行项目整体替换事件
type OrderLinesReplacedEvent struct {
	OrderID    string           `json:"order_id"`
	UserID     string           `json:"user_id"`
	Lines      []OrderLineEvent `json:"lines"`
	Total      string           `json:"total"`
	OccurredOn time.Time        `json:"occurred_on"`
}

// OrderDeletedEvent 订单删除事件
type OrderDeletedEvent struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	LineCount  int       `json:"line_count"`
	OccurredOn time.Time `json:"occurred_on"`
}

// NewOrderPlacedEvent 由订单构造创建事件
func NewOrderPlacedEvent(o *Order, now time.Time) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		OrderDate:  o.OrderDate,
		Lines:      lineEvents(o.Lines),
		Total:      o.Total().StringFixed(2),
		OccurredOn: now,
	}
}

// NewOrderLinesReplacedEvent 由订单构造行项目替换事件
func NewOrderLinesReplacedEvent(o *Order, now time.Time) OrderLinesReplacedEvent {
	return OrderLinesReplacedEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Lines:      lineEvents(o.Lines),
		Total:      o.Total().StringFixed(2),
		OccurredOn: now,
	}
}

// NewOrderDeletedEvent 由订单构造删除事件
func NewOrderDeletedEvent(o *Order, now time.Time) OrderDeletedEvent {
	return OrderDeletedEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		LineCount:  len(o.Lines),
		OccurredOn: now,
	}
}

func lineEvents(lines []OrderLine) []OrderLineEvent {
	out := make([]OrderLineEvent, len(lines))
	for i, l := range lines {
		out[i] = OrderLineEvent{ProductID: l.ProductID, Quantity: l.Quantity, Price: l.Price.StringFixed(2)}
	}
	return out
}
