package domain

import "context"

// EventPublisher 领域事件发布者接口
type EventPublisher interface {
	// Publish 发布事件，key 用于分区
	Publish(ctx context.Context, topic string, key string, event any) error
}
