// Package mq 提供领域事件发布：Kafka 生产者与日志发布者
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/wyfcoding/ecommerce/pkg/logger"
)

// Publisher 领域事件发布接口，各限界上下文的 EventPublisher 与之方法签名一致
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	Close() error
}

// KafkaConfig Kafka 配置
type KafkaConfig struct {
	Brokers []string
	// 所有 topic 的统一前缀
	TopicPrefix  string
	MaxRetries   int
	RetryBackoff int
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer Kafka 生产者
type KafkaProducer struct {
	writer messageWriter
	config KafkaConfig
}

// NewProducer 创建 Kafka 生产者；同一 key 的消息写入同一分区以保证顺序
func NewProducer(cfg KafkaConfig) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		Compression:            kafka.Gzip,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            cfg.MaxRetries,
		WriteBackoffMin:        time.Duration(cfg.RetryBackoff) * time.Millisecond,
		WriteBackoffMax:        time.Duration(cfg.RetryBackoff*10) * time.Millisecond,
	}

	logger.Info(context.Background(), "Kafka producer created successfully", "brokers", cfg.Brokers)
	return &KafkaProducer{
		writer: writer,
		config: cfg,
	}
}

// Publish 将事件序列化为 JSON 并同步写入 topic
func (kp *KafkaProducer) Publish(ctx context.Context, topic string, key string, event any) error {
	msg, err := newMessage(ctx, kp.config.TopicPrefix+topic, key, event)
	if err != nil {
		return err
	}

	if err := kp.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error(ctx, "Failed to send Kafka message",
			"topic", msg.Topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish %s: %w", msg.Topic, err)
	}

	logger.Debug(ctx, "Kafka message sent",
		"topic", msg.Topic,
		"key", key,
	)
	return nil
}

// Close 关闭生产者
func (kp *KafkaProducer) Close() error {
	return kp.writer.Close()
}

func newMessage(ctx context.Context, topic, key string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal message: %w", err)
	}

	headers := []kafka.Header{{Key: "event_type", Value: []byte(topic)}}
	if requestID := logger.RequestIDFromContext(ctx); requestID != "" {
		headers = append(headers, kafka.Header{Key: "request_id", Value: []byte(requestID)})
	}

	return kafka.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   data,
		Headers: headers,
	}, nil
}

// LogPublisher 未启用 Kafka 时使用，只记录事件
type LogPublisher struct{}

// Publish 记录事件
func (LogPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	logger.Debug(ctx, "Domain event", "topic", topic, "key", key, "event", event)
	return nil
}

// Close 无操作
func (LogPublisher) Close() error { return nil }
