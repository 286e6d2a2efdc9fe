package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inventory-order-service/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const DefaultOrderEventsTopic = "order.events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes order lifecycle events keyed by order id, so every
// event of one order lands on the same partition.
type Producer struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	if topic == "" {
		topic = DefaultOrderEventsTopic
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	logger.Info("Kafka producer initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &Producer{writer: w, topic: topic, logger: logger}
}

func newProducerWithWriter(w messageWriter, topic string, logger *zap.Logger) *Producer {
	return &Producer{writer: w, topic: topic, logger: logger}
}

func (p *Producer) PublishOrderEvent(ctx context.Context, evt models.OrderEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish order event",
			zap.String("order_id", evt.OrderID),
			zap.String("event_type", evt.Type),
			zap.String("topic", p.topic),
			zap.Error(err),
		)
		return err
	}
	p.logger.Debug("Order event published",
		zap.String("order_id", evt.OrderID),
		zap.String("event_type", evt.Type),
	)
	return nil
}

func (p *Producer) Close() error {
	p.logger.Info("Closing Kafka producer", zap.String("topic", p.topic))
	return p.writer.Close()
}
