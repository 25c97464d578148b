// Package events публикует события об оформленных заказах.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/vitrina-bot/internal/domain/models"
	"github.com/segmentio/kafka-go"
)

const EventOrderPlaced = "OrderPlaced"

// Envelope обертка события
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

// OrderPlacedPayload полезная нагрузка OrderPlaced
type OrderPlacedPayload struct {
	OrderID      string `json:"order_id"`
	ProductName  string `json:"product_name"`
	Brand        string `json:"brand"`
	Size         string `json:"size"`
	Quantity     int    `json:"quantity"`
	Price        int64  `json:"price"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	Username     string `json:"username,omitempty"`
	Deadline     string `json:"deadline"`
}

// Publisher отправляет событие об оформленном заказе.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher пишет события в топик, ключ сообщения - ID заказа.
type KafkaPublisher struct {
	w        messageWriter
	producer string
	now      func() time.Time
}

var _ Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic, producer string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		producer: producer,
		now:      time.Now,
	}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	const op = "events.KafkaPublisher.PublishOrderPlaced"

	value, err := NewOrderPlaced(order, p.producer, p.now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	}); err != nil {
		return fmt.Errorf("%s: write message: %w", op, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// NewOrderPlaced собирает сериализованный конверт события
func NewOrderPlaced(order *models.Order, producer string, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(OrderPlacedPayload{
		OrderID:      order.ID,
		ProductName:  order.ProductName,
		Brand:        order.Brand,
		Size:         string(order.Size),
		Quantity:     order.Quantity,
		Price:        order.Price,
		ContactName:  order.ContactName,
		ContactPhone: order.ContactPhone,
		Username:     order.Username,
		Deadline:     order.Deadline,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(Envelope{
		EventID:      uuid.NewString(),
		EventType:    EventOrderPlaced,
		EventVersion: 1,
		OccurredAt:   at.UTC(),
		Producer:     producer,
		Payload:      payload,
	})
}

// NopPublisher используется, когда брокеры не настроены.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, *models.Order) error { return nil }
func (NopPublisher) Close() error                                           { return nil }
