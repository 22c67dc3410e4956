package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/flowmodeler/internal/domain"
)

// MessageType — тип события.
type MessageType string

// Типы событий.
const (
	MessageTypeElementUpdated MessageType = "element.updated"
	MessageTypeCatalogChanged MessageType = "catalog.changed"
)

// Message — сообщение в обменнике событий.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Source — ID экземпляра, опубликовавшего сообщение.
	Source string `json:"source,omitempty"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// ElementUpdatedPayload — payload события о применённой правке.
type ElementUpdatedPayload struct {
	SessionID string          `json:"session_id"`
	FlowID    string          `json:"flow_id"`
	SubflowID string          `json:"subflow_id"`
	ElementID string          `json:"element_id"`
	Location  domain.Location `json:"location"`
}

// CatalogChangedPayload — payload события об изменении каталога.
type CatalogChangedPayload struct {
	FlowID string `json:"flow_id"`
}

// Publisher публикует события в RabbitMQ.
type Publisher struct {
	conn     *Connection
	logger   *slog.Logger
	instance string
}

// NewPublisher создаёт новый Publisher.
// instance попадает в Message.Source, чтобы потребители могли
// отличить собственные события.
func NewPublisher(conn *Connection, logger *slog.Logger, instance string) *Publisher {
	return &Publisher{
		conn:     conn,
		logger:   logger,
		instance: instance,
	}
}

// Publish публикует сообщение в обменник событий.
func (p *Publisher) Publish(ctx context.Context, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(ExchangeEvents), // exchange
			string(routingKey),     // routing key
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				MessageId:   msg.ID,
				Timestamp:   msg.Timestamp,
				Body:        body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish %s: %w", routingKey, err)
		}

		p.logger.Debug("published message",
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}

// PublishElementUpdated публикует событие о применённой правке.
func (p *Publisher) PublishElementUpdated(ctx context.Context, payload ElementUpdatedPayload) error {
	return p.Publish(ctx, RoutingKeyElementUpdated, p.newMessage(MessageTypeElementUpdated, payload))
}

// PublishCatalogChanged публикует событие об изменении каталога.
// Потребитель: все экземпляры API (перезагрузка каталога).
func (p *Publisher) PublishCatalogChanged(ctx context.Context, flowID string) error {
	return p.Publish(ctx, RoutingKeyCatalogChanged,
		p.newMessage(MessageTypeCatalogChanged, CatalogChangedPayload{FlowID: flowID}))
}

func (p *Publisher) newMessage(t MessageType, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      t,
		Source:    p.instance,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}
