package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// ExchangeEvents — topic обменник событий modeler.
const ExchangeEvents Exchange = "modeler.events"

// Routing keys.
const (
	RoutingKeyElementUpdated RoutingKey = "element.updated"
	RoutingKeyCatalogChanged RoutingKey = "catalog.changed"
)

// SetupTopology объявляет обменник событий.
//
// Очереди объявляют сами потребители (см. ConsumerConfig.Binding):
// у каждого экземпляра API своя очередь catalog.changed.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeEvents), // name
			"topic",                // type
			true,                   // durable
			false,                  // auto-deleted
			false,                  // internal
			false,                  // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeEvents, err)
		}
		return nil
	})
}

// Binding — очередь потребителя, привязанная к обменнику.
type Binding struct {
	Exchange   Exchange
	RoutingKey RoutingKey

	// AutoDelete — очередь удаляется после отключения последнего потребителя.
	AutoDelete bool
}

// declareBinding объявляет очередь queue и привязывает её к обменнику.
func declareBinding(ch *amqp.Channel, queue string, b Binding) error {
	_, err := ch.QueueDeclare(
		queue,         // name
		!b.AutoDelete, // durable
		b.AutoDelete,  // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	err = ch.QueueBind(
		queue,                // queue name
		string(b.RoutingKey), // routing key
		string(b.Exchange),   // exchange
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		return fmt.Errorf("bind queue %s to %s: %w", queue, b.Exchange, err)
	}
	return nil
}
