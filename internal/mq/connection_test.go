package mq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

func newTestConnection() *Connection {
	return &Connection{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		done:        make(chan struct{}),
		reconnected: make(chan struct{}, 1),
	}
}

func TestWaitClose(t *testing.T) {
	tests := []struct {
		name    string
		trigger func(c *Connection, connClosed, chClosed chan *amqp.Error)
		want    closeEvent
	}{
		{
			name: "channel precondition failure",
			trigger: func(_ *Connection, _, chClosed chan *amqp.Error) {
				chClosed <- &amqp.Error{Code: amqp.PreconditionFailed, Reason: "PRECONDITION_FAILED"}
			},
			want: closeChannel,
		},
		{
			name: "connection lost",
			trigger: func(_ *Connection, connClosed, _ chan *amqp.Error) {
				connClosed <- &amqp.Error{Code: amqp.ConnectionForced, Reason: "CONNECTION_FORCED"}
			},
			want: closeConnection,
		},
		{
			name: "stopped",
			trigger: func(c *Connection, _, _ chan *amqp.Error) {
				close(c.done)
			},
			want: closeStopped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConnection()
			connClosed := make(chan *amqp.Error, 1)
			chClosed := make(chan *amqp.Error, 1)

			tt.trigger(c, connClosed, chClosed)

			if got := c.waitClose(connClosed, chClosed); got != tt.want {
				t.Errorf("expected event %d, got %d", tt.want, got)
			}
		})
	}
}

func TestReopen_StoppedConnection(t *testing.T) {
	c := newTestConnection()
	close(c.done)

	if c.reopen(nil) {
		t.Error("reopen must give up after Close")
	}
	if err := c.WithChannel(context.Background(), func(*amqp.Channel) error { return nil }); !errors.Is(err, ErrNoChannel) {
		t.Errorf("expected ErrNoChannel, got %v", err)
	}
}

func TestNotifyReconnected_Coalesces(t *testing.T) {
	c := newTestConnection()

	c.notifyReconnected()
	c.notifyReconnected()

	select {
	case <-c.ReconnectNotify():
	default:
		t.Fatal("expected reconnect signal")
	}
	select {
	case <-c.ReconnectNotify():
		t.Error("signals must coalesce")
	default:
	}
}
