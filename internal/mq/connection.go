package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNoChannel — AMQP канал недоступен (соединение разорвано или закрыто).
var ErrNoChannel = errors.New("no channel available")

// maxReconnectDelay — верхняя граница задержки между попытками переподключения.
const maxReconnectDelay = 30 * time.Second

// Connection — AMQP соединение с одним каналом и автоматическим reconnect.
//
// После переподключения или переоткрытия канала подписчики ReconnectNotify
// получают сигнал и должны заново объявить свои очереди и подписки.
type Connection struct {
	url    string
	logger *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool

	done        chan struct{}
	reconnected chan struct{}
}

// NewConnection устанавливает соединение с RabbitMQ.
func NewConnection(url string, logger *slog.Logger) (*Connection, error) {
	c := &Connection{
		url:         url,
		logger:      logger,
		done:        make(chan struct{}),
		reconnected: make(chan struct{}, 1),
	}

	if err := c.dial(); err != nil {
		return nil, err
	}

	go c.supervise()

	return c, nil
}

// dial открывает соединение и канал.
func (c *Connection) dial() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = ch
	c.mu.Unlock()

	c.logger.Info("connected to RabbitMQ")
	return nil
}

// closeEvent — причина, по которой supervise проснулся.
type closeEvent int

const (
	closeStopped    closeEvent = iota // вызван Close
	closeConnection                   // разорвано соединение
	closeChannel                      // закрыт только канал
)

// supervise следит за соединением и каналом.
// При разрыве соединения переподключается целиком, при закрытии
// канала (например, ошибка precondition при declare) открывает новый
// канал на том же соединении.
func (c *Connection) supervise() {
	for {
		c.mu.RLock()
		conn, ch := c.conn, c.channel
		c.mu.RUnlock()

		connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
		chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

		var ok bool
		switch c.waitClose(connClosed, chClosed) {
		case closeStopped:
			return
		case closeConnection:
			ok = c.redial()
		case closeChannel:
			ok = c.reopen(conn)
		}
		if !ok {
			return
		}
	}
}

// waitClose блокируется до Close, разрыва соединения или закрытия канала.
func (c *Connection) waitClose(connClosed, chClosed <-chan *amqp.Error) closeEvent {
	select {
	case <-c.done:
		return closeStopped
	case err := <-connClosed:
		if err != nil {
			c.logger.Warn("connection closed", "error", err)
		}
		return closeConnection
	case err := <-chClosed:
		if err != nil {
			c.logger.Warn("channel closed", "error", err)
		}
		return closeChannel
	}
}

// redial переподключается с экспоненциальной задержкой.
// Возвращает false, если соединение закрыто через Close.
func (c *Connection) redial() bool {
	c.mu.Lock()
	c.channel = nil
	c.mu.Unlock()

	delay := time.Second
	for {
		select {
		case <-c.done:
			return false
		case <-time.After(delay):
		}

		if err := c.dial(); err != nil {
			c.logger.Warn("reconnect failed", "error", err, "next_delay", delay)
			delay = min(delay*2, maxReconnectDelay)
			continue
		}

		c.notifyReconnected()
		return true
	}
}

// reopen открывает новый канал на conn с экспоненциальной задержкой.
// Если conn тоже разорвано, переподключается через redial.
// Возвращает false, если соединение закрыто через Close.
func (c *Connection) reopen(conn *amqp.Connection) bool {
	c.mu.Lock()
	c.channel = nil
	c.mu.Unlock()

	delay := time.Second
	for {
		select {
		case <-c.done:
			return false
		case <-time.After(delay):
		}

		if conn.IsClosed() {
			return c.redial()
		}

		ch, err := conn.Channel()
		if err != nil {
			c.logger.Warn("reopen channel failed", "error", err, "next_delay", delay)
			delay = min(delay*2, maxReconnectDelay)
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			ch.Close()
			return false
		}
		c.channel = ch
		c.mu.Unlock()

		c.logger.Info("channel reopened")
		c.notifyReconnected()
		return true
	}
}

// notifyReconnected сигналит подписчикам ReconnectNotify.
// Несколько непрочитанных сигналов схлопываются в один.
func (c *Connection) notifyReconnected() {
	select {
	case c.reconnected <- struct{}{}:
	default:
	}
}

// ReconnectNotify возвращает канал уведомлений о переподключении.
func (c *Connection) ReconnectNotify() <-chan struct{} {
	return c.reconnected
}

// WithChannel выполняет fn с текущим каналом.
func (c *Connection) WithChannel(_ context.Context, fn func(ch *amqp.Channel) error) error {
	c.mu.RLock()
	ch := c.channel
	c.mu.RUnlock()

	if ch == nil {
		return ErrNoChannel
	}
	return fn(ch)
}

// IsConnected проверяет, установлено ли соединение.
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Close закрывает соединение. Повторный вызов ничего не делает.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}

	c.logger.Info("connection closed")
	return errors.Join(errs...)
}
