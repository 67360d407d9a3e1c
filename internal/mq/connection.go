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

// ErrNotConnected — AMQP-канал недоступен: соединение разорвано
// и ещё не восстановлено.
var ErrNotConnected = errors.New("amqp connection unavailable")

// Параметры восстановления соединения.
const (
	reconnectInitialDelay = time.Second
	reconnectMaxDelay     = 30 * time.Second
)

// Connection — AMQP-соединение с автоматическим восстановлением.
//
// Пока соединение разорвано, публикации возвращают ErrNotConnected;
// события за это время теряются — MQ здесь best-effort канал,
// источником истины остаётся audit-журнал.
type Connection struct {
	url    string
	logger *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel

	done chan struct{}
	once sync.Once
}

// NewConnection подключается к RabbitMQ и запускает фоновое
// восстановление соединения.
func NewConnection(url string, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Connection{
		url:    url,
		logger: logger,
		done:   make(chan struct{}),
	}
	if err := c.dial(); err != nil {
		return nil, err
	}

	go c.maintain()

	return c, nil
}

// dial устанавливает соединение и открывает канал.
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

	return nil
}

// maintain ждёт разрыва соединения и восстанавливает его
// с экспоненциальной задержкой.
func (c *Connection) maintain() {
	for {
		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()

		// Close мог обнулить соединение между переподключением
		// и этой итерацией
		if conn == nil {
			return
		}

		closed := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-c.done:
			return
		case amqpErr := <-closed:
			if amqpErr != nil {
				c.logger.Warn("amqp connection lost", "error", amqpErr)
			}
		}

		c.mu.Lock()
		c.conn = nil
		c.channel = nil
		c.mu.Unlock()

		delay := reconnectInitialDelay
		for {
			select {
			case <-c.done:
				return
			case <-time.After(delay):
			}

			if err := c.dial(); err != nil {
				delay = min(delay*2, reconnectMaxDelay)
				c.logger.Warn("amqp reconnect failed", "error", err, "next_attempt_in", delay)
				continue
			}

			c.logger.Info("amqp reconnected")
			break
		}
	}
}

// WithChannel выполняет fn с текущим каналом.
func (c *Connection) WithChannel(ctx context.Context, fn func(ch *amqp.Channel) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.RLock()
	ch := c.channel
	c.mu.RUnlock()

	if ch == nil {
		return ErrNotConnected
	}
	return fn(ch)
}

// IsConnected сообщает, доступно ли соединение сейчас.
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Close останавливает восстановление и закрывает соединение.
// Повторные вызовы безопасны.
func (c *Connection) Close() error {
	var errs []error

	c.once.Do(func() {
		close(c.done)

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.channel != nil {
			if err := c.channel.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close channel: %w", err))
			}
			c.channel = nil
		}
		if c.conn != nil {
			if err := c.conn.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close connection: %w", err))
			}
			c.conn = nil
		}
	})

	return errors.Join(errs...)
}
