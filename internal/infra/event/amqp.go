package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// topic exchange 宛てのチャネルを使い回す
type ChannelPool struct {
	conn     *amqp.Connection
	channels chan *amqp.Channel
	mu       sync.Mutex
	exchange string
	closed   bool
}

func NewChannelPool(url, exchange string, size int) (*ChannelPool, error) {
	if size <= 0 {
		size = 4
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	pool := &ChannelPool{
		conn:     conn,
		channels: make(chan *amqp.Channel, size),
		exchange: exchange,
	}
	for i := 0; i < size; i++ {
		ch, err := pool.createChannel()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("create channel %d: %w", i, err)
		}
		pool.channels <- ch
	}
	return pool, nil
}

func (p *ChannelPool) createChannel() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}
	// 冪等
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return ch, nil
}

func (p *ChannelPool) get(ctx context.Context) (*amqp.Channel, error) {
	select {
	case ch, ok := <-p.channels:
		if !ok {
			return nil, errors.New("channel pool closed")
		}
		if ch.IsClosed() {
			return p.createChannel()
		}
		return ch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *ChannelPool) put(ch *amqp.Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ch == nil || ch.IsClosed() || p.closed {
		return
	}
	select {
	case p.channels <- ch:
	default:
		ch.Close()
	}
}

func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.channels)
	for ch := range p.channels {
		ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

type AMQPPublisher struct {
	pool    *ChannelPool
	log     *zap.Logger
	timeout time.Duration
}

// DI
func NewAMQPPublisher(pool *ChannelPool, log *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{pool: pool, log: log, timeout: 5 * time.Second}
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ch, err := p.pool.get(ctx)
	if err != nil {
		return fmt.Errorf("get channel: %w", err)
	}
	defer p.pool.put(ch)

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = ch.PublishWithContext(ctx, p.pool.exchange, e.Name, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    e.ResourceID,
		Timestamp:    e.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Name, err)
	}

	p.log.Debug("event published", zap.String("name", e.Name), zap.String("resource_id", e.ResourceID))
	return nil
}
