package event

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// イベント名（ルーティングキーを兼ねる）
const (
	PaymentApproved    = "payment.approved"
	PaymentRejected    = "payment.rejected"
	OrderStatusChanged = "order.status_changed"
)

type Event struct {
	Name       string          `json:"name"`
	ResourceID string          `json:"resourceId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// 支払い・注文イベントの通知先
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// payload を JSON にして Event を作る
func New(name, resourceID string, payload any, now time.Time) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, ResourceID: resourceID, OccurredAt: now, Payload: raw}, nil
}

// 受け取ったイベントを保持するだけ（開発・テスト用）
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
	log    *zap.Logger
}

func NewMemoryPublisher(log *zap.Logger) *MemoryPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &MemoryPublisher{log: log}
}

func (p *MemoryPublisher) Publish(ctx context.Context, e Event) error {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
	p.log.Info("event published", zap.String("name", e.Name), zap.String("resource_id", e.ResourceID))
	return nil
}

func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}
