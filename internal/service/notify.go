package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Change actions carried by table-change events.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ChangeEvent is one table-change notification. For the link_clicks table
// ID carries the owning profile's ID so consumers can filter per profile.
type ChangeEvent struct {
	Table  string    `json:"table"`
	Action string    `json:"action"`
	ID     uuid.UUID `json:"id"`
}

// ChangePublisher publishes table-change events.
type ChangePublisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

// ChangeSubscriber delivers table-change events for one table. The returned
// subscription must be closed by the consumer; the channel is shared by all
// views of the table on the caller's side, not duplicated per view.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context, table string) (*Subscription, error)
}

// Subscription is a live feed of change events for one table. Close releases
// the underlying connection; C is closed afterwards.
type Subscription struct {
	C       <-chan ChangeEvent
	closeFn func() error
}

// NewSubscription wraps a delivery channel in a Subscription.
func NewSubscription(ch <-chan ChangeEvent, closeFn func() error) *Subscription {
	return &Subscription{C: ch, closeFn: closeFn}
}

// Close releases the subscription.
func (s *Subscription) Close() error {
	if s.closeFn != nil {
		return s.closeFn()
	}
	return nil
}

// Notifier broadcasts table-change events over Redis pub/sub, one channel
// per table.
type Notifier struct {
	rdb *redis.Client
}

var _ ChangePublisher = (*Notifier)(nil)
var _ ChangeSubscriber = (*Notifier)(nil)

// NewNotifier creates a Notifier on the given Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

func changeChannel(table string) string {
	return "changes:" + table
}

// Publish sends a change event to every subscriber of the table's channel.
func (n *Notifier) Publish(ctx context.Context, ev ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode change event: %w", err)
	}
	if err := n.rdb.Publish(ctx, changeChannel(ev.Table), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// Subscribe opens a live feed of change events for one table.
func (n *Notifier) Subscribe(ctx context.Context, table string) (*Subscription, error) {
	pubsub := n.rdb.Subscribe(ctx, changeChannel(table))

	// Confirm the subscription before handing it out.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s changes: %w", table, err)
	}

	out := make(chan ChangeEvent, 16)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var ev ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[Notifier] Dropping malformed change event: %v", err)
				continue
			}
			select {
			case out <- ev:
			default:
				// Slow consumer; drop rather than block the pump.
				log.Printf("[Notifier] Dropping change event for %s, consumer too slow", ev.Table)
			}
		}
	}()

	return NewSubscription(out, pubsub.Close), nil
}
