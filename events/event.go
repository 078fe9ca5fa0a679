// Package events carries lifecycle notifications out of the engine to the
// websocket hub and the message brokers.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	CommandOpened          = "command.opened"
	CommandTotalRecomputed = "command.total_recomputed"
	CommandClosed          = "command.closed"
	OrderAdded             = "order.added"
	OrderStatusChanged     = "order.status_changed"
	OrdersClosedAll        = "orders.closed_all"
	CashSessionOpened      = "cash_session.opened"
	CashSessionClosed      = "cash_session.closed"
	TableRegistered        = "table.registered"
	TableStatusChanged     = "table.status_changed"
)

type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	CompanyID   uint      `json:"company_id"`
	AggregateID uint      `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Data        any       `json:"data"`
}

func New(eventType string, companyID, aggregateID uint, data any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		CompanyID:   companyID,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Data:        data,
	}
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop drops everything.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// Fanout sends each event to every publisher. A failing sink is logged and
// does not stop the others.
type Fanout struct {
	publishers []Publisher
	log        logrus.FieldLogger
}

func NewFanout(log logrus.FieldLogger, publishers ...Publisher) *Fanout {
	return &Fanout{publishers: publishers, log: log}
}

func (f *Fanout) Publish(ctx context.Context, e Event) error {
	for _, p := range f.publishers {
		if err := p.Publish(ctx, e); err != nil {
			f.log.WithFields(logrus.Fields{"event": e.Type, "event_id": e.ID}).Errorf("publish failed: %v", err)
		}
	}
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types lists the recorded event types in order.
func (r *Recorder) Types() []string {
	events := r.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}
