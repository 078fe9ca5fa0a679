package services

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-ops/events"
	"github.com/yeremiapane/restaurant-ops/locks"
	"github.com/yeremiapane/restaurant-ops/status"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	UoW       UnitOfWork
	Statuses  status.Lookup
	Locker    locks.Locker
	Publisher events.Publisher
	// Clock defaults to the current UTC time truncated to microseconds,
	// which is what the database keeps.
	Clock func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Locker == nil {
		d.Locker = locks.NewLocal()
	}
	if d.Publisher == nil {
		d.Publisher = events.Noop{}
	}
	if d.Clock == nil {
		d.Clock = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
	}
	return d
}

// outbox collects events raised inside a unit of work.
type outbox struct {
	events []events.Event
}

func (o *outbox) add(eventType string, companyID, aggregateID uint, data any) {
	o.events = append(o.events, events.New(eventType, companyID, aggregateID, data))
}

type engine struct {
	Deps
}

func newEngine(d Deps) engine {
	return engine{Deps: d.withDefaults()}
}

func (e engine) now() time.Time { return e.Clock() }

// run takes the named locks in a fixed order, executes fn in one unit of work
// and publishes what fn queued once the transaction has committed. The locks
// are released before publishing.
func (e engine) run(ctx context.Context, keys []string, fn func(ctx context.Context, s Stores, out *outbox) error) error {
	out := &outbox{}
	if err := e.locked(ctx, keys, func() error {
		return e.UoW.Do(ctx, func(ctx context.Context, s Stores) error {
			return fn(ctx, s, out)
		})
	}); err != nil {
		return err
	}

	for _, ev := range out.events {
		if err := e.Publisher.Publish(ctx, ev); err != nil {
			// the state change is committed; a lost notification is only logged
			utils.ErrorLogger.WithFields(logrus.Fields{
				"event":      ev.Type,
				"event_id":   ev.ID,
				"company_id": ev.CompanyID,
			}).Errorf("failed to publish event: %v", err)
		}
	}
	return nil
}

func (e engine) locked(ctx context.Context, keys []string, fn func() error) error {
	keys = lo.Uniq(keys)
	sort.Strings(keys)

	for _, key := range keys {
		release, err := e.Locker.Lock(ctx, key)
		if err != nil {
			return err
		}
		defer release()
	}
	return fn()
}
