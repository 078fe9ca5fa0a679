// Package locks serializes check-then-insert operations (one open command per
// table, one open cash session per company) across requests.
package locks

import (
	"context"
	"fmt"
	"sync"
)

// Locker acquires a named lock. The returned release function must be called
// exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

func TableKey(tableID uint) string         { return fmt.Sprintf("table:%d", tableID) }
func CommandKey(commandID uint) string     { return fmt.Sprintf("command:%d", commandID) }
func CashSessionKey(companyID uint) string { return fmt.Sprintf("cash-session:company:%d", companyID) }
func TableNameKey(companyID uint) string   { return fmt.Sprintf("table-name:company:%d", companyID) }

type entry struct {
	sem  chan struct{}
	refs int
}

// Local is an in-process keyed mutex. It is enough for a single instance.
type Local struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewLocal() *Local {
	return &Local{entries: make(map[string]*entry)}
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, e)
		return nil, fmt.Errorf("lock %s: %w", key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.drop(key, e)
		})
	}, nil
}

func (l *Local) drop(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
