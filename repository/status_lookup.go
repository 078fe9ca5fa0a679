package repository

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/status"
)

// statusModels maps each family to the table holding it.
var statusModels = map[status.Family]any{
	status.Command:     &models.CommandStatus{},
	status.Order:       &models.OrderStatus{},
	status.CashSession: &models.CashSessionStatus{},
	status.Table:       &models.TableStatus{},
}

type statusRow struct {
	ID  uint
	Key string
}

// StatusLookup serves status identities from an in-memory copy of the status
// tables. The copy is taken when the lookup is built and on Reload, never
// inside a transaction.
type StatusLookup struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache *status.Static
}

func NewStatusLookup(ctx context.Context, db *gorm.DB) (*StatusLookup, error) {
	l := &StatusLookup{db: db}
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload rereads every status table.
func (l *StatusLookup) Reload(ctx context.Context) error {
	fresh := status.NewStatic(nil)
	for family, model := range statusModels {
		var rows []statusRow
		if err := l.db.WithContext(ctx).Model(model).Select("id", "key").Find(&rows).Error; err != nil {
			return fmt.Errorf("load %s statuses: %w", family, err)
		}
		for _, r := range rows {
			fresh.Set(family, r.Key, domain.ID(r.ID))
		}
	}
	l.mu.Lock()
	l.cache = fresh
	l.mu.Unlock()
	return nil
}

func (l *StatusLookup) ID(ctx context.Context, family status.Family, key string) (domain.ID, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache.ID(ctx, family, key)
}

func (l *StatusLookup) Key(ctx context.Context, family status.Family, id domain.ID) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache.Key(ctx, family, id)
}
