// Package status resolves the symbolic status keys used by the engine to the
// identities stored in the status tables, one family per enum.
package status

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/yeremiapane/restaurant-ops/domain"
)

type Family string

const (
	Command     Family = "command"
	Order       Family = "order"
	CashSession Family = "cash_session"
	Table       Family = "table"
)

// Lookup maps keys to identities and back.
type Lookup interface {
	ID(ctx context.Context, family Family, key string) (domain.ID, error)
	Key(ctx context.Context, family Family, id domain.ID) (string, error)
}

// Defaults lists every key of every family, in identity order.
var Defaults = map[Family][]string{
	Command: {
		string(domain.CommandOpen),
		string(domain.CommandClosed),
		string(domain.CommandCanceled),
	},
	Order: {
		string(domain.OrderPendingConfirmation),
		string(domain.OrderInPreparation),
		string(domain.OrderReadyForDelivery),
		string(domain.OrderDeliveredServed),
		string(domain.OrderItemCanceled),
	},
	CashSession: {
		string(domain.CashSessionOpen),
		string(domain.CashSessionClosed),
	},
	Table: {
		string(domain.TableAvailable),
		string(domain.TableOccupied),
		string(domain.TableReserved),
		string(domain.TableOutOfService),
	},
}

// Static is a fixed in-memory mapping.
type Static struct {
	ids  map[Family]map[string]domain.ID
	keys map[Family]map[domain.ID]string
}

// NewStatic builds a mapping where each key's identity is its 1-based
// position in the family list.
func NewStatic(families map[Family][]string) *Static {
	s := &Static{
		ids:  make(map[Family]map[string]domain.ID),
		keys: make(map[Family]map[domain.ID]string),
	}
	for family, keys := range families {
		s.ids[family] = make(map[string]domain.ID, len(keys))
		s.keys[family] = make(map[domain.ID]string, len(keys))
		for i, key := range keys {
			s.Set(family, key, domain.ID(i+1))
		}
	}
	return s
}

// Set adds or replaces one mapping.
func (s *Static) Set(family Family, key string, id domain.ID) {
	if s.ids[family] == nil {
		s.ids[family] = make(map[string]domain.ID)
		s.keys[family] = make(map[domain.ID]string)
	}
	s.ids[family][key] = id
	s.keys[family][id] = key
}

func (s *Static) ID(_ context.Context, family Family, key string) (domain.ID, error) {
	id, ok := s.ids[family][key]
	if !ok {
		return 0, domain.NotFound(fmt.Sprintf("%s status", family), key)
	}
	return id, nil
}

func (s *Static) Key(_ context.Context, family Family, id domain.ID) (string, error) {
	key, ok := s.keys[family][id]
	if !ok {
		return "", domain.NotFound(fmt.Sprintf("%s status", family), id)
	}
	return key, nil
}

// IDs resolves several keys of one family.
func IDs(ctx context.Context, l Lookup, family Family, keys ...string) ([]domain.ID, error) {
	ids := make([]domain.ID, 0, len(keys))
	for _, key := range lo.Uniq(keys) {
		id, err := l.ID(ctx, family, key)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
