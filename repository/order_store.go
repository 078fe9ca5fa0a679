package repository

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/status"
)

type OrderStore struct{ store }

func (s *OrderStore) GetAllForCommand(ctx context.Context, commandID domain.ID) ([]domain.Order, error) {
	var rows []models.Order
	err := s.conn(ctx).
		Preload("Modifiers", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("command_id = ?", uint(commandID)).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list orders of command %d: %w", commandID, err)
	}
	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o, err := s.toDomain(ctx, row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *OrderStore) GetByID(ctx context.Context, id domain.ID) (domain.Order, error) {
	var row models.Order
	db := s.conn(ctx).Preload("Modifiers", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	if err := first(db, &row, "order", id); err != nil {
		return domain.Order{}, err
	}
	return s.toDomain(ctx, row)
}

// Save writes the modifier joins only on insert; they never change afterwards.
func (s *OrderStore) Save(ctx context.Context, o domain.Order) (domain.Order, error) {
	statusID, err := s.statusID(ctx, status.Order, string(o.Status))
	if err != nil {
		return domain.Order{}, err
	}
	row := models.Order{
		ID:             uint(o.ID),
		CommandID:      uint(o.CommandID),
		ProductID:      uint(o.ProductID),
		StatusID:       statusID,
		BasePrice:      o.BasePrice.Decimal(),
		ModifiersPrice: o.ModifiersPrice.Decimal(),
		Notes:          o.Notes,
		Priority:       o.Priority.ToPointer(),
		AuditFields:    toAudit(o.Audit),
	}
	if c, ok := o.Cancel.Get(); ok {
		row.CancelReason = &c.Reason
		row.CanceledBy = lo.ToPtr(uint(c.CanceledBy))
		row.CanceledAt = &c.CanceledAt
	}
	if err := insertOrUpdate(ctx, s.db, &row, row.ID, o.IsNew(), o.Audit.Version, "order"); err != nil {
		return domain.Order{}, err
	}

	if o.IsNew() && len(o.Modifiers) > 0 {
		joins := lo.Map(o.Modifiers, func(m domain.SelectedModifier, _ int) models.OrderModifier {
			return models.OrderModifier{
				OrderID:   row.ID,
				OptionID:  uint(m.OptionID),
				GroupID:   uint(m.GroupID),
				Price:     m.Price.Decimal(),
				CreatedAt: o.Audit.CreatedAt,
			}
		})
		if err := s.conn(ctx).Omit(clause.Associations).Create(&joins).Error; err != nil {
			return domain.Order{}, fmt.Errorf("create modifiers of order %d: %w", row.ID, err)
		}
	}
	o.ID = domain.ID(row.ID)
	return o, nil
}

func (s *OrderStore) toDomain(ctx context.Context, row models.Order) (domain.Order, error) {
	key, err := s.statusKey(ctx, status.Order, row.StatusID)
	if err != nil {
		return domain.Order{}, err
	}
	base, err := domain.NewMoney(row.BasePrice)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %d base price: %w", row.ID, err)
	}
	mods, err := domain.NewMoney(row.ModifiersPrice)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %d modifiers price: %w", row.ID, err)
	}

	selected := make([]domain.SelectedModifier, 0, len(row.Modifiers))
	for _, m := range row.Modifiers {
		price, err := domain.NewMoney(m.Price)
		if err != nil {
			return domain.Order{}, fmt.Errorf("order %d modifier %d price: %w", row.ID, m.OptionID, err)
		}
		selected = append(selected, domain.SelectedModifier{
			OptionID: domain.ID(m.OptionID),
			GroupID:  domain.ID(m.GroupID),
			Price:    price,
		})
	}

	cancel := mo.None[domain.CancelInfo]()
	if row.CancelReason != nil {
		info := domain.CancelInfo{Reason: *row.CancelReason}
		if row.CanceledBy != nil {
			info.CanceledBy = domain.ID(*row.CanceledBy)
		}
		if row.CanceledAt != nil {
			info.CanceledAt = row.CanceledAt.UTC()
		}
		cancel = mo.Some(info)
	}

	return domain.Order{
		ID:             domain.ID(row.ID),
		CommandID:      domain.ID(row.CommandID),
		ProductID:      domain.ID(row.ProductID),
		Status:         domain.OrderStatus(key),
		BasePrice:      base,
		ModifiersPrice: mods,
		Notes:          row.Notes,
		Priority:       mo.PointerToOption(row.Priority),
		Cancel:         cancel,
		Modifiers:      selected,
		Audit:          fromAudit(row.AuditFields),
	}, nil
}
