package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/status"
)

type CommandStore struct{ store }

func (s *CommandStore) GetByID(ctx context.Context, id domain.ID) (domain.Command, error) {
	return s.get(ctx, s.conn(ctx), id)
}

func (s *CommandStore) GetForUpdate(ctx context.Context, id domain.ID) (domain.Command, error) {
	return s.get(ctx, s.forUpdate(ctx), id)
}

func (s *CommandStore) get(ctx context.Context, db *gorm.DB, id domain.ID) (domain.Command, error) {
	var row models.Command
	if err := first(db, &row, "command", id); err != nil {
		return domain.Command{}, err
	}
	return s.toDomain(ctx, row)
}

func (s *CommandStore) ExistsByTableAndStatuses(ctx context.Context, tableID domain.ID, statusIDs []domain.ID) (bool, error) {
	if len(statusIDs) == 0 {
		return false, nil
	}
	var count int64
	err := s.conn(ctx).Model(&models.Command{}).
		Where("table_id = ? AND status_id IN ? AND deleted_at IS NULL",
			uint(tableID), lo.Map(statusIDs, func(id domain.ID, _ int) uint { return uint(id) })).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count active commands of table %d: %w", tableID, err)
	}
	return count > 0, nil
}

func (s *CommandStore) ListClosedForCompany(ctx context.Context, companyID, statusID domain.ID, from, to time.Time) ([]domain.Command, error) {
	var rows []models.Command
	err := s.conn(ctx).
		Where("company_id = ? AND status_id = ? AND closed_at >= ? AND closed_at < ? AND deleted_at IS NULL",
			uint(companyID), uint(statusID), from, to).
		Order("closed_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list closed commands of company %d: %w", companyID, err)
	}
	commands := make([]domain.Command, 0, len(rows))
	for _, row := range rows {
		c, err := s.toDomain(ctx, row)
		if err != nil {
			return nil, err
		}
		commands = append(commands, c)
	}
	return commands, nil
}

func (s *CommandStore) Save(ctx context.Context, c domain.Command) (domain.Command, error) {
	statusID, err := s.statusID(ctx, status.Command, string(c.Status))
	if err != nil {
		return domain.Command{}, err
	}
	total := decimal.NullDecimal{}
	if m, ok := c.TotalAmount.Get(); ok {
		total = decimal.NewNullDecimal(m.Decimal())
	}
	row := models.Command{
		ID:          uint(c.ID),
		CompanyID:   uint(c.CompanyID),
		TableID:     uint(c.TableID),
		EmployeeID:  uint(c.EmployeeID),
		StatusID:    statusID,
		TotalAmount: total,
		OpenedAt:    c.OpenedAt,
		ClosedAt:    c.ClosedAt.ToPointer(),
		ClosedBy:    idPtr(c.ClosedBy),
		AuditFields: toAudit(c.Audit),
	}
	if err := insertOrUpdate(ctx, s.db, &row, row.ID, c.IsNew(), c.Audit.Version, "command"); err != nil {
		return domain.Command{}, err
	}
	c.ID = domain.ID(row.ID)
	return c, nil
}

func (s *CommandStore) toDomain(ctx context.Context, row models.Command) (domain.Command, error) {
	key, err := s.statusKey(ctx, status.Command, row.StatusID)
	if err != nil {
		return domain.Command{}, err
	}
	total := mo.None[domain.Money]()
	if row.TotalAmount.Valid {
		m, err := domain.NewMoney(row.TotalAmount.Decimal)
		if err != nil {
			return domain.Command{}, fmt.Errorf("command %d total: %w", row.ID, err)
		}
		total = mo.Some(m)
	}
	return domain.Command{
		ID:          domain.ID(row.ID),
		CompanyID:   domain.ID(row.CompanyID),
		TableID:     domain.ID(row.TableID),
		EmployeeID:  domain.ID(row.EmployeeID),
		Status:      domain.CommandStatus(key),
		TotalAmount: total,
		OpenedAt:    row.OpenedAt.UTC(),
		ClosedAt:    timeOpt(row.ClosedAt),
		ClosedBy:    idOpt(row.ClosedBy),
		Audit:       fromAudit(row.AuditFields),
	}, nil
}
