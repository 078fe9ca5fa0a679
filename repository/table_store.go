package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/status"
)

type TableStore struct{ store }

func (s *TableStore) GetByID(ctx context.Context, id domain.ID) (domain.Table, error) {
	return s.get(ctx, s.conn(ctx), id)
}

func (s *TableStore) GetForUpdate(ctx context.Context, id domain.ID) (domain.Table, error) {
	return s.get(ctx, s.forUpdate(ctx), id)
}

func (s *TableStore) get(ctx context.Context, db *gorm.DB, id domain.ID) (domain.Table, error) {
	var row models.Table
	if err := first(db, &row, "table", id); err != nil {
		return domain.Table{}, err
	}
	return s.toDomain(ctx, row)
}

// ExistsByName ignores soft-deleted tables.
func (s *TableStore) ExistsByName(ctx context.Context, companyID domain.ID, name domain.TableName) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Table{}).
		Where("company_id = ? AND name = ? AND deleted_at IS NULL", uint(companyID), string(name)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count tables named %q: %w", name, err)
	}
	return count > 0, nil
}

func (s *TableStore) Save(ctx context.Context, t domain.Table) (domain.Table, error) {
	statusID, err := s.statusID(ctx, status.Table, string(t.Status))
	if err != nil {
		return domain.Table{}, err
	}
	row := models.Table{
		ID:          uint(t.ID),
		CompanyID:   uint(t.CompanyID),
		Name:        string(t.Name),
		Capacity:    t.Capacity,
		StatusID:    statusID,
		AuditFields: toAudit(t.Audit),
	}
	if err := insertOrUpdate(ctx, s.db, &row, row.ID, t.IsNew(), t.Audit.Version, "table"); err != nil {
		return domain.Table{}, err
	}
	t.ID = domain.ID(row.ID)
	return t, nil
}

func (s *TableStore) toDomain(ctx context.Context, row models.Table) (domain.Table, error) {
	key, err := s.statusKey(ctx, status.Table, row.StatusID)
	if err != nil {
		return domain.Table{}, err
	}
	return domain.Table{
		ID:        domain.ID(row.ID),
		CompanyID: domain.ID(row.CompanyID),
		Name:      domain.TableName(row.Name),
		Capacity:  row.Capacity,
		Status:    domain.TableStatus(key),
		Audit:     fromAudit(row.AuditFields),
	}, nil
}
