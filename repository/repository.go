// Package repository stores the engine's entities with gorm. Every store is
// bound to the transaction opened by UnitOfWork.Do.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/status"
)

// UnitOfWork opens one gorm transaction per call.
type UnitOfWork struct {
	db       *gorm.DB
	statuses status.Lookup
}

func NewUnitOfWork(db *gorm.DB, statuses status.Lookup) *UnitOfWork {
	return &UnitOfWork{db: db, statuses: statuses}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, s services.Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, Bind(tx, u.statuses))
	})
}

// Bind returns stores working on db, which may be a transaction.
func Bind(db *gorm.DB, statuses status.Lookup) services.Stores {
	base := store{db: db, statuses: statuses}
	return services.Stores{
		Tables:   &TableStore{base},
		Commands: &CommandStore{base},
		Orders:   &OrderStore{base},
		Catalog:  &Catalog{base},
		Sessions: &CashSessionStore{base},
		Closings: &ClosingRecordStore{base},
	}
}

type store struct {
	db       *gorm.DB
	statuses status.Lookup
}

func (s store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// forUpdate adds SELECT ... FOR UPDATE. Dialects without row locks drop it.
func (s store) forUpdate(ctx context.Context) *gorm.DB {
	db := s.conn(ctx)
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (s store) statusID(ctx context.Context, family status.Family, key string) (uint, error) {
	id, err := s.statuses.ID(ctx, family, key)
	return uint(id), err
}

func (s store) statusKey(ctx context.Context, family status.Family, id uint) (string, error) {
	return s.statuses.Key(ctx, family, domain.ID(id))
}

// first loads one row by primary key into dest and turns a missing row into
// a domain not found error.
func first(db *gorm.DB, dest any, entity string, id domain.ID) error {
	err := db.First(dest, uint(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(entity, id)
	}
	if err != nil {
		return fmt.Errorf("load %s %d: %w", entity, id, err)
	}
	return nil
}

// insertOrUpdate creates row when isNew, otherwise updates every column
// guarded by the version the entity was loaded with.
func insertOrUpdate(ctx context.Context, db *gorm.DB, row any, id uint, isNew bool, version int, entity string) error {
	if isNew {
		if err := db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
			return fmt.Errorf("create %s: %w", entity, err)
		}
		return nil
	}
	res := db.WithContext(ctx).Model(row).
		Where("version = ?", version-1).
		Select("*").Omit(clause.Associations).
		Updates(row)
	if res.Error != nil {
		return fmt.Errorf("update %s %d: %w", entity, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewRuleError(domain.RuleConcurrentUpdate, "%s %d was changed by someone else, reload and retry", entity, id)
	}
	return nil
}

func toAudit(a domain.Audit) models.AuditFields {
	return models.AuditFields{
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		DeletedAt: a.DeletedAt.ToPointer(),
		Version:   a.Version,
		CreatedBy: idPtr(a.CreatedBy),
		UpdatedBy: idPtr(a.UpdatedBy),
	}
}

func fromAudit(f models.AuditFields) domain.Audit {
	return domain.Audit{
		CreatedAt: f.CreatedAt.UTC(),
		UpdatedAt: f.UpdatedAt.UTC(),
		DeletedAt: timeOpt(f.DeletedAt),
		Version:   f.Version,
		CreatedBy: idOpt(f.CreatedBy),
		UpdatedBy: idOpt(f.UpdatedBy),
	}
}

func idPtr(o mo.Option[domain.ID]) *uint {
	id, ok := o.Get()
	if !ok {
		return nil
	}
	v := uint(id)
	return &v
}

func idOpt(p *uint) mo.Option[domain.ID] {
	if p == nil || *p == 0 {
		return mo.None[domain.ID]()
	}
	return mo.Some(domain.ID(*p))
}

func timeOpt(p *time.Time) mo.Option[time.Time] {
	if p == nil {
		return mo.None[time.Time]()
	}
	return mo.Some(p.UTC())
}
