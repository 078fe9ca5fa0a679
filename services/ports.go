package services

import (
	"context"
	"time"

	"github.com/samber/mo"

	"github.com/yeremiapane/restaurant-ops/domain"
)

// Stores opened by the unit of work share one transaction.

type TableStore interface {
	GetByID(ctx context.Context, id domain.ID) (domain.Table, error)
	GetForUpdate(ctx context.Context, id domain.ID) (domain.Table, error)
	ExistsByName(ctx context.Context, companyID domain.ID, name domain.TableName) (bool, error)
	Save(ctx context.Context, t domain.Table) (domain.Table, error)
}

type CommandStore interface {
	GetByID(ctx context.Context, id domain.ID) (domain.Command, error)
	GetForUpdate(ctx context.Context, id domain.ID) (domain.Command, error)
	ExistsByTableAndStatuses(ctx context.Context, tableID domain.ID, statusIDs []domain.ID) (bool, error)
	// ListClosedForCompany returns commands in statusID closed in [from, to).
	ListClosedForCompany(ctx context.Context, companyID, statusID domain.ID, from, to time.Time) ([]domain.Command, error)
	Save(ctx context.Context, c domain.Command) (domain.Command, error)
}

type OrderStore interface {
	GetAllForCommand(ctx context.Context, commandID domain.ID) ([]domain.Order, error)
	GetByID(ctx context.Context, id domain.ID) (domain.Order, error)
	// Save inserts the modifier joins together with a new order.
	Save(ctx context.Context, o domain.Order) (domain.Order, error)
}

type ModifierCatalog interface {
	GetProduct(ctx context.Context, id domain.ID) (domain.Product, error)
	GetGroupsForProduct(ctx context.Context, productID domain.ID) ([]domain.ModifierGroup, error)
	GetOptionsForGroup(ctx context.Context, groupID domain.ID) ([]domain.ModifierOption, error)
	GetOptionsByIDs(ctx context.Context, ids []domain.ID) ([]domain.ModifierOption, error)
}

type CashSessionStore interface {
	GetActiveForCompany(ctx context.Context, companyID domain.ID) (mo.Option[domain.CashSession], error)
	Save(ctx context.Context, s domain.CashSession) (domain.CashSession, error)
}

type ClosingRecordStore interface {
	GetBySession(ctx context.Context, companyID, sessionID domain.ID) (mo.Option[domain.ClosingRecord], error)
	Save(ctx context.Context, r domain.ClosingRecord) (domain.ClosingRecord, error)
}

type Stores struct {
	Tables   TableStore
	Commands CommandStore
	Orders   OrderStore
	Catalog  ModifierCatalog
	Sessions CashSessionStore
	Closings ClosingRecordStore
}

// UnitOfWork runs fn atomically. An error returned by fn undoes every write
// made through the stores it was given.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

// Actor is the authenticated employee performing an operation.
type Actor struct {
	EmployeeID domain.ID
	CompanyID  domain.ID
	Role       string
}
