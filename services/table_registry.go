package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/events"
	"github.com/yeremiapane/restaurant-ops/locks"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// TableRegistry keeps the tables commands are opened against.
type TableRegistry struct {
	engine
}

func NewTableRegistry(d Deps) *TableRegistry {
	return &TableRegistry{engine: newEngine(d)}
}

// Register creates an AVAILABLE table. Names are unique per company.
func (r *TableRegistry) Register(ctx context.Context, actor Actor, rawName string, capacity int) (domain.Table, error) {
	name, err := domain.NewTableName(rawName)
	if err != nil {
		return domain.Table{}, err
	}
	table, err := domain.NewTable(actor.CompanyID, name, capacity, actor.EmployeeID, r.now())
	if err != nil {
		return domain.Table{}, err
	}

	err = r.run(ctx, []string{locks.TableNameKey(uint(actor.CompanyID))}, func(ctx context.Context, s Stores, out *outbox) error {
		taken, err := s.Tables.ExistsByName(ctx, actor.CompanyID, name)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewRuleError(domain.RuleTableNameTaken, "a table named %q already exists", name)
		}
		table, err = s.Tables.Save(ctx, table)
		if err != nil {
			return err
		}
		out.add(events.TableRegistered, uint(table.CompanyID), uint(table.ID), table)
		return nil
	})
	if err != nil {
		return domain.Table{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"table_id":   table.ID,
		"company_id": table.CompanyID,
	}).Info("table registered")
	return table, nil
}

// Get returns a table of the actor's company.
func (r *TableRegistry) Get(ctx context.Context, actor Actor, id domain.ID) (domain.Table, error) {
	var table domain.Table
	err := r.UoW.Do(ctx, func(ctx context.Context, s Stores) error {
		var err error
		table, err = s.Tables.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return sameCompany(actor, table.CompanyID, "table")
	})
	return table, err
}

func (r *TableRegistry) SetStatus(ctx context.Context, actor Actor, id domain.ID, st domain.TableStatus) (domain.Table, error) {
	var table domain.Table
	err := r.run(ctx, []string{locks.TableKey(uint(id))}, func(ctx context.Context, s Stores, out *outbox) error {
		current, err := s.Tables.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := sameCompany(actor, current.CompanyID, "table"); err != nil {
			return err
		}
		next, err := current.WithStatus(st, actor.EmployeeID, r.now())
		if err != nil {
			return err
		}
		if table, err = s.Tables.Save(ctx, next); err != nil {
			return err
		}
		out.add(events.TableStatusChanged, uint(table.CompanyID), uint(table.ID), table)
		return nil
	})
	if err != nil {
		return domain.Table{}, err
	}
	return table, nil
}

func sameCompany(actor Actor, companyID domain.ID, what string) error {
	if actor.CompanyID != companyID {
		return domain.NewRuleError(domain.RuleCompanyMismatch, "%s belongs to another company", what)
	}
	return nil
}
