package services

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/events"
	"github.com/yeremiapane/restaurant-ops/locks"
	"github.com/yeremiapane/restaurant-ops/status"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// CommandService runs the tab lifecycle: open, recompute total, close.
type CommandService struct {
	engine
	// statuses that block opening another command on the same table
	active []domain.CommandStatus
}

func NewCommandService(d Deps, activeStatuses ...domain.CommandStatus) *CommandService {
	if len(activeStatuses) == 0 {
		activeStatuses = []domain.CommandStatus{domain.CommandOpen}
	}
	return &CommandService{engine: newEngine(d), active: activeStatuses}
}

// Open starts a command on a table of the actor's company.
func (cs *CommandService) Open(ctx context.Context, actor Actor, tableID domain.ID) (domain.Command, error) {
	var cmd domain.Command
	err := cs.run(ctx, []string{locks.TableKey(uint(tableID))}, func(ctx context.Context, s Stores, out *outbox) error {
		table, err := s.Tables.GetForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		if err := sameCompany(actor, table.CompanyID, "table"); err != nil {
			return err
		}
		if err := table.CanOpenCommand(); err != nil {
			return err
		}

		activeIDs, err := status.IDs(ctx, cs.Statuses, status.Command,
			lo.Map(cs.active, func(st domain.CommandStatus, _ int) string { return string(st) })...)
		if err != nil {
			return err
		}
		busy, err := s.Commands.ExistsByTableAndStatuses(ctx, table.ID, activeIDs)
		if err != nil {
			return err
		}
		if busy {
			return domain.NewRuleError(domain.RuleCommandAlreadyActive, "table %q already has an active command", table.Name)
		}

		now := cs.now()
		opened, err := domain.OpenCommand(table, actor.EmployeeID, now)
		if err != nil {
			return err
		}
		if cmd, err = s.Commands.Save(ctx, opened); err != nil {
			return err
		}

		if table.Status != domain.TableOccupied {
			occupied, err := table.WithStatus(domain.TableOccupied, actor.EmployeeID, now)
			if err != nil {
				return err
			}
			if _, err := s.Tables.Save(ctx, occupied); err != nil {
				return err
			}
			out.add(events.TableStatusChanged, uint(table.CompanyID), uint(table.ID), occupied)
		}
		out.add(events.CommandOpened, uint(cmd.CompanyID), uint(cmd.ID), cmd)
		return nil
	})
	if err != nil {
		return domain.Command{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"command_id": cmd.ID,
		"table_id":   cmd.TableID,
		"company_id": cmd.CompanyID,
	}).Info("command opened")
	return cmd, nil
}

// RecomputeTotal stores the sum of the command's live orders. Running it
// twice over the same orders stores the same total.
func (cs *CommandService) RecomputeTotal(ctx context.Context, actor Actor, commandID domain.ID) (domain.Command, error) {
	var cmd domain.Command
	err := cs.run(ctx, []string{locks.CommandKey(uint(commandID))}, func(ctx context.Context, s Stores, out *outbox) error {
		current, err := s.Commands.GetForUpdate(ctx, commandID)
		if err != nil {
			return err
		}
		if err := sameCompany(actor, current.CompanyID, "command"); err != nil {
			return err
		}
		cmd, err = recompute(ctx, s, current, actor.EmployeeID, cs.now(), out)
		return err
	})
	if err != nil {
		return domain.Command{}, err
	}
	return cmd, nil
}

// Close moves an OPEN command to closing (CLOSED or CANCELED). With
// settleOrders every pending order is first marked as served. The total is
// recomputed before closing so the ledger sees the final amount.
func (cs *CommandService) Close(ctx context.Context, actor Actor, commandID domain.ID, closing domain.CommandStatus, settleOrders bool) (domain.Command, error) {
	var cmd domain.Command
	err := cs.run(ctx, []string{locks.CommandKey(uint(commandID))}, func(ctx context.Context, s Stores, out *outbox) error {
		current, err := s.Commands.GetForUpdate(ctx, commandID)
		if err != nil {
			return err
		}
		if err := sameCompany(actor, current.CompanyID, "command"); err != nil {
			return err
		}
		now := cs.now()
		// fail fast before touching any order
		if _, err := current.Close(closing, actor.EmployeeID, now); err != nil {
			return err
		}

		if settleOrders {
			if _, err := settleAll(ctx, s, current, actor.EmployeeID, now, out); err != nil {
				return err
			}
		}
		totaled, err := recompute(ctx, s, current, actor.EmployeeID, now, out)
		if err != nil {
			return err
		}
		closed, err := totaled.Close(closing, actor.EmployeeID, now)
		if err != nil {
			return err
		}
		if cmd, err = s.Commands.Save(ctx, closed); err != nil {
			return err
		}

		table, err := s.Tables.GetForUpdate(ctx, cmd.TableID)
		if err != nil {
			return err
		}
		if table.Status == domain.TableOccupied && !table.Audit.IsDeleted() {
			freed, err := table.WithStatus(domain.TableAvailable, actor.EmployeeID, now)
			if err != nil {
				return err
			}
			if _, err := s.Tables.Save(ctx, freed); err != nil {
				return err
			}
			out.add(events.TableStatusChanged, uint(table.CompanyID), uint(table.ID), freed)
		}
		out.add(events.CommandClosed, uint(cmd.CompanyID), uint(cmd.ID), cmd)
		return nil
	})
	if err != nil {
		return domain.Command{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"command_id": cmd.ID,
		"status":     cmd.Status,
		"total":      cmd.TotalAmount.OrEmpty().String(),
	}).Info("command closed")
	return cmd, nil
}

// recompute reloads the orders of cmd and saves the new total.
func recompute(ctx context.Context, s Stores, cmd domain.Command, actor domain.ID, now time.Time, out *outbox) (domain.Command, error) {
	orders, err := s.Orders.GetAllForCommand(ctx, cmd.ID)
	if err != nil {
		return domain.Command{}, err
	}
	next, err := cmd.WithTotal(orders, actor, now)
	if err != nil {
		return domain.Command{}, err
	}
	saved, err := s.Commands.Save(ctx, next)
	if err != nil {
		return domain.Command{}, err
	}
	out.add(events.CommandTotalRecomputed, uint(saved.CompanyID), uint(saved.ID), map[string]any{
		"command_id":   saved.ID,
		"total_amount": saved.TotalAmount.OrEmpty(),
	})
	return saved, nil
}
