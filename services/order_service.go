package services

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/events"
	"github.com/yeremiapane/restaurant-ops/locks"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// NewOrder is what a waiter posts against a command.
type NewOrder struct {
	ProductID domain.ID
	OptionIDs []domain.ID
	Notes     string
	Priority  mo.Option[int]
}

// OrderService places and transitions order items.
type OrderService struct {
	engine
	policy domain.ForeignOptionPolicy
}

func NewOrderService(d Deps, policy domain.ForeignOptionPolicy) *OrderService {
	return &OrderService{engine: newEngine(d), policy: policy}
}

// AddOrder prices a product with its selected modifiers, stores the order
// with one join row per option and refreshes the command total. Nothing is
// stored when any check fails.
func (svc *OrderService) AddOrder(ctx context.Context, actor Actor, commandID domain.ID, in NewOrder) (domain.Order, error) {
	var order domain.Order
	err := svc.run(ctx, []string{locks.CommandKey(uint(commandID))}, func(ctx context.Context, s Stores, out *outbox) error {
		cmd, err := s.Commands.GetForUpdate(ctx, commandID)
		if err != nil {
			return err
		}
		if err := sameCompany(actor, cmd.CompanyID, "command"); err != nil {
			return err
		}
		if !cmd.IsOpen() {
			return domain.NewRuleError(domain.RuleCommandNotOpen, "command %d is %s, orders can only be added to OPEN commands", cmd.ID, cmd.Status)
		}

		product, err := s.Catalog.GetProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}
		table, err := s.Tables.GetByID(ctx, cmd.TableID)
		if err != nil {
			return err
		}
		if product.CompanyID != table.CompanyID {
			return domain.NewRuleError(domain.RuleCompanyMismatch, "product %q belongs to another company", product.Name)
		}

		selection, err := svc.selection(ctx, s.Catalog, product.ID, in.OptionIDs)
		if err != nil {
			return err
		}
		placed, err := domain.PlaceOrder(cmd, product, selection, in.Notes, in.Priority, actor.EmployeeID, svc.now())
		if err != nil {
			return err
		}
		if order, err = s.Orders.Save(ctx, placed); err != nil {
			return err
		}
		if _, err := recompute(ctx, s, cmd, actor.EmployeeID, svc.now(), out); err != nil {
			return err
		}
		out.add(events.OrderAdded, uint(cmd.CompanyID), uint(order.ID), order)

		if len(selection.Ignored) > 0 {
			utils.InfoLogger.WithFields(logrus.Fields{
				"order_id": order.ID,
				"ignored":  selection.Ignored,
			}).Warn("modifier options outside the product were ignored")
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"command_id": order.CommandID,
		"price":      order.EffectivePrice().String(),
	}).Info("order added")
	return order, nil
}

// selection loads the product's groups and the chosen options and validates
// them. Unknown option ids are not found errors.
func (svc *OrderService) selection(ctx context.Context, catalog ModifierCatalog, productID domain.ID, optionIDs []domain.ID) (domain.Selection, error) {
	groups, err := catalog.GetGroupsForProduct(ctx, productID)
	if err != nil {
		return domain.Selection{}, err
	}
	for i := range groups {
		options, err := catalog.GetOptionsForGroup(ctx, groups[i].ID)
		if err != nil {
			return domain.Selection{}, err
		}
		groups[i].Options = options
	}

	ids := lo.Uniq(optionIDs)
	chosen := []domain.ModifierOption{}
	if len(ids) > 0 {
		if chosen, err = catalog.GetOptionsByIDs(ctx, ids); err != nil {
			return domain.Selection{}, err
		}
	}
	found := lo.Map(chosen, func(o domain.ModifierOption, _ int) domain.ID { return o.ID })
	if missing, _ := lo.Difference(ids, found); len(missing) > 0 {
		return domain.Selection{}, domain.NotFound("modifier option", missing[0])
	}
	return domain.ValidateSelection(groups, chosen, svc.policy)
}

// ChangeStatus moves one order to status and refreshes the command total.
// reason is required when canceling. Orders of a command that is no longer
// OPEN are frozen.
func (svc *OrderService) ChangeStatus(ctx context.Context, actor Actor, orderID domain.ID, st domain.OrderStatus, reason mo.Option[string]) (domain.Order, error) {
	// find the command first so the change runs under the command lock
	var commandID domain.ID
	if err := svc.UoW.Do(ctx, func(ctx context.Context, s Stores) error {
		o, err := s.Orders.GetByID(ctx, orderID)
		commandID = o.CommandID
		return err
	}); err != nil {
		return domain.Order{}, err
	}

	var order domain.Order
	err := svc.run(ctx, []string{locks.CommandKey(uint(commandID))}, func(ctx context.Context, s Stores, out *outbox) error {
		cmd, err := s.Commands.GetForUpdate(ctx, commandID)
		if err != nil {
			return err
		}
		if err := sameCompany(actor, cmd.CompanyID, "order"); err != nil {
			return err
		}
		if !cmd.IsOpen() {
			return domain.NewRuleError(domain.RuleCommandNotOpen, "command %d is %s, its orders can no longer change", cmd.ID, cmd.Status)
		}
		current, err := s.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		now := svc.now()
		next, err := current.ChangeStatus(st, reason, actor.EmployeeID, now)
		if err != nil {
			return err
		}
		if order, err = s.Orders.Save(ctx, next); err != nil {
			return err
		}
		if _, err := recompute(ctx, s, cmd, actor.EmployeeID, now, out); err != nil {
			return err
		}
		out.add(events.OrderStatusChanged, uint(cmd.CompanyID), uint(order.ID), map[string]any{
			"order_id":   order.ID,
			"command_id": order.CommandID,
			"from":       current.Status,
			"to":         order.Status,
		})
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("order status changed")
	return order, nil
}

// CloseAll marks every order of the command that is not yet terminal as
// served and returns the orders it changed.
func (svc *OrderService) CloseAll(ctx context.Context, actor Actor, commandID domain.ID) ([]domain.Order, error) {
	var changed []domain.Order
	err := svc.run(ctx, []string{locks.CommandKey(uint(commandID))}, func(ctx context.Context, s Stores, out *outbox) error {
		cmd, err := s.Commands.GetForUpdate(ctx, commandID)
		if err != nil {
			return err
		}
		if err := sameCompany(actor, cmd.CompanyID, "command"); err != nil {
			return err
		}
		if !cmd.IsOpen() {
			return domain.NewRuleError(domain.RuleCommandNotOpen, "command %d is %s, its orders can no longer change", cmd.ID, cmd.Status)
		}
		now := svc.now()
		if changed, err = settleAll(ctx, s, cmd, actor.EmployeeID, now, out); err != nil {
			return err
		}
		if len(changed) == 0 {
			return nil
		}
		_, err = recompute(ctx, s, cmd, actor.EmployeeID, now, out)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"command_id": commandID,
		"orders":     len(changed),
	}).Info("orders closed")
	return changed, nil
}

func settleAll(ctx context.Context, s Stores, cmd domain.Command, actor domain.ID, now time.Time, out *outbox) ([]domain.Order, error) {
	orders, err := s.Orders.GetAllForCommand(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	pending := lo.Reject(orders, func(o domain.Order, _ int) bool { return o.Status.Terminal() })

	changed := make([]domain.Order, 0, len(pending))
	for _, o := range pending {
		served, err := o.ChangeStatus(domain.OrderDeliveredServed, mo.None[string](), actor, now)
		if err != nil {
			return nil, err
		}
		saved, err := s.Orders.Save(ctx, served)
		if err != nil {
			return nil, err
		}
		changed = append(changed, saved)
	}
	if len(changed) > 0 {
		out.add(events.OrdersClosedAll, uint(cmd.CompanyID), uint(cmd.ID), map[string]any{
			"command_id": cmd.ID,
			"order_ids":  lo.Map(changed, func(o domain.Order, _ int) domain.ID { return o.ID }),
		})
	}
	return changed, nil
}
