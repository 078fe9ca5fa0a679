package services_test

import (
	"testing"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/events"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/services"
)

var (
	sizes    = groupSpec{name: "Size", min: 1, max: 1, options: map[string]string{"Small": "0.00", "Large": "3.00"}}
	toppings = groupSpec{name: "Toppings", min: 0, max: 2, options: map[string]string{"Bacon": "2.50", "Cheese": "1.25", "Egg": "1.00"}}
)

func TestAddOrderPricesModifiers(t *testing.T) {
	f := newFixture(t)
	cmd := f.openCommand("Mesa 1")
	product, opts := f.product(1, "10.00", sizes, toppings)

	order, err := f.orders.AddOrder(f.ctx, waiter, cmd.ID, services.NewOrder{
		ProductID: domain.ID(product.ID),
		OptionIDs: []domain.ID{opts["Large"], opts["Bacon"], opts["Cheese"]},
		Notes:     "  no onions ",
		Priority:  mo.Some(3),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderPendingConfirmation, order.Status)
	assert.Equal(t, "10.00", order.BasePrice.String())
	assert.Equal(t, "6.75", order.ModifiersPrice.String())
	assert.Equal(t, "16.75", order.EffectivePrice().String())
	assert.Equal(t, "no onions", order.Notes)
	assert.Len(t, order.Modifiers, 3)
	assert.EqualValues(t, 3, f.count(&models.OrderModifier{}, "order_id = ?", uint(order.ID)))

	reloaded, err := f.commands.RecomputeTotal(f.ctx, waiter, cmd.ID)
	require.NoError(t, err)
	assert.Equal(t, "16.75", reloaded.TotalAmount.MustGet().String())
	assert.Subset(t, f.recorder.Types(), []string{events.OrderAdded, events.CommandTotalRecomputed})
}

func TestAddOrderSelectionBoundsLeaveNothingBehind(t *testing.T) {
	f := newFixture(t)
	cmd := f.openCommand("Mesa 1")
	product, opts := f.product(1, "10.00", sizes, toppings)

	cases := []struct {
		name    string
		options []domain.ID
		group   string
	}{
		{"below minimum", []domain.ID{opts["Bacon"]}, "Size"},
		{"above maximum", []domain.ID{opts["Small"], opts["Large"]}, "Size"},
		{"too many toppings", []domain.ID{opts["Small"], opts["Bacon"], opts["Cheese"], opts["Egg"]}, "Toppings"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.AddOrder(f.ctx, waiter, cmd.ID, services.NewOrder{
				ProductID: domain.ID(product.ID),
				OptionIDs: tc.options,
			})
			var rule *domain.RuleError
			require.ErrorAs(t, err, &rule)
			assert.Equal(t, domain.RuleModifierSelection, rule.Rule)
			assert.Contains(t, rule.Reason, tc.group)
		})
	}

	assert.Zero(t, f.count(&models.Order{}, ""))
	assert.Zero(t, f.count(&models.OrderModifier{}, ""))
}

func TestAddOrderOnClosedCommandFails(t *testing.T) {
	f := newFixture(t)
	cmd := f.openCommand("Mesa 1")
	product, _ := f.product(1, "5.00")
	_, err := f.commands.Close(f.ctx, cashier, cmd.ID, domain.CommandClosed, false)
	require.NoError(t, err)

	_, err = f.orders.AddOrder(f.ctx, waiter, cmd.ID, services.NewOrder{ProductID: domain.ID(product.ID)})
	var rule *domain.RuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, domain.RuleCommandNotOpen, rule.Rule)
	assert.Zero(t, f.count(&models.Order{}, ""))
}

func TestAddOrderForeignCompanyProductFails(t *testing.T) {
	f := newFixture(t)
	cmd := f.openCommand("Mesa 1")
	product, _ := f.product(2, "5.00")

	_, err := f.orders.AddOrder(f.ctx, waiter, cmd.ID, services.NewOrder{ProductID: domain.ID(product.ID)})
	var rule *domain.RuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, domain.RuleCompanyMismatch, rule.Rule)
	assert.Zero(t, f.count(&models.Order{}, ""))
}

func TestAddOrderMissingReferences(t *testing.T) {
	f := newFixture(t)
	cmd := f.openCommand("Mesa 1")
	product, _ := f.product(1, "5.00", toppings)

	_, err := f.orders.AddOrder(f.ctx, waiter, cmd.ID, services.NewOrder{ProductID: 404})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.orders.AddOrder(f.ctx, waiter, 404, services.NewOrder{ProductID: domain.ID(product.ID)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.orders.AddOrder(f.ctx, waiter, cmd.ID, services.NewOrder{
		ProductID: domain.ID(product.ID),
		OptionIDs: []domain.ID{9999},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.count(&models.Order{}, ""))
}

func TestAddOrderForeignOptions(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		f := newFixture(t)
		cmd := f.openCommand("Mesa 1")
		burger, _ := f.product(1, "10.00", toppings)
		_, drinkOpts := f.product(1, "4.00", groupSpec{name: "Ice", min: 0, max: 1, options: map[string]string{"Extra ice": "0.50"}})

		_, err := f.orders.AddOrder(f.ctx, waiter, cmd.ID, services.NewOrder{
			ProductID: domain.ID(burger.ID),
			OptionIDs: []domain.ID{drinkOpts["Extra ice"]},
		})
		var rule *domain.RuleError
		require.ErrorAs(t, err, &rule)
		assert.Equal(t, domain.RuleForeignModifier, rule.Rule)
	})

	t.Run("ignored", func(t *testing.T) {
		f := newFixtureWithPolicy(t, domain.IgnoreForeignOptions)
		cmd := f.openCommand("Mesa 1")
		burger, opts := f.product(1, "10.00", toppings)
		_, drinkOpts := f.product(1, "4.00", groupSpec{name: "Ice", min: 0, max: 1, options: map[string]string{"Extra ice": "0.50"}})

		order, err := f.orders.AddOrder(f.ctx, waiter, cmd.ID, services.NewOrder{
			ProductID: domain.ID(burger.ID),
			OptionIDs: []domain.ID{opts["Egg"], drinkOpts["Extra ice"]},
		})
		require.NoError(t, err)
		assert.Equal(t, "1.00", order.ModifiersPrice.String())
		assert.EqualValues(t, 1, f.count(&models.OrderModifier{}, "order_id = ?", uint(order.ID)))
	})
}

func TestOrderPriceIsFrozen(t *testing.T) {
	f := newFixture(t)
	cmd := f.openCommand("Mesa 1")
	product, opts := f.product(1, "10.00", toppings)

	placed, err := f.orders.AddOrder(f.ctx, waiter, cmd.ID, services.NewOrder{
		ProductID: domain.ID(product.ID),
		OptionIDs: []domain.ID{opts["Bacon"]},
	})
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", decimal.RequireFromString("99.00")).Error)
	require.NoError(t, f.db.Model(&models.ProductModifierOption{}).Where("id = ?", uint(opts["Bacon"])).
		Update("price_delta", decimal.RequireFromString("9.00")).Error)

	reloaded, err := f.orders.ChangeStatus(f.ctx, waiter, placed.ID, domain.OrderInPreparation, mo.None[string]())
	require.NoError(t, err)
	assert.Equal(t, "10.00", reloaded.BasePrice.String())
	assert.Equal(t, "2.50", reloaded.ModifiersPrice.String())
	require.Len(t, reloaded.Modifiers, 1)
	assert.Equal(t, "2.50", reloaded.Modifiers[0].Price.String())

	cmdNow, err := f.commands.RecomputeTotal(f.ctx, waiter, cmd.ID)
	require.NoError(t, err)
	assert.Equal(t, "12.50", cmdNow.TotalAmount.MustGet().String())
}

func TestChangeOrderStatus(t *testing.T) {
	f := newFixture(t)
	cmd := f.openCommand("Mesa 1")
	product, _ := f.product(1, "7.00")
	order, err := f.orders.AddOrder(f.ctx, waiter, cmd.ID, services.NewOrder{ProductID: domain.ID(product.ID)})
	require.NoError(t, err)

	// any jump between live statuses is allowed
	ready, err := f.orders.ChangeStatus(f.ctx, waiter, order.ID, domain.OrderReadyForDelivery, mo.None[string]())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderReadyForDelivery, ready.Status)
	assert.True(t, ready.Cancel.IsAbsent())

	_, err = f.orders.ChangeStatus(f.ctx, waiter, order.ID, domain.OrderItemCanceled, mo.None[string]())
	var rule *domain.RuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, domain.RuleCancelInfoRequired, rule.Rule)

	canceled, err := f.orders.ChangeStatus(f.ctx, waiter, order.ID, domain.OrderItemCanceled, mo.Some("customer left"))
	require.NoError(t, err)
	info := canceled.Cancel.MustGet()
	assert.Equal(t, "customer left", info.Reason)
	assert.Equal(t, waiter.EmployeeID, info.CanceledBy)

	_, err = f.orders.ChangeStatus(f.ctx, waiter, order.ID, domain.OrderInPreparation, mo.None[string]())
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, domain.RuleOrderTerminal, rule.Rule)

	total, err := f.commands.RecomputeTotal(f.ctx, waiter, cmd.ID)
	require.NoError(t, err)
	assert.True(t, total.TotalAmount.MustGet().IsZero())
}

func TestOrdersOfSettledCommandAreFrozen(t *testing.T) {
	f := newFixture(t)
	cmd := f.openCommand("Mesa 1")
	product, _ := f.product(1, "12.00")
	order, err := f.orders.AddOrder(f.ctx, waiter, cmd.ID, services.NewOrder{ProductID: domain.ID(product.ID)})
	require.NoError(t, err)
	closed, err := f.commands.Close(f.ctx, cashier, cmd.ID, domain.CommandClosed, false)
	require.NoError(t, err)

	_, err = f.orders.ChangeStatus(f.ctx, waiter, order.ID, domain.OrderItemCanceled, mo.Some("too late"))
	var rule *domain.RuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, domain.RuleCommandNotOpen, rule.Rule)

	_, err = f.orders.CloseAll(f.ctx, waiter, cmd.ID)
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, domain.RuleCommandNotOpen, rule.Rule)

	var row models.Order
	require.NoError(t, f.db.Preload("Status").First(&row, uint(order.ID)).Error)
	assert.Equal(t, string(domain.OrderPendingConfirmation), row.Status.Key)
	var stored models.Command
	require.NoError(t, f.db.First(&stored, uint(cmd.ID)).Error)
	require.True(t, stored.TotalAmount.Valid)
	assert.Equal(t, closed.TotalAmount.MustGet().String(), stored.TotalAmount.Decimal.StringFixed(2))
}

func TestChangeStatusOfMissingOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.ChangeStatus(f.ctx, waiter, 77, domain.OrderInPreparation, mo.None[string]())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCloseAllOrders(t *testing.T) {
	f := newFixture(t)
	cmd := f.openCommand("Mesa 1")
	product, _ := f.product(1, "3.00")

	var ids []domain.ID
	for i := 0; i < 3; i++ {
		o, err := f.orders.AddOrder(f.ctx, waiter, cmd.ID, services.NewOrder{ProductID: domain.ID(product.ID)})
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}
	_, err := f.orders.ChangeStatus(f.ctx, waiter, ids[0], domain.OrderItemCanceled, mo.Some("spilled"))
	require.NoError(t, err)

	changed, err := f.orders.CloseAll(f.ctx, waiter, cmd.ID)
	require.NoError(t, err)
	require.Len(t, changed, 2)
	for _, o := range changed {
		assert.Equal(t, domain.OrderDeliveredServed, o.Status)
	}

	again, err := f.orders.CloseAll(f.ctx, waiter, cmd.ID)
	require.NoError(t, err)
	assert.Empty(t, again)

	var canceled models.Order
	require.NoError(t, f.db.Preload("Status").First(&canceled, uint(ids[0])).Error)
	assert.Equal(t, string(domain.OrderItemCanceled), canceled.Status.Key)
}
