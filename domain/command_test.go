package domain

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func openTable() Table {
	return Table{ID: 4, CompanyID: 1, Name: "Patio 4", Capacity: 4, Status: TableAvailable, Audit: NewAudit(1, t0)}
}

func order(id ID, base, mods string, status OrderStatus) Order {
	return Order{ID: id, CommandID: 1, BasePrice: MustMoney(base), ModifiersPrice: MustMoney(mods), Status: status}
}

func TestOpenCommand(t *testing.T) {
	cmd, err := OpenCommand(openTable(), 9, t0)
	require.NoError(t, err)
	assert.True(t, cmd.IsNew())
	assert.Equal(t, CommandOpen, cmd.Status)
	assert.False(t, cmd.TotalAmount.IsPresent())
	assert.Equal(t, ID(1), cmd.CompanyID)
	assert.Equal(t, ID(4), cmd.TableID)

	broken := openTable()
	broken.Status = TableOutOfService
	_, err = OpenCommand(broken, 9, t0)
	assert.ErrorIs(t, err, ErrBusinessRule)
}

func TestComputeTotalExcludesCanceled(t *testing.T) {
	orders := []Order{
		order(1, "10.00", "2.50", OrderDeliveredServed),
		order(2, "8.00", "0", OrderInPreparation),
		order(3, "99.99", "1.00", OrderItemCanceled),
	}
	assert.Equal(t, "20.50", ComputeTotal(orders).String())
	assert.Equal(t, "0.00", ComputeTotal(nil).String())
}

func TestWithTotalIsIdempotent(t *testing.T) {
	cmd, err := OpenCommand(openTable(), 9, t0)
	require.NoError(t, err)
	orders := []Order{order(1, "12.00", "0.50", OrderPendingConfirmation)}

	once, err := cmd.WithTotal(orders, 9, t0)
	require.NoError(t, err)
	twice, err := once.WithTotal(orders, 9, t0)
	require.NoError(t, err)

	assert.Equal(t, once.TotalAmount.MustGet(), twice.TotalAmount.MustGet())
	assert.Equal(t, CommandOpen, twice.Status)
	assert.Equal(t, 3, twice.Audit.Version)
	assert.False(t, cmd.TotalAmount.IsPresent(), "original value must not change")
}

func TestCloseCommand(t *testing.T) {
	cmd, err := OpenCommand(openTable(), 9, t0)
	require.NoError(t, err)
	cmd.ID = 5

	closed, err := cmd.Close(CommandClosed, 3, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, CommandClosed, closed.Status)
	assert.Equal(t, mo.Some(ID(3)), closed.ClosedBy)
	assert.Equal(t, t0.Add(time.Hour), closed.ClosedAt.MustGet())

	_, err = closed.Close(CommandClosed, 3, t0)
	var rule *RuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, RuleCommandNotOpen, rule.Rule)

	_, err = cmd.Close(CommandOpen, 3, t0)
	assert.ErrorIs(t, err, ErrBusinessRule)
	_, err = cmd.Close(CommandClosed, 0, t0)
	assert.ErrorIs(t, err, ErrBusinessRule)
}

func TestDeletedCommandIsFrozen(t *testing.T) {
	cmd, err := OpenCommand(openTable(), 9, t0)
	require.NoError(t, err)
	cmd.Audit, err = cmd.Audit.Delete(9, t0)
	require.NoError(t, err)

	_, err = cmd.WithTotal(nil, 9, t0)
	var rule *RuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, RuleEntityDeleted, rule.Rule)

	_, err = cmd.Close(CommandClosed, 9, t0)
	assert.ErrorIs(t, err, ErrBusinessRule)
}
