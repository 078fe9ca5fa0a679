package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/events"
)

func TestRegisterTable(t *testing.T) {
	f := newFixture(t)

	table, err := f.tables.Register(f.ctx, waiter, "  Terrace #2 ", 6)
	require.NoError(t, err)
	assert.False(t, table.IsNew())
	assert.Equal(t, domain.TableName("Terrace #2"), table.Name)
	assert.Equal(t, domain.TableAvailable, table.Status)
	assert.Equal(t, []string{events.TableRegistered}, f.recorder.Types())

	got, err := f.tables.Get(f.ctx, waiter, table.ID)
	require.NoError(t, err)
	assert.Equal(t, table.Name, got.Name)
	assert.Equal(t, 1, got.Audit.Version)
}

func TestRegisterTableNameUniquePerCompany(t *testing.T) {
	f := newFixture(t)
	_, err := f.tables.Register(f.ctx, waiter, "Mesa 1", 4)
	require.NoError(t, err)

	_, err = f.tables.Register(f.ctx, waiter, "Mesa 1", 2)
	var rule *domain.RuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, domain.RuleTableNameTaken, rule.Rule)

	_, err = f.tables.Register(f.ctx, rival, "Mesa 1", 2)
	assert.NoError(t, err)
}

func TestRegisterTableValidation(t *testing.T) {
	f := newFixture(t)
	for _, tc := range []struct {
		name     string
		capacity int
	}{
		{"x", 4},
		{"Mesa <1>", 4},
		{"Mesa 1", 0},
	} {
		_, err := f.tables.Register(f.ctx, waiter, tc.name, tc.capacity)
		assert.ErrorIs(t, err, domain.ErrBusinessRule, tc.name)
	}
}

func TestSetTableStatus(t *testing.T) {
	f := newFixture(t)
	table := f.table("Mesa 1")

	reserved, err := f.tables.SetStatus(f.ctx, waiter, table.ID, domain.TableReserved)
	require.NoError(t, err)
	assert.Equal(t, domain.TableReserved, reserved.Status)
	assert.Equal(t, 2, reserved.Audit.Version)

	_, err = f.tables.SetStatus(f.ctx, waiter, table.ID, domain.TableStatus("BROKEN"))
	assert.ErrorIs(t, err, domain.ErrBusinessRule)

	_, err = f.tables.SetStatus(f.ctx, rival, table.ID, domain.TableAvailable)
	assert.ErrorIs(t, err, domain.ErrBusinessRule)

	_, err = f.tables.Get(f.ctx, waiter, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
