package status

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-ops/domain"
)

func TestStaticLookup(t *testing.T) {
	ctx := context.Background()
	l := NewStatic(Defaults)

	id, err := l.ID(ctx, Order, string(domain.OrderItemCanceled))
	require.NoError(t, err)
	assert.Equal(t, domain.ID(5), id)

	key, err := l.Key(ctx, Command, 2)
	require.NoError(t, err)
	assert.Equal(t, string(domain.CommandClosed), key)

	_, err = l.ID(ctx, Command, "LOST")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = l.Key(ctx, CashSession, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStaticSetOverrides(t *testing.T) {
	l := NewStatic(nil)
	l.Set(Command, "OPEN", 40)

	ids, err := IDs(context.Background(), l, Command, "OPEN", "OPEN")
	require.NoError(t, err)
	assert.Equal(t, []domain.ID{40}, ids)

	_, err = IDs(context.Background(), l, Command, "OPEN", "CLOSED")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
