package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableName(t *testing.T) {
	tests := []struct {
		input   string
		want    TableName
		wantErr bool
	}{
		{input: "A1", want: "A1"},
		{input: "  Terraço #3 ", want: "Terraço #3"},
		{input: "Bar-2/B", want: "Bar-2/B"},
		{input: "A", wantErr: true},
		{input: "--", wantErr: true},
		{input: "Table; DROP", wantErr: true},
		{input: "123456789012345678901234567890123456789012345678901", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NewTableName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBusinessRule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableStatus(t *testing.T) {
	table, err := NewTable(1, "A1", 4, 9, t0)
	require.NoError(t, err)
	assert.Equal(t, TableAvailable, table.Status)
	require.NoError(t, table.CanOpenCommand())

	off, err := table.WithStatus(TableOutOfService, 9, t0)
	require.NoError(t, err)
	assert.ErrorIs(t, off.CanOpenCommand(), ErrBusinessRule)
	assert.Equal(t, 2, off.Audit.Version)

	_, err = table.WithStatus("BROKEN", 9, t0)
	assert.ErrorIs(t, err, ErrBusinessRule)

	_, err = NewTable(1, "A1", 0, 9, t0)
	assert.ErrorIs(t, err, ErrBusinessRule)
}

func TestAuditTouchAndDelete(t *testing.T) {
	a := NewAudit(0, t0)
	assert.Equal(t, 1, a.Version)
	assert.False(t, a.CreatedBy.IsPresent())

	later := t0.Add(time.Minute)
	a, err := a.Touch(5, later)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Version)
	assert.Equal(t, later, a.UpdatedAt)
	assert.Equal(t, ID(5), a.UpdatedBy.MustGet())

	a, err = a.Delete(5, later)
	require.NoError(t, err)
	assert.True(t, a.IsDeleted())
	assert.Equal(t, 3, a.Version)

	_, err = a.Touch(5, later)
	assert.ErrorIs(t, err, ErrBusinessRule)
	_, err = a.Delete(5, later)
	assert.ErrorIs(t, err, ErrBusinessRule)
}
