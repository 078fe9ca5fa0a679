package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settled(id ID, total string) Command {
	c := Command{ID: id, Status: CommandClosed, TotalAmount: mo.None[Money]()}
	if total != "" {
		c.TotalAmount = mo.Some(MustMoney(total))
	}
	return c
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name         string
		float        string
		commands     []Command
		counted      CountedAmounts
		wantFinal    string
		wantExpected string
		wantDiff     string
	}{
		{
			name:         "surplus",
			float:        "100.00",
			commands:     []Command{settled(1, "50.00")},
			counted:      CountedAmounts{Cash: MustMoney("150.00"), Card: ZeroMoney, Pix: ZeroMoney, Others: ZeroMoney},
			wantFinal:    "250.00",
			wantExpected: "150.00",
			wantDiff:     "100.00",
		},
		{
			name:         "exact",
			float:        "100.00",
			commands:     []Command{settled(1, "50.00"), settled(2, "25.35")},
			counted:      CountedAmounts{Cash: MustMoney("20.00"), Card: MustMoney("40.35"), Pix: MustMoney("10.00"), Others: MustMoney("5.00")},
			wantFinal:    "175.35",
			wantExpected: "175.35",
			wantDiff:     "0.00",
		},
		{
			name:         "shortfall and missing totals",
			float:        "50.00",
			commands:     []Command{settled(1, "30.00"), settled(2, "")},
			counted:      CountedAmounts{Cash: MustMoney("10.00"), Card: ZeroMoney, Pix: ZeroMoney, Others: ZeroMoney},
			wantFinal:    "60.00",
			wantExpected: "80.00",
			wantDiff:     "-20.00",
		},
		{
			name:         "no commands",
			float:        "0",
			counted:      CountedAmounts{Cash: ZeroMoney, Card: ZeroMoney, Pix: ZeroMoney, Others: ZeroMoney},
			wantFinal:    "0.00",
			wantExpected: "0.00",
			wantDiff:     "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Reconcile(MustMoney(tt.float), tt.commands, tt.counted)
			assert.Equal(t, tt.wantFinal, rec.FinalBalance.StringFixed(2))
			assert.Equal(t, tt.wantExpected, rec.ExpectedFinalBalance.StringFixed(2))
			assert.Equal(t, tt.wantDiff, rec.Difference.StringFixed(2))
			assert.Len(t, rec.CommandIDs, len(tt.commands))
		})
	}
}

func TestCashSessionLifecycle(t *testing.T) {
	s, err := OpenCashSession(1, 9, MustMoney("100"), t0)
	require.NoError(t, err)
	assert.True(t, s.IsOpen())
	assert.False(t, s.EndedAt.IsPresent())

	closed, err := s.Close(7, t0.Add(8*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, CashSessionClosed, closed.Status)
	assert.Equal(t, ID(7), closed.ClosedBy.MustGet())

	_, err = closed.Close(7, t0)
	var rule *RuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, RuleSessionNotOpen, rule.Rule)

	_, err = OpenCashSession(0, 9, ZeroMoney, t0)
	assert.ErrorIs(t, err, ErrBusinessRule)
}

func TestNewClosingRecordObservations(t *testing.T) {
	s, err := OpenCashSession(1, 9, ZeroMoney, t0)
	require.NoError(t, err)

	rec, err := NewClosingRecord(s, 9, CountedAmounts{}, Reconciliation{}, "  ", 9, t0)
	require.NoError(t, err)
	assert.False(t, rec.Observations.IsPresent())

	_, err = NewClosingRecord(s, 9, CountedAmounts{}, Reconciliation{}, strings.Repeat("x", MaxObservationsLength+1), 9, t0)
	assert.ErrorIs(t, err, ErrBusinessRule)
}
