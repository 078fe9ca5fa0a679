package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", input: "100", want: "100.00"},
		{name: "two decimals", input: "12.34", want: "12.34"},
		{name: "one decimal", input: "0.5", want: "0.50"},
		{name: "zero", input: "0", want: "0.00"},
		{name: "trailing zeros are fine", input: "1.230", want: "1.23"},
		{name: "negative", input: "-0.01", wantErr: true},
		{name: "three decimals", input: "1.001", wantErr: true},
		{name: "garbage", input: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrBusinessRule))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNewMoneyRejectsNegativeDecimal(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, ErrBusinessRule)
}

func TestMoneyAddKeepsPrecision(t *testing.T) {
	sum := SumMoney(MustMoney("0.10"), MustMoney("0.20"), MustMoney("0.30"))
	assert.Equal(t, "0.60", sum.String())
	assert.True(t, sum.Equal(MustMoney("0.6")))
	assert.True(t, SumMoney().IsZero())
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{Amount: MustMoney("7.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"7.50"}`, string(data))

	var in struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"3.10","b":4.25}`), &in))
	assert.Equal(t, "3.10", in.A.String())
	assert.Equal(t, "4.25", in.B.String())

	assert.Error(t, json.Unmarshal([]byte(`{"a":"-1"}`), &in))

	require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":"1.00"}`), &in))
	assert.Equal(t, "3.10", in.A.String())
	assert.Equal(t, "1.00", in.B.String())
}

func TestNewID(t *testing.T) {
	id, err := NewID(7)
	require.NoError(t, err)
	assert.Equal(t, ID(7), id)

	_, err = NewID(0)
	assert.ErrorIs(t, err, ErrBusinessRule)
	_, err = NewID(-3)
	assert.ErrorIs(t, err, ErrBusinessRule)
}
