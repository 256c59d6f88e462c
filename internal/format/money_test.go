package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonto(t *testing.T) {
	tests := []struct {
		name     string
		valor    string
		expected string
	}{
		{name: "zero", valor: "0", expected: "$ 0.00"},
		{name: "under a thousand", valor: "999.99", expected: "$ 999.99"},
		{name: "thousands grouped", valor: "1234.56", expected: "$ 1,234.56"},
		{name: "millions grouped", valor: "1234567.89", expected: "$ 1,234,567.89"},
		{name: "rounds to two decimals", valor: "10.005", expected: "$ 10.01"},
		{name: "pads missing decimals", valor: "5", expected: "$ 5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.valor)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, Monto(d))
		})
	}
}

func TestParseMonto(t *testing.T) {
	tests := []struct {
		name     string
		entrada  string
		expected string
		wantErr  bool
	}{
		{name: "formatted currency", entrada: "$ 1,234.56", expected: "1234.56"},
		{name: "plain number", entrada: "1234.56", expected: "1234.56"},
		{name: "no decimals", entrada: "$ 500", expected: "500"},
		{name: "garbage", entrada: "n/a", wantErr: true},
		{name: "empty", entrada: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseMonto(tt.entrada)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.String())
		})
	}
}

func TestMontoRoundTrip(t *testing.T) {
	original, err := decimal.NewFromString("98765.43")
	require.NoError(t, err)

	parsed, err := ParseMonto(Monto(original))
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}
