package quoter_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/invisible-transfer/invisible-daemon/internal/infrastructure/quoter"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int
		expected string
	}{
		{"1.5", 18, "1500000000000000000"},
		{"10", 6, "10000000"},
		{"0.0000001", 6, "0"},
		{"3.999", 0, "3"},
	}

	for _, tt := range tests {
		got := quoter.ToBaseUnits(decimal.RequireFromString(tt.amount), tt.decimals)
		require.Equal(t, tt.expected, got.String())
	}
}

func TestEstimateGas(t *testing.T) {
	require.Equal(t, uint64(150000), quoter.EstimateGas(""))
	require.Equal(t, uint64(150000), quoter.EstimateGas("  "))
	require.Equal(t, uint64(200000), quoter.EstimateGas("0x0000000000000000000000000000000000000001"))
}

func TestRoute(t *testing.T) {
	route := quoter.Route(
		"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", "WETH",
	)
	require.Equal(t, []string{
		"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "WETH",
	}, route)
}

func TestPriceImpactPercent(t *testing.T) {
	got := quoter.PriceImpactPercent(decimal.RequireFromString("0.02"))
	require.True(t, got.Equal(decimal.NewFromInt(2)))
}
