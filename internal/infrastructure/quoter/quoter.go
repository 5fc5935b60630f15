// Package quoter holds the helpers shared by every ports.Quoter
// implementation.
package quoter

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const (
	// BaseSwapGas is the gas estimated for a plain swap.
	BaseSwapGas uint64 = 150000
	// HookSwapGas is the extra gas estimated when the pool has a hook.
	HookSwapGas uint64 = 50000
)

var hundred = decimal.NewFromInt(100)

// ToBaseUnits converts the given amount to base units of a token with the
// given precision, truncating any remaining fraction.
func ToBaseUnits(amount decimal.Decimal, decimals int) decimal.Decimal {
	return amount.Shift(int32(decimals)).Truncate(0)
}

// EstimateGas returns the gas estimation for a swap, adding the hook
// surcharge if a hook address is configured.
func EstimateGas(hookAddress string) uint64 {
	gas := BaseSwapGas
	if len(strings.TrimSpace(hookAddress)) > 0 {
		gas += HookSwapGas
	}
	return gas
}

// Route returns the swap route. Tokens given as hex addresses are rendered
// in their EIP-55 checksum form, symbols are returned untouched.
func Route(tokenIn, tokenOut string) []string {
	return []string{routeHop(tokenIn), routeHop(tokenOut)}
}

// PriceImpactPercent converts a fractional impact (0.02) to a percentage (2).
func PriceImpactPercent(impact decimal.Decimal) decimal.Decimal {
	return impact.Mul(hundred)
}

func routeHop(token string) string {
	if common.IsHexAddress(token) {
		return common.HexToAddress(token).Hex()
	}
	return token
}
