package application

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
)

func TestValidateQuoteRequest(t *testing.T) {
	valid := ports.QuoteRequest{
		TokenIn:    "USDC",
		TokenOut:   "WETH",
		AmountIn:   decimal.NewFromInt(1),
		DecimalsIn: 18,
	}

	t.Run("should return nil if the request is valid", func(t *testing.T) {
		require.NoError(t, validateQuoteRequest(valid))

		zeroDecimals := valid
		zeroDecimals.DecimalsIn = 0
		require.NoError(t, validateQuoteRequest(zeroDecimals))
	})

	t.Run("should return an error if a token is missing", func(t *testing.T) {
		req := valid
		req.TokenOut = " "
		require.ErrorIs(t, validateQuoteRequest(req), ErrMissingToken)
	})

	t.Run("should return an error if the amount is not positive", func(t *testing.T) {
		req := valid
		req.AmountIn = decimal.Zero
		require.ErrorIs(t, validateQuoteRequest(req), domain.ErrInvalidAmount)
	})

	t.Run("should return an error if the amount exceeds the precision", func(t *testing.T) {
		for _, amount := range []string{"1e5000000", "1e-5000000"} {
			req := valid
			req.AmountIn = decimal.RequireFromString(amount)
			require.ErrorIs(t, validateQuoteRequest(req), domain.ErrInvalidAmount)
		}
	})

	t.Run("should return an error if decimals are out of range", func(t *testing.T) {
		for _, decimals := range []int{-1, MaxTokenDecimals + 1} {
			req := valid
			req.DecimalsIn = decimals
			require.ErrorIs(t, validateQuoteRequest(req), ErrInvalidDecimals)
		}
	})
}
