package application

import (
	"strings"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
)

// MaxTokenDecimals is the highest precision accepted for a quoted token.
const MaxTokenDecimals = 36

func validateQuoteRequest(req ports.QuoteRequest) error {
	if len(strings.TrimSpace(req.TokenIn)) <= 0 ||
		len(strings.TrimSpace(req.TokenOut)) <= 0 {
		return ErrMissingToken
	}
	if !domain.IsValidAmount(req.AmountIn) {
		return domain.ErrInvalidAmount
	}
	if req.DecimalsIn < 0 || req.DecimalsIn > MaxTokenDecimals {
		return ErrInvalidDecimals
	}
	return nil
}
