package simulatedquoter

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
	"github.com/invisible-transfer/invisible-daemon/internal/infrastructure/quoter"
)

const name = "simulated"

var one = decimal.NewFromInt(1)

type service struct {
	priceImpact decimal.Decimal
	hookAddress string
}

// NewQuoter returns a quoter that prices every pair 1:1 minus the given
// fractional price impact.
func NewQuoter(
	priceImpact decimal.Decimal, hookAddress string,
) (ports.Quoter, error) {
	if priceImpact.IsNegative() || priceImpact.GreaterThanOrEqual(one) {
		return nil, fmt.Errorf("price impact must be in range [0, 1)")
	}
	return &service{priceImpact, hookAddress}, nil
}

func (s *service) Name() string {
	return name
}

func (s *service) Quote(
	_ context.Context, req ports.QuoteRequest,
) (*ports.Quote, error) {
	if strings.EqualFold(req.TokenIn, req.TokenOut) {
		return nil, ports.ErrUnsupportedPair
	}

	amountIn := quoter.ToBaseUnits(req.AmountIn, req.DecimalsIn)
	amountOut := amountIn.Mul(one.Sub(s.priceImpact)).Floor()

	return &ports.Quote{
		TokenIn:            req.TokenIn,
		TokenOut:           req.TokenOut,
		AmountIn:           amountIn,
		AmountOutEstimated: amountOut,
		PriceImpact:        quoter.PriceImpactPercent(s.priceImpact),
		GasEstimated:       quoter.EstimateGas(s.hookAddress),
		Route:              quoter.Route(req.TokenIn, req.TokenOut),
	}, nil
}

func (s *service) Close() {}
