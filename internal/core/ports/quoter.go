package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnsupportedPair is returned by a Quoter that cannot price the
	// requested pair.
	ErrUnsupportedPair = errors.New("token pair not supported")
	// ErrPriceUnavailable is returned by a Quoter that temporarily has no
	// price for a supported pair.
	ErrPriceUnavailable = errors.New("price not available yet")
)

// QuoteRequest describes the swap to be priced. AmountIn is expressed in
// units of TokenIn, DecimalsIn is its precision.
type QuoteRequest struct {
	TokenIn    string
	TokenOut   string
	AmountIn   decimal.Decimal
	DecimalsIn int
}

// Quote is an advisory estimation of a swap outcome. AmountIn and
// AmountOutEstimated are expressed in base units (ie. AmountIn*10^DecimalsIn).
type Quote struct {
	TokenIn            string
	TokenOut           string
	AmountIn           decimal.Decimal
	AmountOutEstimated decimal.Decimal
	// PriceImpact is expressed as a percentage.
	PriceImpact        decimal.Decimal
	GasEstimated       uint64
	Route              []string
}

// Quoter is the external price oracle. Its numbers are never authoritative.
type Quoter interface {
	// Name identifies the quote source.
	Name() string
	// Quote estimates the outcome of the given swap.
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	// Close releases any resource held by the quoter.
	Close()
}
