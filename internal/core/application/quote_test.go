package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/invisible-transfer/invisible-daemon/internal/core/application"
	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
	"github.com/invisible-transfer/invisible-daemon/pkg/circuitbreaker"
)

var (
	ctx          = context.Background()
	quoteRequest = ports.QuoteRequest{
		TokenIn:    "USDC",
		TokenOut:   "WETH",
		AmountIn:   decimal.NewFromInt(1),
		DecimalsIn: 6,
	}
)

func TestQuote(t *testing.T) {
	expected := &ports.Quote{
		TokenIn:            "USDC",
		TokenOut:           "WETH",
		AmountIn:           decimal.NewFromInt(1000000),
		AmountOutEstimated: decimal.NewFromInt(980000),
		PriceImpact:        decimal.NewFromInt(2),
		GasEstimated:       150000,
		Route:              []string{"USDC", "WETH"},
	}
	quoter := &mockQuoter{}
	quoter.On("Quote", mock.Anything, quoteRequest).Return(expected, nil)
	quoter.On("Close").Return()

	svc, err := application.NewQuoteService(quoter, 0)
	require.NoError(t, err)

	quote, err := svc.Quote(ctx, quoteRequest)
	require.NoError(t, err)
	require.Equal(t, expected, quote)

	svc.Close()
	quoter.AssertExpectations(t)
}

func TestFailingQuote(t *testing.T) {
	t.Run("invalid requests never reach the quoter", func(t *testing.T) {
		quoter := &mockQuoter{}
		svc, err := application.NewQuoteService(quoter, 0)
		require.NoError(t, err)

		req := quoteRequest
		req.AmountIn = decimal.NewFromInt(-1)
		_, err = svc.Quote(ctx, req)
		require.ErrorIs(t, err, domain.ErrInvalidAmount)

		req = quoteRequest
		req.DecimalsIn = 100
		_, err = svc.Quote(ctx, req)
		require.ErrorIs(t, err, application.ErrInvalidDecimals)

		quoter.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything)
	})

	t.Run("unsupported pair", func(t *testing.T) {
		quoter := &mockQuoter{}
		quoter.On("Quote", mock.Anything, mock.Anything).
			Return(nil, ports.ErrUnsupportedPair)

		svc, err := application.NewQuoteService(quoter, 0)
		require.NoError(t, err)

		// Caller errors never open the breaker.
		for i := 0; i < 2*circuitbreaker.MaxNumOfFailingRequests; i++ {
			_, err = svc.Quote(ctx, quoteRequest)
			require.ErrorIs(t, err, application.ErrUnsupportedPair)
		}
	})

	t.Run("failing quoter opens the breaker", func(t *testing.T) {
		quoter := &mockQuoter{}
		quoter.On("Quote", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused"))

		svc, err := application.NewQuoteService(quoter, 0)
		require.NoError(t, err)

		for i := 0; i <= circuitbreaker.MaxNumOfFailingRequests; i++ {
			_, err = svc.Quote(ctx, quoteRequest)
			require.ErrorIs(t, err, application.ErrQuoterUnavailable)
		}
		calls := len(quoter.Calls)

		_, err = svc.Quote(ctx, quoteRequest)
		require.ErrorIs(t, err, application.ErrQuoterUnavailable)
		require.Len(t, quoter.Calls, calls)
	})

	t.Run("price not available yet", func(t *testing.T) {
		quoter := &mockQuoter{}
		quoter.On("Quote", mock.Anything, mock.Anything).
			Return(nil, ports.ErrPriceUnavailable)

		svc, err := application.NewQuoteService(quoter, 0)
		require.NoError(t, err)

		_, err = svc.Quote(ctx, quoteRequest)
		require.ErrorIs(t, err, application.ErrQuoterUnavailable)
	})
}

func TestNewQuoteService(t *testing.T) {
	_, err := application.NewQuoteService(nil, 10)
	require.Error(t, err)
}
