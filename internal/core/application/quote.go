package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
	"github.com/invisible-transfer/invisible-daemon/internal/metrics"
	"github.com/invisible-transfer/invisible-daemon/pkg/circuitbreaker"
)

type QuoteService interface {
	Quote(ctx context.Context, req ports.QuoteRequest) (*ports.Quote, error)
	Close()
}

type quoteService struct {
	quoter  ports.Quoter
	limiter ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewQuoteService wraps the given quoter with a rate limiter allowing at most
// rateLimit requests per second (unlimited if not positive) and a circuit
// breaker.
func NewQuoteService(
	quoter ports.Quoter, rateLimit int,
) (QuoteService, error) {
	if quoter == nil {
		return nil, fmt.Errorf("missing quoter")
	}

	limiter := ratelimit.NewUnlimited()
	if rateLimit > 0 {
		limiter = ratelimit.New(rateLimit)
	}

	return &quoteService{
		quoter:  quoter,
		limiter: limiter,
		breaker: circuitbreaker.NewCircuitBreaker(quoter.Name()),
	}, nil
}

func (s *quoteService) Quote(
	ctx context.Context, req ports.QuoteRequest,
) (quote *ports.Quote, err error) {
	defer func(started time.Time) {
		metrics.ObserveQuote(s.quoter.Name(), err, started)
	}(time.Now())

	if err = validateQuoteRequest(req); err != nil {
		return nil, err
	}

	s.limiter.Take()

	// Unsupported pairs are caller errors and must not trip the breaker.
	var quoterErr error
	res, err := s.breaker.Execute(func() (interface{}, error) {
		q, err := s.quoter.Quote(ctx, req)
		if errors.Is(err, ports.ErrUnsupportedPair) {
			quoterErr = err
			return nil, nil
		}
		return q, err
	})
	if err != nil {
		log.WithError(err).Warnf("quoter %s failed", s.quoter.Name())
		return nil, fmt.Errorf("%w: %s", ErrQuoterUnavailable, err)
	}
	if quoterErr != nil {
		return nil, quoterErr
	}

	quote, ok := res.(*ports.Quote)
	if !ok || quote == nil {
		return nil, ErrQuoterUnavailable
	}
	return quote, nil
}

func (s *quoteService) Close() {
	s.quoter.Close()
}
