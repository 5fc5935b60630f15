package application_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
)

// **** Quoter ****

type mockQuoter struct {
	mock.Mock
}

func (m *mockQuoter) Name() string {
	return "mock"
}

func (m *mockQuoter) Quote(
	ctx context.Context, req ports.QuoteRequest,
) (*ports.Quote, error) {
	args := m.Called(ctx, req)

	var res *ports.Quote
	if a := args.Get(0); a != nil {
		res = a.(*ports.Quote)
	}
	return res, args.Error(1)
}

func (m *mockQuoter) Close() {
	m.Called()
}
