package application

import (
	"errors"

	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
)

var (
	// ErrUnsupportedPair is returned when the quoter cannot price a pair.
	ErrUnsupportedPair = ports.ErrUnsupportedPair
	// ErrQuoterUnavailable is returned when the quoter is failing, rate
	// limited or has no price yet.
	ErrQuoterUnavailable = errors.New("quote service is unavailable, try again later")
	// ErrInvalidDecimals ...
	ErrInvalidDecimals = errors.New("token decimals out of range")
	// ErrMissingToken ...
	ErrMissingToken = errors.New("missing token in quote request")
)
