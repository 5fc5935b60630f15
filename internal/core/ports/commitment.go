package ports

import "github.com/shopspring/decimal"

// Verification is the outcome of checking whether a commitment can be
// claimed by a given recipient. Amount and Token are set only if Valid.
type Verification struct {
	Valid  bool
	Amount decimal.Decimal
	Token  string
}
