package domain

import "github.com/shopspring/decimal"

// IsValidAmount tells whether amount is strictly positive and can be rendered
// without exceeding MaxAmountExponent and MaxAmountDigits.
func IsValidAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	exp := amount.Exponent()
	if exp < -MaxAmountExponent || exp > MaxAmountExponent {
		return false
	}
	return len(amount.Coefficient().String()) <= MaxAmountDigits
}
