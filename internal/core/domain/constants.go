package domain

const (
	// AddressPrefix is the mandatory prefix of any participant address.
	AddressPrefix = "0x"
	// AddressLength is the total length of a participant address, prefix
	// included.
	AddressLength = 42
	// HashPrefix marks the hex rendering of a commitment hash.
	HashPrefix = "0x"
	// SaltSize is the number of random bytes drawn for every commitment salt.
	SaltSize = 32
	// MaxAmountExponent bounds the decimal exponent of an amount in both
	// directions.
	MaxAmountExponent = 36
	// MaxAmountDigits is the max number of significant digits of an amount.
	MaxAmountDigits = 78

	payloadSeparator = ":"
)
