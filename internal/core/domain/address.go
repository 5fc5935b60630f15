package domain

import "strings"

// IsValidAddress tells whether the given string is a well formed participant
// address. No checksum is verified.
func IsValidAddress(address string) bool {
	if len(address) <= 0 {
		return false
	}
	if !strings.HasPrefix(address, AddressPrefix) {
		return false
	}
	if len(address) != AddressLength {
		return false
	}
	return isHex(address[len(AddressPrefix):])
}

// NormalizeAddress returns the canonical (lower-cased) form of an address.
func NormalizeAddress(address string) string {
	return strings.ToLower(address)
}

// NormalizeToken returns the canonical (upper-cased) form of a token.
func NormalizeToken(token string) string {
	return strings.ToUpper(token)
}

func isValidToken(token string) bool {
	if len(strings.TrimSpace(token)) <= 0 {
		return false
	}
	return !strings.Contains(token, payloadSeparator)
}

func isHex(str string) bool {
	if len(str) <= 0 {
		return false
	}
	for _, c := range str {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
