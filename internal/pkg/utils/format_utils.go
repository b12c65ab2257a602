package utils

import (
	"strconv"
	"strings"
)

// FormatAddress shortens an address to its first 6 and last 4 characters, e.g. 0x1234...abcd.
// Addresses too short to shorten are returned unchanged.
func FormatAddress(address string) string {
	if address == "" {
		return ""
	}
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// FormatBalance renders a decimal balance string with 4 fractional digits.
// Empty or unparsable input renders as "0".
func FormatBalance(balance string) string {
	balance = strings.TrimSpace(balance)
	if balance == "" {
		return "0"
	}
	v, err := strconv.ParseFloat(balance, 64)
	if err != nil {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
