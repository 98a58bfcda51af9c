package utils

import (
	"regexp"
	"strings"
)

var walletPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsValidWallet reports whether s is a well-formed EVM wallet address.
func IsValidWallet(s string) bool {
	return walletPattern.MatchString(s)
}

// NormalizeWallet lowercases a wallet address. All storage and lookups use
// the lowercased form so mixed-case submissions hit the same row.
func NormalizeWallet(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
