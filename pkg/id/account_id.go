package id

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var accountIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// NewAccountID mints a fresh ledger account identifier: 32 lowercase hex
// characters, the same shape the API accepts for lender and borrower ids.
func NewAccountID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ValidAccountID reports whether s is a well-formed account identifier.
func ValidAccountID(s string) bool {
	return accountIDPattern.MatchString(s)
}
