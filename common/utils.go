package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseAmount parses an asset amount carried as an arbitrary-precision
// decimal string. Negative and malformed amounts are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed amount %q: %v", s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %q", s)
	}
	return d, nil
}

// RandTxHash generates a random 64-character hex transaction id.
func RandTxHash() string {
	var b [32]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// RandTronAddress generates a random base58-looking tron address.
// Only used to seed test fixtures, no checksum is computed.
func RandTronAddress() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return "T" + hex.EncodeToString(b[:])
}
