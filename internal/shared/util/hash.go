package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns the hex sha256 of s. It is used for filesystem-safe owner
// namespaces and for storing one-time tokens without keeping the raw value.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
