// Package id mints compact random identifiers for wire-level use, such
// as the X-Request-Id dedupe header.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns 32 lowercase hex characters backed by 16 random
// bytes. No separators, so it embeds cleanly in headers and cache keys.
func NewID32() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
