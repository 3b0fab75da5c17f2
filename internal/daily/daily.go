// Package daily derives the shared mission seed of the day and records
// finished missions in the results log.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// SeedLength matches the length of freshly drawn mission seeds.
const SeedLength = 6

const seedAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDateKey validates a YYYY-MM-DD key.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// Seed returns the deterministic seed for a date: HMAC-SHA256(salt,
// YYYY-MM-DD) written as base-36 digits, least significant first.
func Seed(date time.Time, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes give plenty of range for 6 base-36 digits
	n := binary.BigEndian.Uint64(sum[:8])

	out := make([]byte, SeedLength)
	for i := range out {
		out[i] = seedAlphabet[n%36]
		n /= 36
	}
	return string(out)
}
