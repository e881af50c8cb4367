// Package entropy provides seeds for generation runs that were not given one.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"
)

// Seed returns a positive random seed from crypto/rand. If the system source
// fails it falls back to the clock.
func Seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		slog.Debug("crypto/rand unavailable, seeding from clock", "error", err)
		return positive(time.Now().UnixNano())
	}
	return positive(int64(binary.LittleEndian.Uint64(buf[:]) >> 1))
}

// positive maps n onto (0, MaxInt64] so that 0 stays reserved for "random".
func positive(n int64) int64 {
	if n < 0 {
		n = -n
	}
	if n <= 0 {
		return 1
	}
	return n
}
