// internal/daily/daily.go
//
// Deterministic "equation of the day".
// The secret for a date is corpus[HMAC-SHA256(salt, YYYY-MM-DD) % len(corpus)],
// so every process sharing a salt and corpus agrees on it.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/nerdle-solver/internal/corpus"
	"github.com/robalobadob/nerdle-solver/internal/equation"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Secret returns the equation of the day from c.
func Secret(c *corpus.Corpus, date time.Time, salt string) equation.Equation {
	return c.At(Index(date, salt, c.Len()))
}
