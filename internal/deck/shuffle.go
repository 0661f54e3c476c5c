// Package deck shuffles card decks.
package deck

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// Source draws a uniform integer in [0, n).
type Source interface {
	Intn(n int) (int, error)
}

// CryptoSource draws from crypto/rand.
type CryptoSource struct{}

func (CryptoSource) Intn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// Shuffle returns a uniformly random permutation of in using crypto/rand.
// The input slice is never modified.
func Shuffle[T any](in []T) []T {
	return ShuffleWith(in, CryptoSource{})
}

// ShuffleWith is a Fisher–Yates shuffle over a copy of in, drawing one value
// from src per swap. If src fails, the remaining swaps draw from an OS-seeded
// ChaCha8 generator instead.
func ShuffleWith[T any](in []T, src Source) []T {
	out := make([]T, len(in))
	copy(out, in)

	var fallback *mrand.Rand
	for i := len(out) - 1; i > 0; i-- {
		j, err := src.Intn(i + 1)
		if err != nil || j < 0 || j > i {
			if fallback == nil {
				fallback = newFallback()
			}
			j = fallback.IntN(i + 1)
		}
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func newFallback() *mrand.Rand {
	var seed [32]byte
	// Top-level math/rand/v2 functions are seeded by the runtime; use them to
	// seed a dedicated generator when crypto/rand is unavailable.
	for i := range seed {
		seed[i] = byte(mrand.Uint32())
	}
	return mrand.New(mrand.NewChaCha8(seed))
}
