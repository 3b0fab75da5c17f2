// internal/rng/rng.go
//
// Deterministic pseudo-random source for mission generation.
// Responsibilities:
//   - Turn an arbitrary seed string into a reproducible stream of floats in [0,1).
//   - Provide the primitives every generator builds on: NextInt, Next, Choice, Shuffle.
//   - Produce fresh, URL-safe seeds for sessions started without one.
//
// Notes:
//   - The stream is a sequence of 32-byte rounds, each a keyed BLAKE2b-256 digest
//     of the round counter. The key is the BLAKE2b-256 hash of the seed, so seeds
//     of any length map to unrelated streams.
//   - Each float consumes exactly 4 bytes: Σ b[i] / 256^(i+1).
//   - Output depends only on the seed and the order of calls; nothing reads
//     the wall clock or platform state.
package rng

import (
	"crypto/rand"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

const roundSize = blake2b.Size256

// Rand is a seeded generator. It is not safe for concurrent use; every
// generator is owned by the single goroutine generating one mission.
type Rand struct {
	key   [blake2b.Size256]byte
	round uint64
	pos   int
	buf   [roundSize]byte
}

// New returns a generator whose output is fully determined by seed.
func New(seed string) *Rand {
	r := &Rand{key: blake2b.Sum256([]byte(seed))}
	r.fill()
	return r
}

// fill computes the current round's bytes.
func (r *Rand) fill() {
	h, err := blake2b.New256(r.key[:])
	if err != nil {
		// 32-byte keys are always accepted.
		panic(err)
	}
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], r.round)
	h.Write(ctr[:])
	copy(r.buf[:], h.Sum(nil))
	r.pos = 0
}

func (r *Rand) nextByte() byte {
	if r.pos >= roundSize {
		r.round++
		r.fill()
	}
	b := r.buf[r.pos]
	r.pos++
	return b
}

// Next returns the next float in [0,1).
func (r *Rand) Next() float64 {
	var f float64
	div := 256.0
	for i := 0; i < 4; i++ {
		f += float64(r.nextByte()) / div
		div *= 256
	}
	return f
}

// NextInt returns an integer in [min, max], both inclusive.
func (r *Rand) NextInt(min, max int) int {
	return int(r.Next()*float64(max-min+1)) + min
}

// Choice picks one element of s uniformly. s must not be empty.
func Choice[T any](r *Rand, s []T) T {
	return s[r.NextInt(0, len(s)-1)]
}

// Shuffle returns a Fisher–Yates shuffled copy of s; s is left untouched.
func Shuffle[T any](r *Rand, s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	for i := len(out) - 1; i > 0; i-- {
		j := r.NextInt(0, i)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

const seedAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SeedLength is the length of seeds produced by NewSeed.
const SeedLength = 6

// NewSeed returns a fresh 6-character uppercase alphanumeric seed.
// Seeds only need to be shareable, not secret; crypto/rand keeps them
// independent across processes.
func NewSeed() string {
	var b [SeedLength]byte
	_, _ = rand.Read(b[:])
	out := make([]byte, SeedLength)
	for i, v := range b {
		out[i] = seedAlphabet[int(v)%len(seedAlphabet)]
	}
	return string(out)
}
