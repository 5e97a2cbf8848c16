// Package analysis exposes FRACT internals for permutation analysis and
// debugging tools.
//
// Nothing here is needed to compute a digest; use package fract for that.
// An Engine built with FromState starts from a caller-chosen state instead of
// the standard initialization vector, so its digests are NOT FRACT digests.
package analysis

import (
	"math/bits"

	"github.com/Giulio2002/fract"
	"github.com/Giulio2002/fract/internal/sponge"
)

const (
	// Rate is the number of bytes absorbed per block.
	Rate = sponge.Rate

	// Rounds is the number of Φ rounds in one permutation call.
	Rounds = sponge.Rounds
)

// IV returns the standard initial state.
func IV() [4]uint64 { return sponge.IV() }

// Mix applies the per-word nonlinear map f.
func Mix(x uint64) uint64 { return sponge.Mix(x) }

// Round applies a single round of Φ to state and returns the result.
func Round(state [4]uint64) [4]uint64 {
	sponge.Round(&state)
	return state
}

// Permute applies the full Rounds-round permutation to state and returns the
// result.
func Permute(state [4]uint64) [4]uint64 {
	sponge.Permute(&state)
	return state
}

// Engine is a FRACT engine whose state can be read and seeded.
type Engine struct {
	s sponge.Sponge
}

// New returns an engine seeded with the standard IV. Its digests match
// fract.Sum256 and fract.Sum512.
func New() *Engine {
	return &Engine{s: sponge.New()}
}

// FromState returns an engine seeded with state. The buffer and byte counter
// start empty. This bypasses the standard initialization.
func FromState(state [4]uint64) *Engine {
	return &Engine{s: sponge.FromState(state)}
}

// State returns a snapshot of the four state words.
func (e *Engine) State() [4]uint64 { return e.s.State() }

// Buffered returns the number of input bytes not yet absorbed into the state.
func (e *Engine) Buffered() int { return e.s.Buffered() }

// Len returns the number of bytes passed to Update.
func (e *Engine) Len() uint64 { return e.s.Len() }

// Round applies one round of Φ to the engine state in place.
func (e *Engine) Round() { e.s.Apply(sponge.Round) }

// Permute applies the full permutation to the engine state in place.
func (e *Engine) Permute() { e.s.Apply(sponge.Permute) }

// Update absorbs p; see fract.Hasher.Update.
func (e *Engine) Update(p []byte) error { return e.s.Absorb(p) }

// Finalize pads and squeezes a 32-byte digest, consuming the engine.
func (e *Engine) Finalize() ([fract.Size256]byte, error) { return e.s.Squeeze256() }

// Finalize512 pads and squeezes a 64-byte digest, consuming the engine.
func (e *Engine) Finalize512() ([fract.Size512]byte, error) { return e.s.Squeeze512() }

// BitDistance returns the number of differing bits between a and b. Bytes
// beyond the shorter slice count as fully different.
func BitDistance(a, b []byte) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 8 * (len(b) - len(a))
	for i := range a {
		n += bits.OnesCount8(a[i] ^ b[i])
	}
	return n
}

// Avalanche returns how many of the 256 FRACT-256 output bits differ between
// the digests of a and b.
func Avalanche(a, b []byte) int {
	da, db := fract.Sum256(a), fract.Sum256(b)
	return BitDistance(da[:], db[:])
}
