// Package fract provides the FRACT-256 and FRACT-512 hash functions.
//
// FRACT is a sponge over a 256-bit state (4 x uint64) that absorbs 16 bytes
// per block and mixes them with 8 rounds of a coupled lattice of hybrid
// logistic-tent maps on Z/2^64. The 512-bit digest extends the 256-bit one:
// its first 32 bytes are always the FRACT-256 digest of the same input.
//
// The construction makes no verified security claims. Use it where a
// deterministic fingerprint is needed, not where collision resistance has to
// be proven.
//
// Hashing in chunks through a Hasher yields the same digest as hashing the
// concatenated input with Sum256 or Sum512, for every way of splitting it.
package fract

import "github.com/Giulio2002/fract/internal/sponge"

const (
	// Size256 is the size of a FRACT-256 digest in bytes.
	Size256 = 32

	// Size512 is the size of a FRACT-512 digest in bytes.
	Size512 = 64

	// BlockSize is the sponge rate in bytes.
	BlockSize = sponge.Rate
)

// ErrFinalized is returned by a Hasher that has already produced its digest.
var ErrFinalized = sponge.ErrFinalized

// Sum256 computes the FRACT-256 digest of data. Zero heap allocations.
func Sum256(data []byte) [Size256]byte {
	s := sponge.New()
	// A fresh sponge cannot be finalized, so neither call can fail.
	_ = s.Absorb(data)
	out, _ := s.Squeeze256()
	return out
}

// Sum512 computes the FRACT-512 digest of data.
func Sum512(data []byte) [Size512]byte {
	s := sponge.New()
	_ = s.Absorb(data)
	out, _ := s.Squeeze512()
	return out
}

// Hasher is an incremental FRACT hasher. Designed for stack allocation: the
// zero value is ready to use.
//
// A Hasher produces exactly one digest. After Finalize or Finalize512 every
// further Update or Finalize call fails with ErrFinalized until Reset.
type Hasher struct {
	s     sponge.Sponge
	ready bool
}

// New returns a Hasher in its initial state.
func New() *Hasher {
	h := new(Hasher)
	h.Reset()
	return h
}

// Reset returns the hasher to its initial state, discarding any input and
// clearing the finalized flag.
func (h *Hasher) Reset() {
	h.s = sponge.New()
	h.ready = true
}

func (h *Hasher) init() {
	if !h.ready {
		h.Reset()
	}
}

// Update absorbs p. It fails with ErrFinalized, leaving the hasher unchanged,
// if the digest has already been taken.
func (h *Hasher) Update(p []byte) error {
	h.init()
	return h.s.Absorb(p)
}

// Len returns the total number of bytes passed to Update since the last Reset.
func (h *Hasher) Len() uint64 {
	return h.s.Len()
}

// Finalize pads the input, absorbs the last block and returns the FRACT-256
// digest. The hasher is consumed.
func (h *Hasher) Finalize() ([Size256]byte, error) {
	h.init()
	return h.s.Squeeze256()
}

// Finalize512 is like Finalize but returns the FRACT-512 digest.
func (h *Hasher) Finalize512() ([Size512]byte, error) {
	h.init()
	return h.s.Squeeze512()
}
