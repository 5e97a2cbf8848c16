// Package sponge implements the FRACT sponge: a 4 x 64-bit state absorbing
// 16 bytes per block, mixed by an 8-round permutation built on a hybrid
// logistic/tent map over the integers modulo 2^64.
//
// All arithmetic is native uint64, so every addition and multiplication wraps
// modulo 2^64 exactly as the construction requires.
package sponge

import (
	"encoding/binary"
	"errors"
)

const (
	// Rate is the number of bytes absorbed (and squeezed) per permutation call.
	Rate = 16

	// Rounds is the number of Φ applications per permutation call.
	Rounds = 8
)

// Initialization vector: the first 256 bits of √2.
const (
	iv0 = 0x6a09e667f3bcc908
	iv1 = 0xbb67ae8584caa73b
	iv2 = 0x3c6ef372fe94f82b
	iv3 = 0xa54ff53a5f1d36f1
)

// ErrFinalized is returned when a sponge is used after its terminal squeeze.
var ErrFinalized = errors.New("fract: engine already finalized")

// IV returns the standard initial state.
func IV() [4]uint64 {
	return [4]uint64{iv0, iv1, iv2, iv3}
}

// Sponge is the engine state. The zero value is NOT initialized; use New or
// FromState.
type Sponge struct {
	state     [4]uint64
	buf       [Rate]byte
	n         int    // bytes held in buf, always < Rate between calls
	total     uint64 // bytes passed to Absorb, diagnostic only
	finalized bool
}

// New returns a sponge seeded with the IV.
func New() Sponge {
	return FromState(IV())
}

// FromState returns a sponge seeded with an arbitrary state. The buffer and
// counters start empty. This bypasses the IV and exists for analysis tooling.
func FromState(state [4]uint64) Sponge {
	return Sponge{state: state}
}

// State returns a copy of the four state words.
func (s *Sponge) State() [4]uint64 { return s.state }

// Len returns the number of bytes absorbed so far.
func (s *Sponge) Len() uint64 { return s.total }

// Buffered returns the number of bytes waiting for a full block.
func (s *Sponge) Buffered() int { return s.n }

// Finalized reports whether a squeeze has consumed the sponge.
func (s *Sponge) Finalized() bool { return s.finalized }

// Apply runs fn on the state words in place, leaving the buffer and
// counters alone.
func (s *Sponge) Apply(fn func(*[4]uint64)) { fn(&s.state) }

// Absorb feeds p into the sponge, keeping any tail shorter than Rate for the
// next call.
func (s *Sponge) Absorb(p []byte) error {
	if s.finalized {
		return ErrFinalized
	}
	s.total += uint64(len(p))

	if s.n > 0 {
		k := copy(s.buf[s.n:], p)
		s.n += k
		p = p[k:]
		if s.n == Rate {
			s.absorbBlock(s.buf[:])
			s.n = 0
		}
	}

	for len(p) >= Rate {
		s.absorbBlock(p[:Rate])
		p = p[Rate:]
	}

	if len(p) > 0 {
		s.n = copy(s.buf[:], p)
	}
	return nil
}

// Squeeze256 pads, absorbs the final block and returns a 32-byte digest.
// The sponge is finalized afterwards.
func (s *Sponge) Squeeze256() ([32]byte, error) {
	var out [32]byte
	if err := s.finish(); err != nil {
		return out, err
	}
	s.squeeze(out[:])
	return out, nil
}

// Squeeze512 pads, absorbs the final block and returns a 64-byte digest whose
// first half equals Squeeze256's output for the same input.
func (s *Sponge) Squeeze512() ([64]byte, error) {
	var out [64]byte
	if err := s.finish(); err != nil {
		return out, err
	}
	s.squeeze(out[:])
	return out, nil
}

// absorbBlock XORs one Rate-byte block into the first two words and permutes.
// The capacity words are never touched directly.
func (s *Sponge) absorbBlock(block []byte) {
	_ = block[Rate-1]
	s.state[0] ^= binary.LittleEndian.Uint64(block[0:8])
	s.state[1] ^= binary.LittleEndian.Uint64(block[8:16])
	Permute(&s.state)
}

// finish applies pad10*1 to the buffered tail and absorbs it.
func (s *Sponge) finish() error {
	if s.finalized {
		return ErrFinalized
	}
	s.buf[s.n] = 0x01
	for i := s.n + 1; i < Rate; i++ {
		s.buf[i] = 0
	}
	// Overwrites the 0x01 marker when only one byte was free.
	s.buf[Rate-1] = 0x80
	s.absorbBlock(s.buf[:])
	s.n = 0
	s.finalized = true
	return nil
}

// squeeze fills out in Rate-sized halves, permuting between them.
func (s *Sponge) squeeze(out []byte) {
	for i := 0; i < len(out); i += Rate {
		if i > 0 {
			Permute(&s.state)
		}
		binary.LittleEndian.PutUint64(out[i:], s.state[0])
		binary.LittleEndian.PutUint64(out[i+8:], s.state[1])
	}
}
