package fract

import (
	"errors"
	"hash"

	"github.com/Giulio2002/fract/internal/sponge"
)

const (
	magic         = "fract\x01"
	marshaledSize = len(magic) + 1 + sponge.MarshaledSize
)

var (
	errInvalidIdentifier = errors.New("fract: invalid hash state identifier")
	errInvalidStateSize  = errors.New("fract: invalid hash state size")
	errDigestSize        = errors.New("fract: hash state belongs to a different digest size")
	errFinalizedState    = errors.New("fract: hash state is already finalized")
)

// digest adapts the sponge to hash.Hash. Sum squeezes a copy, so the running
// state keeps absorbing after it.
type digest struct {
	s    sponge.Sponge
	size int
}

// New256 returns a hash.Hash computing FRACT-256. The returned value also
// implements encoding.BinaryMarshaler and encoding.BinaryUnmarshaler so that a
// partially hashed stream can be saved and resumed.
func New256() hash.Hash {
	return &digest{s: sponge.New(), size: Size256}
}

// New512 returns a hash.Hash computing FRACT-512.
func New512() hash.Hash {
	return &digest{s: sponge.New(), size: Size512}
}

func (d *digest) Size() int      { return d.size }
func (d *digest) BlockSize() int { return BlockSize }
func (d *digest) Reset()         { d.s = sponge.New() }

func (d *digest) Write(p []byte) (int, error) {
	if err := d.s.Absorb(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Sum appends the digest of everything written so far to b.
// Does not modify the hash state.
func (d *digest) Sum(b []byte) []byte {
	s := d.s
	if d.size == Size512 {
		out, _ := s.Squeeze512()
		return append(b, out[:]...)
	}
	out, _ := s.Squeeze256()
	return append(b, out[:]...)
}

func (d *digest) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, marshaledSize)
	b = append(b, magic...)
	b = append(b, byte(d.size))
	return d.s.AppendBinary(b), nil
}

func (d *digest) UnmarshalBinary(b []byte) error {
	if len(b) < len(magic) || string(b[:len(magic)]) != magic {
		return errInvalidIdentifier
	}
	if len(b) != marshaledSize {
		return errInvalidStateSize
	}
	if int(b[len(magic)]) != d.size {
		return errDigestSize
	}
	var s sponge.Sponge
	if err := s.UnmarshalBinary(b[len(magic)+1:]); err != nil {
		return err
	}
	// Sum squeezes a copy, so a digest never saves a finalized sponge.
	if s.Finalized() {
		return errFinalizedState
	}
	d.s = s
	return nil
}
