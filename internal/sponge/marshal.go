package sponge

import (
	"encoding/binary"
	"errors"
)

// MarshaledSize is the length of the encoding produced by AppendBinary.
const MarshaledSize = 4*8 + 8 + 1 + 1 + Rate

var errInvalidState = errors.New("fract: invalid sponge state")

// AppendBinary appends the full sponge state to b: the four state words and
// the byte count (little-endian), the buffer length, the finalized flag and
// the raw buffer.
func (s *Sponge) AppendBinary(b []byte) []byte {
	for _, w := range s.state {
		b = binary.LittleEndian.AppendUint64(b, w)
	}
	b = binary.LittleEndian.AppendUint64(b, s.total)
	b = append(b, byte(s.n))
	if s.finalized {
		b = append(b, 1)
	} else {
		b = append(b, 0)
	}
	return append(b, s.buf[:]...)
}

// UnmarshalBinary restores a state written by AppendBinary. s is left
// untouched on error.
func (s *Sponge) UnmarshalBinary(b []byte) error {
	if len(b) != MarshaledSize {
		return errInvalidState
	}
	var r Sponge
	for i := range r.state {
		r.state[i] = binary.LittleEndian.Uint64(b[8*i:])
	}
	b = b[32:]
	r.total = binary.LittleEndian.Uint64(b)
	r.n = int(b[8])
	if r.n >= Rate || b[9] > 1 {
		return errInvalidState
	}
	r.finalized = b[9] == 1
	copy(r.buf[:], b[10:])
	*s = r
	return nil
}
