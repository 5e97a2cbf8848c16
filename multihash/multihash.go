// Package multihash registers FRACT with go-multihash so FRACT digests can be
// carried as self-describing multihashes and multibase strings.
//
// Importing the package is enough to make mh.Sum, mh.GetHasher and friends
// accept FRACT_256 and FRACT_512:
//
//	import _ "github.com/Giulio2002/fract/multihash"
//
// FRACT has no assigned multicodec, so both codes live in the private-use
// range.
package multihash

import (
	"bytes"
	"errors"
	"fmt"
	"hash"

	mbase "github.com/multiformats/go-multibase"
	mh "github.com/multiformats/go-multihash"

	"github.com/Giulio2002/fract"
)

// Multihash codes.
const (
	FRACT_256 uint64 = 0x300f25
	FRACT_512 uint64 = 0x300f51
)

var names = map[uint64]string{
	FRACT_256: "fract-256",
	FRACT_512: "fract-512",
}

// ErrUnknownCode is returned for multihashes that are not FRACT digests.
var ErrUnknownCode = errors.New("multihash: not a FRACT multihash")

func init() {
	mh.Register(FRACT_256, func() hash.Hash { return fract.New256() })
	mh.Register(FRACT_512, func() hash.Hash { return fract.New512() })
	for code, name := range names {
		mh.Codes[code] = name
		mh.Names[name] = code
	}
}

// Sum returns the multihash of data under code (FRACT_256 or FRACT_512).
func Sum(data []byte, code uint64) (mh.Multihash, error) {
	if _, ok := names[code]; !ok {
		return nil, fmt.Errorf("%w: code %#x", ErrUnknownCode, code)
	}
	return mh.Sum(data, code, -1)
}

// FromDigest wraps an already computed FRACT digest. The code is chosen by
// the digest length.
func FromDigest(digest []byte) (mh.Multihash, error) {
	switch len(digest) {
	case fract.Size256:
		return mh.Encode(digest, FRACT_256)
	case fract.Size512:
		return mh.Encode(digest, FRACT_512)
	}
	return nil, fmt.Errorf("multihash: invalid FRACT digest length %d", len(digest))
}

// Decode validates m and returns its FRACT code and raw digest.
func Decode(m []byte) (uint64, []byte, error) {
	dm, err := mh.Decode(m)
	if err != nil {
		return 0, nil, err
	}
	if _, ok := names[dm.Code]; !ok {
		return 0, nil, fmt.Errorf("%w: %s (%#x)", ErrUnknownCode, dm.Name, dm.Code)
	}
	want := fract.Size256
	if dm.Code == FRACT_512 {
		want = fract.Size512
	}
	if dm.Length != want {
		return 0, nil, fmt.Errorf("multihash: truncated FRACT digest (%d of %d bytes)", dm.Length, want)
	}
	return dm.Code, dm.Digest, nil
}

// Verify reports whether m is the FRACT multihash of data.
func Verify(m []byte, data []byte) (bool, error) {
	code, _, err := Decode(m)
	if err != nil {
		return false, err
	}
	sum, err := Sum(data, code)
	if err != nil {
		return false, err
	}
	return bytes.Equal(sum, m), nil
}

// Encode renders m in the named multibase encoding (for example "base32" or
// "base58btc").
func Encode(m mh.Multihash, base string) (string, error) {
	enc, err := mbase.EncoderByName(base)
	if err != nil {
		return "", err
	}
	return enc.Encode(m), nil
}

// Parse decodes a multibase string produced by Encode and returns the FRACT
// code and raw digest it carries.
func Parse(s string) (uint64, []byte, error) {
	_, data, err := mbase.Decode(s)
	if err != nil {
		return 0, nil, err
	}
	return Decode(data)
}
