package sponge

import "math/bits"

// Mix is the hybrid logistic-tent map f on Z/2^64.
//
//	f(x) = 4x(1-x)            mod 2^64, x <  2^63
//	f(x) = 4(x-2^63)(2^64-x)  mod 2^64, x >= 2^63
//
// The logistic branch reads x as a fixed-point fraction, so x² is the high
// word of the 128-bit product.
func Mix(x uint64) uint64 {
	if x < 1<<63 {
		hi, _ := bits.Mul64(x, x)
		return 4*x - 4*hi
	}
	return 4 * (x ^ 1<<63) * -x
}

// Round applies one round of the coupled lattice Φ to s.
func Round(s *[4]uint64) {
	s0, s1, s2, s3 := s[0], s[1], s[2], s[3]
	s[0] = Mix(s0) + ((s1 >> 31) ^ (s3 << 17))
	s[1] = Mix(s1) + ((s2 >> 23) ^ (s0 << 11))
	s[2] = Mix(s2) + ((s3 >> 47) ^ (s1 << 29))
	s[3] = Mix(s3) + ((s0 >> 13) ^ (s2 << 5))
}

// Permute applies Rounds rounds of Φ to s.
func Permute(s *[4]uint64) {
	for i := 0; i < Rounds; i++ {
		Round(s)
	}
}
