package lzss

import "math/bits"

// _getLE64 loads a uint64 value from the p field. This function will be inlined
// and compiled into a simple move on little-endian 64 bit architectures.
//
// If p is too small the function will panic.
func _getLE64(p []byte) uint64 {
	_ = p[7]
	return uint64(p[0]) | uint64(p[1])<<8 | uint64(p[2])<<16 |
		uint64(p[3])<<24 | uint64(p[4])<<32 | uint64(p[5])<<40 |
		uint64(p[6])<<48 | uint64(p[7])<<56
}

// getLE64 reads up to 8 bytes of p as little-endian value. Missing bytes are
// zero.
func getLE64(p []byte) uint64 {
	if len(p) >= 8 {
		return _getLE64(p)
	}
	var x uint64
	for i, b := range p {
		x |= uint64(b) << (8 * uint(i))
	}
	return x
}

// lcp computes the length of the longest common prefix between p and q.
func lcp(p, q []byte) int {
	if len(q) > len(p) {
		p, q = q, p
	}
	n := 0
	for len(q) >= 8 {
		x := _getLE64(p) ^ _getLE64(q)
		k := bits.TrailingZeros64(x) >> 3
		n += k
		if k < 8 {
			return n
		}
		q = q[8:]
		p = p[8:]
	}
	for i, b := range q {
		if p[i] != b {
			break
		}
		n++
	}
	return n
}
