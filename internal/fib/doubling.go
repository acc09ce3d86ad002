package fib

import "math/bits"

// MaxBoundedIndex is the largest index whose Fibonacci number fits in a
// uint64: F(93) = 12200160415121876738, while F(94) exceeds 2^64. Callers
// needing exact values above this index must use the decimal table engine.
const MaxBoundedIndex = 93

// Bounded computes F(k) as a native uint64 using the fast doubling method.
//
// The pair (a, b) holds (F(n), F(n+1)) and is advanced over the bits of k
// from most- to least-significant using the doubling identities:
//
//	F(2n)   = F(n) · (2·F(n+1) − F(n))
//	F(2n+1) = F(n)² + F(n+1)²
//
// After each doubling step, a set bit advances the pair one more position:
// (a, b) → (b, a+b). This takes O(log k) multiplications versus the O(k)
// additions of the naive iteration, which is why this path exists alongside
// the decimal engine: it is the efficient choice whenever the answer is
// known to fit in native width.
//
// All arithmetic wraps silently modulo 2^64. Beyond MaxBoundedIndex the
// returned value is the wrapped residue; this is a documented limitation of
// the bounded path, not an error condition.
func Bounded(k uint64) uint64 {
	if k < 2 {
		return k
	}

	a, b := uint64(0), uint64(1) // (F(0), F(1))
	for i := bits.Len64(k) - 1; i >= 0; i-- {
		t1 := a * (2*b - a) // F(2n)
		t2 := a*a + b*b     // F(2n+1)
		a, b = t1, t2
		if (k>>uint(i))&1 == 1 {
			a, b = b, a+b
		}
	}
	return a
}
