// Package decimal implements arbitrary-precision, non-negative decimal
// arithmetic over ASCII digit buffers. It is the exact-value engine behind
// the Fibonacci table builder: numbers are held as little-endian digit
// buffers during accumulation and reversed into conventional reading order
// only when finalized for external consumption.
//
// The two orderings are a deliberate, tracked invariant:
//   - little-endian: index 0 holds the least-significant digit (accumulation form)
//   - big-endian: most-significant digit first (finalized, human-readable form)
//
// Conflating the two during addition is the primary correctness risk of this
// representation, so every function documents which ordering it expects.
package decimal

import (
	apperrors "github.com/sequenz/fibdev/internal/errors"
)

// Digits is a little-endian buffer of ASCII decimal digits ('0'..'9').
// Index 0 holds the least-significant digit. The zero value represents an
// empty (invalid) number; the canonical zero is Digits("0").
type Digits []byte

// FromUint64 converts a native integer into a little-endian digit buffer.
func FromUint64(v uint64) Digits {
	if v == 0 {
		return Digits{'0'}
	}
	d := make(Digits, 0, 20)
	for v > 0 {
		d = append(d, byte('0'+v%10))
		v /= 10
	}
	return d
}

// Parse converts a conventional big-endian decimal string (no sign, no
// leading zeros except "0" itself) into a little-endian digit buffer.
//
// Parameters:
//   - s: The big-endian decimal string to parse.
//
// Returns:
//   - Digits: The little-endian digit buffer.
//   - error: A ValidationError if s is empty or contains non-digit bytes.
func Parse(s string) (Digits, error) {
	if len(s) == 0 {
		return nil, apperrors.ValidationError{Field: "digits", Message: "empty digit string"}
	}
	d := make(Digits, len(s))
	for i := 0; i < len(s); i++ {
		c := s[len(s)-1-i]
		if c < '0' || c > '9' {
			return nil, apperrors.ValidationError{Field: "digits", Message: "non-digit byte in input"}
		}
		d[i] = c
	}
	return d, nil
}

// Valid reports whether the buffer is non-empty and contains only ASCII
// decimal digits.
func (d Digits) Valid() bool {
	if len(d) == 0 {
		return false
	}
	for _, c := range d {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Len returns the semantic digit count of the buffer.
func (d Digits) Len() int { return len(d) }

// Trim removes high-order zero digits so that the finalized form carries no
// leading zeros. In little-endian order the high-order digits sit at the end
// of the buffer. The single digit "0" is preserved as the representation of
// zero itself.
func (d Digits) Trim() Digits {
	n := len(d)
	for n > 1 && d[n-1] == '0' {
		n--
	}
	return d[:n]
}

// Add computes the sum of two little-endian digit buffers using schoolbook
// addition. The result has length max(len(x), len(y)) or one more if a final
// carry occurs. Inputs are not modified; the returned buffer is freshly
// allocated unless a non-nil dst with sufficient capacity is provided via
// AddInto.
//
// Callers violating the digit contract (non-ASCII-digit bytes) get a
// ValidationError rather than a garbage sum; the check is a single pass and
// the documented resolution of the undefined-input choice.
//
// Parameters:
//   - x: The first addend, little-endian.
//   - y: The second addend, little-endian.
//
// Returns:
//   - Digits: The little-endian sum.
//   - error: A ValidationError if either input is malformed.
func Add(x, y Digits) (Digits, error) {
	if !x.Valid() {
		return nil, apperrors.ValidationError{Field: "x", Message: "malformed digit buffer"}
	}
	if !y.Valid() {
		return nil, apperrors.ValidationError{Field: "y", Message: "malformed digit buffer"}
	}
	return addInto(nil, x, y), nil
}

// AddInto is like Add but accumulates into dst, which is grown as needed.
// It preserves Add's validation contract. dst must not alias x or y.
func AddInto(dst, x, y Digits) (Digits, error) {
	if !x.Valid() {
		return nil, apperrors.ValidationError{Field: "x", Message: "malformed digit buffer"}
	}
	if !y.Valid() {
		return nil, apperrors.ValidationError{Field: "y", Message: "malformed digit buffer"}
	}
	return addInto(dst, x, y), nil
}

// addInto performs the schoolbook walk. Inputs are assumed valid.
//
// The walk proceeds from index 0 (least significant) in parallel over both
// buffers; once the shorter buffer is exhausted the remaining digits of the
// longer buffer continue to absorb the carry. A final carry appends '1'.
func addInto(dst, x, y Digits) Digits {
	long, short := x, y
	if len(short) > len(long) {
		long, short = short, long
	}

	out := dst[:0]
	carry := byte(0)

	for i := 0; i < len(short); i++ {
		sum := (long[i] - '0') + (short[i] - '0') + carry
		out = append(out, '0'+sum%10)
		carry = sum / 10
	}
	for i := len(short); i < len(long); i++ {
		sum := (long[i] - '0') + carry
		out = append(out, '0'+sum%10)
		carry = sum / 10
	}
	if carry > 0 {
		out = append(out, '1')
	}
	return out
}
