package decimal

// This file finalizes little-endian accumulation buffers into conventional
// big-endian text. The reversal operates over the full semantic length of
// the buffer: reversing only length-1 bytes would leave the most-significant
// digit unswapped whenever the digit count is even.

// Reverse reverses b in place over its full length. For a single-byte
// buffer the operation is a no-op.
func Reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// String renders the buffer in conventional reading order: most-significant
// digit first, no leading zeros (except the literal value zero), no sign.
// The receiver is not modified; trailing unused capacity of the underlying
// storage is excluded.
func (d Digits) String() string {
	t := d.Trim()
	out := make([]byte, len(t))
	for i, c := range t {
		out[len(t)-1-i] = c
	}
	return string(out)
}

// Format returns the big-endian text of d together with its digit count.
// The count matches len of the returned string; the device layer surfaces
// it alongside each read.
func Format(d Digits) (string, int) {
	s := d.String()
	return s, len(s)
}
