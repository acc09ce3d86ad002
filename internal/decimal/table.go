package decimal

import (
	apperrors "github.com/sequenz/fibdev/internal/errors"
)

// DefaultMaxIndex is the default inclusive upper bound for table-built
// Fibonacci indices. The bound is injectable (NewBuilder), not a
// numeric-width assumption: the decimal engine scales to any index the
// configured capacity admits.
const DefaultMaxIndex = 500

// digitGrowthPerIndex captures the growth rate of the decimal digit count of
// F(k): digits(F(k)) ≈ k·log10(φ) ≈ 0.209·k. Stored as a rational
// (209/1000) so slot capacities can be sized with integer arithmetic.
const (
	digitGrowthNum = 209
	digitGrowthDen = 1000
)

// SlotCapacity returns the per-slot digit capacity needed to hold F(k).
// The analytic bound 0.209·k is padded with a two-digit safety margin so
// small indices (where the linear model undershoots) still fit. Sizing this
// from k rather than a fixed constant is what keeps large results from
// silently overflowing their slot.
func SlotCapacity(k uint64) int {
	return int(k*digitGrowthNum/digitGrowthDen) + 2
}

// Builder computes exact Fibonacci numbers by iteratively growing a memo
// table of little-endian digit buffers. Each Sequence call owns its table:
// the allocation is scoped to the call and released on return, so
// concurrent calls with independent inputs are safe without shared state.
type Builder struct {
	maxIndex uint64
}

// NewBuilder creates a Builder accepting indices in [0, maxIndex].
// A maxIndex of 0 selects DefaultMaxIndex.
func NewBuilder(maxIndex uint64) *Builder {
	if maxIndex == 0 {
		maxIndex = DefaultMaxIndex
	}
	return &Builder{maxIndex: maxIndex}
}

// MaxIndex returns the inclusive upper bound this builder accepts.
func (b *Builder) MaxIndex() uint64 { return b.maxIndex }

// Sequence produces the little-endian digit buffer for F(k).
//
// The table holds k+1 slots, seeded with F(0)="0" and F(1)="1"; slot i is
// produced exactly once from slots i-1 and i-2, strictly in increasing
// index order, and never mutated afterward. Indices below 2 return the
// index itself as a one-digit buffer without touching the table.
//
// Parameters:
//   - k: The Fibonacci index to compute.
//
// Returns:
//   - Digits: The little-endian digit buffer for F(k).
//   - error: A CapacityError if k exceeds the builder's maximum; the check
//     happens before any slot is allocated.
func (b *Builder) Sequence(k uint64) (Digits, error) {
	if k > b.maxIndex {
		return nil, apperrors.CapacityError{Index: k, MaxIndex: b.maxIndex}
	}
	if k < 2 {
		return Digits{byte('0' + k)}, nil
	}

	table := make([]Digits, k+1)
	table[0] = Digits{'0'}
	table[1] = Digits{'1'}

	capacity := SlotCapacity(k)
	for i := uint64(2); i <= k; i++ {
		slot := make(Digits, 0, capacity)
		table[i] = addInto(slot, table[i-1], table[i-2])
	}
	return table[k], nil
}

// SequenceString finalizes Sequence's output into big-endian text plus its
// digit count, the form the external interface hands to callers.
func (b *Builder) SequenceString(k uint64) (string, int, error) {
	d, err := b.Sequence(k)
	if err != nil {
		return "", 0, err
	}
	s, n := Format(d)
	return s, n, nil
}

// Sequence computes F(k) with a Builder bounded at DefaultMaxIndex.
func Sequence(k uint64) (Digits, error) {
	return NewBuilder(0).Sequence(k)
}
