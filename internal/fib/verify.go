package fib

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sequenz/fibdev/internal/decimal"
)

// Verify cross-validates the decimal table engine against the bounded fast
// doubling engine for every index in [0, maxK], the range where both paths
// are exact. Indices are fanned out across workers with an errgroup; the
// first mismatch cancels the remaining checks.
//
// maxK is clamped to MaxBoundedIndex, beyond which the bounded path wraps
// and comparison is meaningless.
//
// Parameters:
//   - ctx: The context for cancellation.
//   - maxK: The inclusive top of the verification range.
//
// Returns:
//   - error: nil if every index agrees, otherwise the first divergence.
func Verify(ctx context.Context, maxK uint64) error {
	if maxK > MaxBoundedIndex {
		maxK = MaxBoundedIndex
	}

	builder := decimal.NewBuilder(0)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for k := uint64(0); k <= maxK; k++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, _, err := builder.SequenceString(k)
			if err != nil {
				return fmt.Errorf("decimal engine failed at k=%d: %w", k, err)
			}
			want := fmt.Sprintf("%d", Bounded(k))
			if text != want {
				return fmt.Errorf("engines disagree at k=%d: decimal=%s doubling=%s", k, text, want)
			}
			return nil
		})
	}
	return g.Wait()
}
