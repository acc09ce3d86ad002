// Package fib provides the Fibonacci computation engines behind fibdev.
// It exposes a `Calculator` interface that abstracts the underlying strategy,
// allowing the exact decimal table engine and the bounded fast-doubling
// engine to be used interchangeably by the device, service, and CLI layers.
// Both engines are pure, synchronous, reentrant computations: each call owns
// its state, so independent calls are safe to run in parallel.
package fib

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"github.com/sequenz/fibdev/internal/decimal"
	apperrors "github.com/sequenz/fibdev/internal/errors"
)

var (
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibdev_calculations_total",
			Help: "The total number of Fibonacci calculations processed",
		},
		[]string{"algorithm", "status"},
	)
	calculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "fibdev_calculation_duration_seconds",
			Help: "The duration of Fibonacci calculations in seconds",
		},
		[]string{"algorithm"},
	)
)

// Result carries the finalized output of a calculation: the big-endian
// decimal text of F(k) and its digit count. The count always equals
// len(Text); the device layer reports it alongside each read.
type Result struct {
	Text   string
	Digits int
}

// Options configures a Fibonacci calculation.
type Options struct {
	// MaxIndex is the inclusive upper bound accepted by the engine.
	// If 0, decimal.DefaultMaxIndex is used.
	MaxIndex uint64
}

// normalizeOptions returns a copy of opts with default values filled in for
// zero values, ensuring consistent bound handling across engines.
func normalizeOptions(opts Options) Options {
	if opts.MaxIndex == 0 {
		opts.MaxIndex = decimal.DefaultMaxIndex
	}
	return opts
}

// Calculator defines the public interface for a Fibonacci calculator.
// It is the primary abstraction used by the device and service layers to
// interact with the computation strategies.
type Calculator interface {
	// Calculate computes F(k) and returns its finalized decimal form.
	// It is safe for concurrent use; the context is consulted only for the
	// enclosing trace span, since the engines run to completion without
	// internal suspension points.
	Calculate(ctx context.Context, k uint64, opts Options) (Result, error)

	// Name returns the display name of the calculation strategy.
	Name() string
}

// coreCalculator defines the internal interface for a pure calculation
// strategy, free of cross-cutting concerns.
type coreCalculator interface {
	CalculateCore(k uint64, opts Options) (Result, error)
	Name() string
}

// FibCalculator wraps a coreCalculator to add cross-cutting concerns:
// tracing, metrics, and completion logging. The computation itself is
// delegated untouched.
type FibCalculator struct {
	core coreCalculator
}

// NewCalculator constructs a FibCalculator around the given core strategy.
// It panics if core is nil, as a nil strategy is a programming error.
func NewCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("fib: the coreCalculator implementation cannot be nil")
	}
	return &FibCalculator{core: core}
}

// Name returns the name of the wrapped strategy.
func (c *FibCalculator) Name() string {
	return c.core.Name()
}

// Calculate runs the wrapped strategy and records the outcome.
//
// Parameters:
//   - ctx: The context carrying the parent trace span, if any.
//   - k: The Fibonacci index to compute.
//   - opts: Calculation options; zero values receive defaults.
//
// Returns:
//   - Result: The finalized decimal result.
//   - error: A CapacityError if k is out of range for the strategy.
func (c *FibCalculator) Calculate(ctx context.Context, k uint64, opts Options) (result Result, err error) {
	tracer := otel.Tracer("fib")
	_, span := tracer.Start(ctx, "Calculate")
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
		}
		algoName := c.core.Name()
		calculationsTotal.WithLabelValues(algoName, status).Inc()
		calculationDuration.WithLabelValues(algoName).Observe(duration)

		log.Debug().
			Str("algo", algoName).
			Uint64("k", k).
			Float64("duration", duration).
			Str("status", status).
			Msg("calculation completed")
	}()

	return c.core.CalculateCore(k, normalizeOptions(opts))
}

// TableCalculator is the arbitrary-precision strategy: it builds the full
// digit sequence of F(k) through O(k) big-decimal additions over a memo
// table, then finalizes it into reading order.
type TableCalculator struct{}

// Name returns the descriptive name of the strategy.
func (tc *TableCalculator) Name() string {
	return "Decimal Table (O(k) additions, exact)"
}

// CalculateCore computes F(k) via the decimal table builder.
func (tc *TableCalculator) CalculateCore(k uint64, opts Options) (Result, error) {
	text, digits, err := decimal.NewBuilder(opts.MaxIndex).SequenceString(k)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, Digits: digits}, nil
}

// DoublingCalculator is the bounded strategy: O(log k) fast doubling over
// native uint64 arithmetic. It refuses indices whose value cannot be exact
// in native width instead of silently returning the wrapped residue, since
// a Result is an exact-value contract.
type DoublingCalculator struct{}

// Name returns the descriptive name of the strategy.
func (dc *DoublingCalculator) Name() string {
	return "Fast Doubling (O(log k), native width)"
}

// CalculateCore computes F(k) via Bounded and formats it.
func (dc *DoublingCalculator) CalculateCore(k uint64, opts Options) (Result, error) {
	if k > MaxBoundedIndex {
		return Result{}, apperrors.CapacityError{Index: k, MaxIndex: MaxBoundedIndex}
	}
	text := strconv.FormatUint(Bounded(k), 10)
	return Result{Text: text, Digits: len(text)}, nil
}
