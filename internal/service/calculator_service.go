// Package service centralizes validation, strategy retrieval, and execution
// for Fibonacci calculation requests arriving over the HTTP API.
package service

import (
	"context"

	apperrors "github.com/sequenz/fibdev/internal/errors"
	"github.com/sequenz/fibdev/internal/fib"
)

// Service defines the interface for Fibonacci calculation services.
// This abstraction enables dependency injection and easier testing.
type Service interface {
	// Calculate performs the calculation for the given strategy and index.
	//
	// Parameters:
	//   - ctx: The context for cancellation and tracing.
	//   - algoName: The name of the strategy to use.
	//   - k: The Fibonacci index to calculate.
	//
	// Returns:
	//   - fib.Result: The finalized decimal result.
	//   - error: An error if validation or calculation fails.
	Calculate(ctx context.Context, algoName string, k uint64) (fib.Result, error)
}

// CalculatorService handles the core logic for calculating Fibonacci
// numbers on behalf of the server. Implements the Service interface.
type CalculatorService struct {
	factory  fib.CalculatorFactory
	maxIndex uint64
}

// Ensure CalculatorService implements Service interface.
var _ Service = (*CalculatorService)(nil)

// NewCalculatorService creates a new instance of CalculatorService.
//
// Parameters:
//   - factory: The factory to retrieve calculators from.
//   - maxIndex: The inclusive maximum allowed index.
func NewCalculatorService(factory fib.CalculatorFactory, maxIndex uint64) *CalculatorService {
	return &CalculatorService{
		factory:  factory,
		maxIndex: maxIndex,
	}
}

// Calculate retrieves the requested calculator and executes the calculation
// with the configured bound. The bound is enforced here, before dispatch,
// so no strategy ever sees an index it would have to reject mid-allocation.
func (s *CalculatorService) Calculate(ctx context.Context, algoName string, k uint64) (fib.Result, error) {
	if k > s.maxIndex {
		return fib.Result{}, apperrors.CapacityError{Index: k, MaxIndex: s.maxIndex}
	}

	calc, err := s.factory.Get(algoName)
	if err != nil {
		return fib.Result{}, err
	}

	return calc.Calculate(ctx, k, fib.Options{MaxIndex: s.maxIndex})
}
