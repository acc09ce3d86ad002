package service

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/sequenz/fibdev/internal/errors"
	"github.com/sequenz/fibdev/internal/fib"
)

func TestCalculate_Success(t *testing.T) {
	svc := NewCalculatorService(fib.NewDefaultFactory(), 500)

	res, err := svc.Calculate(context.Background(), "table", 20)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.Text != "6765" || res.Digits != 4 {
		t.Errorf("Calculate(20) = %+v, want Text=6765 Digits=4", res)
	}
}

func TestCalculate_EnforcesBoundBeforeDispatch(t *testing.T) {
	svc := NewCalculatorService(fib.NewDefaultFactory(), 100)

	_, err := svc.Calculate(context.Background(), "table", 101)
	var capErr apperrors.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("error = %v, want CapacityError", err)
	}
	if capErr.Index != 101 || capErr.MaxIndex != 100 {
		t.Errorf("CapacityError = %+v, want Index=101 MaxIndex=100", capErr)
	}
}

func TestCalculate_UnknownAlgorithm(t *testing.T) {
	svc := NewCalculatorService(fib.NewDefaultFactory(), 500)

	if _, err := svc.Calculate(context.Background(), "matrix", 10); err == nil {
		t.Error("Calculate with unknown algorithm succeeded, want error")
	}
}

func TestCalculate_BothStrategies(t *testing.T) {
	svc := NewCalculatorService(fib.NewDefaultFactory(), 500)
	ctx := context.Background()

	tRes, err := svc.Calculate(ctx, "table", 50)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	dRes, err := svc.Calculate(ctx, "doubling", 50)
	if err != nil {
		t.Fatalf("doubling: %v", err)
	}
	if tRes.Text != dRes.Text {
		t.Errorf("strategies disagree at k=50: %s vs %s", tRes.Text, dRes.Text)
	}
}
