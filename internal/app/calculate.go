package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/sequenz/fibdev/internal/cli"
	"github.com/sequenz/fibdev/internal/device"
	apperrors "github.com/sequenz/fibdev/internal/errors"
	"github.com/sequenz/fibdev/internal/fib"
	"github.com/sequenz/fibdev/internal/logging"
)

// spinnerThreshold is the index above which one-shot mode shows a spinner.
// Below it the computation finishes faster than a single refresh frame.
const spinnerThreshold = 100_000

// runCalculate executes the one-shot computation mode: open the device,
// seek to the requested index, read the digits, present them.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.Verify {
		if code := a.runVerify(ctx, out); code != apperrors.ExitSuccess {
			return code
		}
	}

	calc, err := a.Factory.Get(a.Config.Algo)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	logger := logging.Logger(logging.NoOpLogger{})
	if a.Config.Verbose {
		logger = logging.NewDefaultLogger()
	}

	dev := device.New(a.Config.MaxIndex,
		device.WithCalculator(calc),
		device.WithLogger(logger),
	)

	handle, err := dev.Open()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	defer handle.Close()

	if _, err := handle.Seek(int64(a.Config.K), io.SeekStart); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	spin := a.newSpinner(out)
	spin.Start()

	start := time.Now()
	text, digits, err := handle.Read(ctx)
	duration := time.Since(start)

	spin.Stop()

	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}
	res := fib.Result{Text: text, Digits: digits}
	if err := cli.DisplayResultWithConfig(out, res, a.Config.K, duration, calc.Name(), outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runVerify cross-validates the decimal and bounded engines over the shared
// exact range before the main computation.
func (a *Application) runVerify(ctx context.Context, out io.Writer) int {
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Cross-validating engines up to F(%d)...\n", fib.MaxBoundedIndex)
	}
	if err := fib.Verify(ctx, fib.MaxBoundedIndex); err != nil {
		fmt.Fprintf(a.ErrWriter, "Verification failed: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Engines agree on [0, %d].\n", fib.MaxBoundedIndex)
	}
	return apperrors.ExitSuccess
}

// newSpinner picks the spinner appropriate for the run: silent in quiet
// mode and for small indices.
func (a *Application) newSpinner(out io.Writer) cli.Spinner {
	if a.Config.Quiet || a.Config.K < spinnerThreshold {
		return cli.NoOpSpinner{}
	}
	return cli.NewTerminalSpinner(out, fmt.Sprintf("Computing F(%d)...", a.Config.K))
}
