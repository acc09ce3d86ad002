// Package cli handles the presentation of calculation results on the
// terminal and to files.
//
// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a formatted string without performing I/O.
//   - Write* functions write data to files on the filesystem.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sequenz/fibdev/internal/fib"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet mode suppresses everything except the result digits.
	Quiet bool
	// Verbose shows the full digit string regardless of length.
	Verbose bool
}

const (
	// TruncationLimit is the digit threshold from which a result is truncated
	// in standard output to avoid cluttering the terminal.
	TruncationLimit = 100
	// DisplayEdges specifies the number of digits to display at the beginning
	// and end of a truncated number.
	DisplayEdges = 25
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds
// for durations less than a second, and the default representation otherwise.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatResultDigits formats the digit string for terminal display,
// truncating the middle of very long values unless verbose is set.
//
// Parameters:
//   - text: The big-endian digit string.
//   - verbose: Whether to always show the full value.
//
// Returns:
//   - string: The display form of the digits.
func FormatResultDigits(text string, verbose bool) string {
	if verbose || len(text) <= TruncationLimit {
		return text
	}
	return fmt.Sprintf("%s...%s (%d digits)",
		text[:DisplayEdges], text[len(text)-DisplayEdges:], len(text))
}

// DisplayQuietResult outputs only the result digits, suitable for scripting
// and for piping into verification tooling.
func DisplayQuietResult(out io.Writer, res fib.Result) {
	fmt.Fprintln(out, res.Text)
}

// DisplayResult writes the standard human-readable result block.
//
// Parameters:
//   - out: The output writer.
//   - res: The calculation result.
//   - k: The Fibonacci index.
//   - duration: The calculation duration.
//   - verbose: Whether to show the full digit string.
func DisplayResult(out io.Writer, res fib.Result, k uint64, duration time.Duration, verbose bool) {
	fmt.Fprintf(out, "F(%d) = %s\n", k, FormatResultDigits(res.Text, verbose))
	fmt.Fprintf(out, "Digits: %d\n", res.Digits)
	fmt.Fprintf(out, "Computed in %s\n", FormatExecutionDuration(duration))
}

// WriteResultToFile writes a calculation result to a file.
//
// Parameters:
//   - res: The calculation result.
//   - k: The Fibonacci index.
//   - duration: The calculation duration.
//   - algo: The strategy name used.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(res fib.Result, k uint64, duration time.Duration, algo string, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# Fibonacci Calculation Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Algorithm: %s\n", algo)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# K: %d\n", k)
	fmt.Fprintf(file, "# Digits: %d\n", res.Digits)
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "F(%d) =\n%s\n", k, res.Text)

	return nil
}

// DisplayResultWithConfig displays a result with the given output
// configuration. This is the unified entry handling all output modes.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, res fib.Result, k uint64, duration time.Duration, algo string, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, res)
	} else {
		DisplayResult(out, res, k, duration, config.Verbose)
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(res, k, duration, algo, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\nResult saved to: %s\n", config.OutputFile)
		}
	}

	return nil
}
