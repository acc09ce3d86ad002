// Package config defines the application configuration and its resolution
// chain: CLI flags take precedence over FIBDEV_-prefixed environment
// variables, which take precedence over defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sequenz/fibdev/internal/decimal"
	apperrors "github.com/sequenz/fibdev/internal/errors"
)

// EnvPrefix is the prefix for all environment variable overrides.
const EnvPrefix = "FIBDEV_"

// DefaultTimeout bounds a single run; generous because the table engine is
// O(k) additions and completes in microseconds at the default bound.
const DefaultTimeout = 1 * time.Minute

// AppConfig holds the complete application configuration.
type AppConfig struct {
	// K is the Fibonacci index to compute in one-shot mode.
	K uint64
	// Algo selects the calculation strategy ("table" or "doubling").
	Algo string
	// MaxIndex is the inclusive maximum index the engines accept.
	MaxIndex uint64
	// Serve enables HTTP server mode instead of one-shot computation.
	Serve bool
	// Addr is the HTTP listen address in serve mode.
	Addr string
	// Timeout bounds the whole run (computation or server lifetime has none;
	// the timeout applies to one-shot mode).
	Timeout time.Duration
	// Verify runs the engine cross-validation before computing.
	Verify bool
	// Quiet suppresses everything except the result digits.
	Quiet bool
	// Verbose enables debug logging and the resource summary.
	Verbose bool
	// OutputFile, when set, receives the result digits.
	OutputFile string
	// RateLimit is the per-client requests-per-minute bound in serve mode.
	// Zero disables rate limiting.
	RateLimit int
}

// ParseConfig parses command-line arguments into an AppConfig, applies
// environment overrides for flags not explicitly set, and validates the
// result.
//
// Parameters:
//   - programName: The program name for usage output.
//   - args: The command-line arguments (without the program name).
//   - errWriter: The writer for usage and error output.
//   - availableAlgos: The registered strategy names, for validation and usage.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp if help was requested, or a ConfigError.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	cfg := AppConfig{
		Algo:     "table",
		MaxIndex: decimal.DefaultMaxIndex,
		Addr:     ":8080",
		Timeout:  DefaultTimeout,
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.Uint64Var(&cfg.K, "k", 0, "Fibonacci index to compute")
	fs.StringVar(&cfg.Algo, "algo", cfg.Algo,
		fmt.Sprintf("calculation strategy (%s)", strings.Join(availableAlgos, ", ")))
	fs.Uint64Var(&cfg.MaxIndex, "max-index", cfg.MaxIndex, "inclusive maximum supported index")
	fs.BoolVar(&cfg.Serve, "serve", false, "run the HTTP API server")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address (serve mode)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout for one-shot computation")
	fs.BoolVar(&cfg.Verify, "verify", false, "cross-validate both engines before computing")
	fs.BoolVar(&cfg.Quiet, "q", false, "print only the result digits")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "print only the result digits")
	fs.BoolVar(&cfg.Verbose, "v", false, "enable debug logging")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	fs.StringVar(&cfg.OutputFile, "o", "", "write the result digits to a file")
	fs.StringVar(&cfg.OutputFile, "output", "", "write the result digits to a file")
	fs.IntVar(&cfg.RateLimit, "rate-limit", 60, "requests per minute per client in serve mode (0 disables)")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)

	if err := validate(cfg, availableAlgos); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// validate checks cross-field constraints that flag parsing cannot express.
func validate(cfg AppConfig, availableAlgos []string) error {
	if cfg.MaxIndex == 0 {
		return apperrors.NewConfigError("--max-index must be at least 1")
	}
	if !cfg.Serve && cfg.K > cfg.MaxIndex {
		return apperrors.NewConfigError("-k %d exceeds --max-index %d", cfg.K, cfg.MaxIndex)
	}
	for _, algo := range availableAlgos {
		if cfg.Algo == algo {
			return nil
		}
	}
	return apperrors.NewConfigError("unknown --algo %q (available: %s)",
		cfg.Algo, strings.Join(availableAlgos, ", "))
}
