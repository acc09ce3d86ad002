package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// ProgressRefreshRate defines the refresh frequency of the spinner.
// 200ms keeps the terminal calm while still reading as live.
const ProgressRefreshRate = 200 * time.Millisecond

// Spinner is an interface that abstracts the behavior of a terminal spinner,
// decoupling callers from a specific implementation for easier testing.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(s string)
}

// TerminalSpinner wraps briandowns/spinner behind the Spinner interface.
type TerminalSpinner struct {
	s *spinner.Spinner
}

// NewTerminalSpinner creates a spinner writing to out with the given
// initial suffix text.
func NewTerminalSpinner(out io.Writer, suffix string) *TerminalSpinner {
	s := spinner.New(spinner.CharSets[14], ProgressRefreshRate, spinner.WithWriter(out))
	s.Suffix = " " + suffix
	return &TerminalSpinner{s: s}
}

// Start begins the spinner animation.
func (t *TerminalSpinner) Start() { t.s.Start() }

// Stop halts the spinner animation.
func (t *TerminalSpinner) Stop() { t.s.Stop() }

// UpdateSuffix sets the text displayed after the spinner.
func (t *TerminalSpinner) UpdateSuffix(text string) { t.s.Suffix = " " + text }

// NoOpSpinner satisfies Spinner without emitting anything; used in quiet
// mode and in tests.
type NoOpSpinner struct{}

// Start does nothing.
func (NoOpSpinner) Start() {}

// Stop does nothing.
func (NoOpSpinner) Stop() {}

// UpdateSuffix does nothing.
func (NoOpSpinner) UpdateSuffix(string) {}
