// Package device exposes the Fibonacci engine through a character-device
// style surface: open, seek, read, close over an in-process handle. The
// engines themselves are reentrant and stateless across calls; everything
// stateful (the exclusive-open lock, the current position, the configured
// maximum index) lives here, exactly one layer outside the computation.
package device

import (
	"context"
	"io"
	"sync"

	"github.com/sequenz/fibdev/internal/decimal"
	apperrors "github.com/sequenz/fibdev/internal/errors"
	"github.com/sequenz/fibdev/internal/fib"
	"github.com/sequenz/fibdev/internal/logging"
)

// Device is the single-instance entry point. At most one Handle may be open
// at a time; contention surfaces as ErrBusy from Open rather than blocking.
type Device struct {
	mu       sync.Mutex
	opened   bool
	maxIndex uint64
	calc     fib.Calculator
	logger   logging.Logger
}

// Option configures a Device during construction.
type Option func(*Device)

// WithLogger sets the logger used for device events.
func WithLogger(l logging.Logger) Option {
	return func(d *Device) { d.logger = l }
}

// WithCalculator sets the calculator the device reads from. The default is
// the exact decimal table strategy.
func WithCalculator(c fib.Calculator) Option {
	return func(d *Device) { d.calc = c }
}

// New creates a Device accepting positions in [0, maxIndex].
// A maxIndex of 0 selects decimal.DefaultMaxIndex.
func New(maxIndex uint64, opts ...Option) *Device {
	if maxIndex == 0 {
		maxIndex = decimal.DefaultMaxIndex
	}
	d := &Device{
		maxIndex: maxIndex,
		calc:     fib.NewCalculator(&fib.TableCalculator{}),
		logger:   logging.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MaxIndex returns the inclusive maximum position of the device.
func (d *Device) MaxIndex() uint64 { return d.maxIndex }

// Open acquires the device for exclusive use and returns a Handle
// positioned at index 0. While the Handle is outstanding, further Open
// calls fail with ErrBusy rather than block; serializing outstanding
// requests is the caller's policy choice, not the device's.
func (d *Device) Open() (*Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.opened {
		d.logger.Debug("open rejected, device in use")
		return nil, apperrors.ErrBusy
	}
	d.opened = true
	return &Handle{dev: d}, nil
}

// release returns the device to the closed state. Idempotent.
func (d *Device) release() {
	d.mu.Lock()
	d.opened = false
	d.mu.Unlock()
}

// Handle is an open session on the Device. It carries the current position
// and is not safe for concurrent use by multiple goroutines; the exclusive
// open already guarantees a single outstanding session.
type Handle struct {
	dev    *Device
	pos    int64
	closed bool
}

// Pos returns the current position (the index the next Read computes).
func (h *Handle) Pos() int64 { return h.pos }

// Read computes F(position) from scratch and returns its big-endian decimal
// text along with the digit count. Nothing is cached across reads: repeated
// reads at the same position recompute and return identical output.
//
// Parameters:
//   - ctx: The context carrying the parent trace span, if any.
//
// Returns:
//   - string: The decimal text of F(position).
//   - int: The digit count of the returned text.
//   - error: io.ErrClosedPipe on a closed handle, or an engine error.
func (h *Handle) Read(ctx context.Context) (string, int, error) {
	if h.closed {
		return "", 0, io.ErrClosedPipe
	}
	res, err := h.dev.calc.Calculate(ctx, uint64(h.pos), fib.Options{MaxIndex: h.dev.maxIndex})
	if err != nil {
		return "", 0, apperrors.WrapError(err, "read at position %d", h.pos)
	}
	h.dev.logger.Debug("read",
		logging.Uint64("k", uint64(h.pos)),
		logging.Int("digits", res.Digits))
	return res.Text, res.Digits, nil
}

// Write is the deliberate no-op write path: the engine performs no mutation
// in response to writes. The input is accepted and discarded, reporting its
// full length like io.Discard.
func (h *Handle) Write(p []byte) (int, error) {
	if h.closed {
		return 0, io.ErrClosedPipe
	}
	return len(p), nil
}

// Seek sets the position according to whence (io.SeekStart, io.SeekCurrent,
// io.SeekEnd) and returns the new position. Unlike io.Seeker, out-of-range
// results saturate instead of failing: below zero clamps to 0, above the
// maximum clamps to MaxIndex. The from-end mode positions at
// MaxIndex − offset, so Seek(0, io.SeekEnd) lands on the last valid index.
func (h *Handle) Seek(offset int64, whence int) (int64, error) {
	if h.closed {
		return 0, io.ErrClosedPipe
	}

	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = h.pos + offset
	case io.SeekEnd:
		newPos = int64(h.dev.maxIndex) - offset
	default:
		return h.pos, apperrors.ValidationError{Field: "whence", Message: "unknown seek mode"}
	}

	if newPos > int64(h.dev.maxIndex) {
		newPos = int64(h.dev.maxIndex)
	}
	if newPos < 0 {
		newPos = 0
	}
	h.pos = newPos
	return newPos, nil
}

// Close releases the exclusive lock, allowing the next Open to succeed.
// Closing an already-closed handle is a no-op.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.dev.release()
	return nil
}
