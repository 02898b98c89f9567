// Package geo acquires the coordinates the weather reporter queries with.
// Acquisition is a fallible asynchronous step with three distinguished
// failures: permission denied, position unavailable and timeout.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/battlewithbytes/lookout/internal/search"
)

// Position is a resolved coordinate pair.
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy,omitempty"` // metres, 0 when unknown
	Timestamp time.Time `json:"timestamp"`
}

// Options tune a single acquisition.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration // a cached position this young counts as fresh
}

// DefaultOptions requests high accuracy with a 10 s timeout and accepts a
// position up to 5 minutes old.
func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      10 * time.Second,
		MaximumAge:   5 * time.Minute,
	}
}

// Locator resolves the host's current position.
type Locator interface {
	Locate(ctx context.Context, opts Options) (Position, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context, opts Options) (Position, error)

func (f LocatorFunc) Locate(ctx context.Context, opts Options) (Position, error) {
	return f(ctx, opts)
}

var (
	ErrUnsupported         = errors.New("location capability unavailable")
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("location request timed out")
)

const (
	MsgUnsupported         = "Location services are not available on this host."
	MsgPermissionDenied    = "Location access denied by user."
	MsgPositionUnavailable = "Location information is unavailable."
	MsgTimeout             = "Location request timed out."
	MsgUnknown             = "Unable to retrieve your location."
)

// SelfTimed is implemented by locators that apply Options.Timeout themselves,
// such as a browser whose clock starts once its permission prompt is answered.
type SelfTimed interface {
	AppliesTimeout() bool
}

// Acquire runs loc under the options' timeout, unless loc applies it itself.
// A nil locator fails immediately with ErrUnsupported.
func Acquire(ctx context.Context, loc Locator, opts Options) (Position, error) {
	if loc == nil {
		return Position{}, ErrUnsupported
	}
	st, selfTimed := loc.(SelfTimed)
	if opts.Timeout > 0 && !(selfTimed && st.AppliesTimeout()) {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	pos, err := loc.Locate(ctx, opts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
			return Position{}, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return Position{}, err
	}
	return pos, nil
}

// Classify maps an acquisition failure onto the search error taxonomy. A
// missing capability counts as network-unreachable; the other causes are
// location failures with their own message.
func Classify(err error) *search.AppError {
	if err == nil {
		return nil
	}
	appErr := &search.AppError{Kind: search.KindLocationFailed, Err: err}
	switch {
	case errors.Is(err, ErrUnsupported):
		appErr.Kind = search.KindNetworkUnreachable
		appErr.Message = MsgUnsupported
	case errors.Is(err, ErrPermissionDenied):
		appErr.Message = MsgPermissionDenied
	case errors.Is(err, ErrPositionUnavailable):
		appErr.Message = MsgPositionUnavailable
	case errors.Is(err, ErrTimeout):
		appErr.Message = MsgTimeout
	default:
		appErr.Message = MsgUnknown
	}
	return appErr
}
