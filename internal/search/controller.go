// Package search holds the request/state-machine adapter shared by the user
// finder and the weather reporter: one outbound call turned into a finite,
// deterministic UI state transition.
package search

import (
	"context"
	"fmt"
	"sync"
)

// State is the currently visible UI state.
type State int

const (
	Initial State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Initial:
		return "initial"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText renders the state name for JSON events.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Ports is the set of view slots a controller renders into. Each Show* call
// replaces whatever was visible before. Ports are invoked with the controller
// locked and must not call back into it.
type Ports[T any] interface {
	ShowInitial()
	ShowLoading()
	ShowSuccess(result T)
	ShowError(err *AppError)
	SetTriggerEnabled(enabled bool)
}

// Ticket identifies the request a Begin call started. Results carrying an
// older ticket are dropped.
type Ticket uint64

// Option configures a Controller.
type Option func(*options)

type options struct {
	resettable bool
}

// Resettable allows Reset to return the controller to Initial.
func Resettable() Option {
	return func(o *options) { o.resettable = true }
}

// Controller owns the state of one app and is the only place that decides
// which state is visible.
type Controller[T any] struct {
	mu     sync.Mutex
	ports  Ports[T]
	opts   options
	state  State
	ticket Ticket
	result T
	err    *AppError
}

// NewController creates a controller in the Initial state and renders it.
func NewController[T any](ports Ports[T], opts ...Option) *Controller[T] {
	c := &Controller[T]{ports: ports}
	for _, opt := range opts {
		opt(&c.opts)
	}
	c.enter(Initial)
	return c
}

// State returns the active state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the payload of the last Success. ok is false in any other state.
func (c *Controller[T]) Result() (result T, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Success {
		var zero T
		return zero, false
	}
	return c.result, true
}

// Err returns the error shown in the Error state, or nil.
func (c *Controller[T]) Err() *AppError {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Error {
		return nil
	}
	return c.err
}

// Begin moves to Loading for a validated action. Only one request may be in
// flight; a second Begin before it settles returns ErrBusy.
func (c *Controller[T]) Begin() (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Loading {
		return 0, ErrBusy
	}
	c.ticket++
	c.enter(Loading)
	return c.ticket, nil
}

// Resolve attaches a successful result and moves Loading → Success.
func (c *Controller[T]) Resolve(t Ticket, result T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.settleable(t); err != nil {
		return err
	}
	c.result = result
	c.enter(Success)
	return nil
}

// Fail classifies err and moves Loading → Error.
func (c *Controller[T]) Fail(t Ticket, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.settleable(t); err != nil {
		return err
	}
	c.err = AsAppError(err)
	c.enter(Error)
	return nil
}

// Reject shows a failure detected before any network call. Loading is never
// entered.
func (c *Controller[T]) Reject(err *AppError) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Loading {
		return ErrBusy
	}
	c.err = err
	c.enter(Error)
	return nil
}

// Reset returns to Initial from any state. A request still in flight is
// superseded and its result will be dropped.
func (c *Controller[T]) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opts.resettable {
		return ErrResetUnsupported
	}
	c.ticket++
	c.enter(Initial)
	return nil
}

// Do runs one full request cycle: Begin, fetch, then Resolve or Fail. It
// returns the AppError shown to the user, ErrBusy when another request is in
// flight, or nil on success.
func (c *Controller[T]) Do(ctx context.Context, fetch func(ctx context.Context) (T, error)) error {
	t, err := c.Begin()
	if err != nil {
		return err
	}
	result, fetchErr := fetch(ctx)
	if fetchErr != nil {
		if err := c.Fail(t, fetchErr); err != nil {
			return err
		}
		return AsAppError(fetchErr)
	}
	return c.Resolve(t, result)
}

func (c *Controller[T]) settleable(t Ticket) error {
	if t != c.ticket {
		return ErrStale
	}
	if c.state != Loading {
		return fmt.Errorf("%w: %s → settled", ErrIllegalTransition, c.state)
	}
	return nil
}

// enter must be called with mu held.
func (c *Controller[T]) enter(s State) {
	c.state = s
	if s != Success {
		var zero T
		c.result = zero
	}
	if s != Error {
		c.err = nil
	}
	if c.ports == nil {
		return
	}
	switch s {
	case Initial:
		c.ports.ShowInitial()
	case Loading:
		c.ports.ShowLoading()
	case Success:
		c.ports.ShowSuccess(c.result)
	case Error:
		c.ports.ShowError(c.err)
	}
	c.ports.SetTriggerEnabled(s != Loading)
}
