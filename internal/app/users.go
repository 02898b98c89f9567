// Package app wires validators, fetch adapters and presenters to a state
// controller, one instance per app session.
package app

import (
	"context"
	"sync"

	"github.com/battlewithbytes/lookout/internal/github"
	"github.com/battlewithbytes/lookout/internal/search"
)

// UserLookup fetches a GitHub profile. *github.Client satisfies it.
type UserLookup interface {
	User(ctx context.Context, login string) (*github.User, error)
}

// UserFinder resolves a username to a rendered profile.
type UserFinder struct {
	ctrl   *search.Controller[github.Profile]
	lookup UserLookup

	mu   sync.Mutex
	last string
}

// NewUserFinder creates a finder rendering into ports. The finder starts in
// the Initial state.
func NewUserFinder(lookup UserLookup, ports search.Ports[github.Profile]) *UserFinder {
	return &UserFinder{
		ctrl:   search.NewController(ports, search.Resettable()),
		lookup: lookup,
	}
}

// Search validates raw and, if it is a well-formed username, fetches and shows
// the profile. It returns the error shown to the user, search.ErrBusy when a
// search is already in flight, or nil.
func (f *UserFinder) Search(ctx context.Context, raw string) error {
	if f.ctrl.State() == search.Loading {
		return search.ErrBusy
	}

	f.mu.Lock()
	f.last = raw
	f.mu.Unlock()

	username, verr := github.ValidateUsername(raw)
	if verr != nil {
		if err := f.ctrl.Reject(verr); err != nil {
			return err
		}
		return verr
	}

	return f.ctrl.Do(ctx, func(ctx context.Context) (github.Profile, error) {
		u, err := f.lookup.User(ctx, username)
		if err != nil {
			return github.Profile{}, err
		}
		return github.NewProfile(u), nil
	})
}

// Retry repeats the last submitted search.
func (f *UserFinder) Retry(ctx context.Context) error {
	f.mu.Lock()
	last := f.last
	f.mu.Unlock()
	return f.Search(ctx, last)
}

// Reset clears the input and returns to the Initial state.
func (f *UserFinder) Reset() error {
	f.mu.Lock()
	f.last = ""
	f.mu.Unlock()
	return f.ctrl.Reset()
}

// State returns the visible state.
func (f *UserFinder) State() search.State { return f.ctrl.State() }

// Profile returns the shown profile when in Success.
func (f *UserFinder) Profile() (github.Profile, bool) { return f.ctrl.Result() }

// Err returns the shown error when in Error.
func (f *UserFinder) Err() *search.AppError { return f.ctrl.Err() }
