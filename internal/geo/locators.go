package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Static always reports the configured coordinates.
type Static struct {
	Latitude  float64
	Longitude float64
}

func (s Static) Locate(ctx context.Context, opts Options) (Position, error) {
	return Position{Latitude: s.Latitude, Longitude: s.Longitude, Timestamp: time.Now()}, nil
}

// DefaultIPAPIURL is the ip-api.com lookup for the caller's own address.
const DefaultIPAPIURL = "http://ip-api.com/json/"

// IPLocator approximates the position from the public IP address. It cannot
// honour HighAccuracy and returns its city-level fix regardless.
type IPLocator struct {
	URL        string
	HTTPClient *http.Client
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// ipAccuracy is a rough city-level radius in metres.
const ipAccuracy = 25_000

func (l *IPLocator) Locate(ctx context.Context, opts Options) (Position, error) {
	endpoint := l.URL
	if endpoint == "" {
		endpoint = DefaultIPAPIURL
	}
	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Position{}, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Position{}, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}
		return Position{}, fmt.Errorf("%w: %w", ErrPositionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Position{}, fmt.Errorf("%w: ip lookup returned %d", ErrPositionUnavailable, resp.StatusCode)
	}
	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Position{}, fmt.Errorf("%w: decoding ip lookup: %w", ErrPositionUnavailable, err)
	}
	if body.Status != "success" {
		return Position{}, fmt.Errorf("%w: %s", ErrPositionUnavailable, body.Message)
	}
	return Position{
		Latitude:  body.Lat,
		Longitude: body.Lon,
		Accuracy:  ipAccuracy,
		Timestamp: time.Now(),
	}, nil
}

// Permission values for Consent.
const (
	PermissionAllow  = "allow"
	PermissionDeny   = "deny"
	PermissionPrompt = "prompt"
)

// Consent gates a locator behind a permission decision. With PermissionPrompt
// the Ask callback decides; the answer is remembered for the session.
type Consent struct {
	Locator    Locator
	Permission string
	Ask        func(ctx context.Context) (bool, error)

	mu      sync.Mutex
	decided bool
	allowed bool
}

func (c *Consent) Locate(ctx context.Context, opts Options) (Position, error) {
	allowed, err := c.decide(ctx)
	if err != nil {
		return Position{}, err
	}
	if !allowed {
		return Position{}, ErrPermissionDenied
	}
	return c.Locator.Locate(ctx, opts)
}

func (c *Consent) decide(ctx context.Context) (bool, error) {
	switch c.Permission {
	case PermissionAllow, "":
		return true, nil
	case PermissionDeny:
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.decided {
		return c.allowed, nil
	}
	if c.Ask == nil {
		return false, nil
	}
	ok, err := c.Ask(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	c.decided, c.allowed = true, ok
	return ok, nil
}

// Cached remembers the last fix and serves it while it is younger than
// Options.MaximumAge.
type Cached struct {
	Locator Locator
	Now     func() time.Time

	mu   sync.Mutex
	last *Position
}

func (c *Cached) Locate(ctx context.Context, opts Options) (Position, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	c.mu.Lock()
	if c.last != nil && opts.MaximumAge > 0 && now().Sub(c.last.Timestamp) <= opts.MaximumAge {
		pos := *c.last
		c.mu.Unlock()
		return pos, nil
	}
	c.mu.Unlock()

	pos, err := c.Locator.Locate(ctx, opts)
	if err != nil {
		return Position{}, err
	}
	if pos.Timestamp.IsZero() {
		pos.Timestamp = now()
	}

	c.mu.Lock()
	c.last = &pos
	c.mu.Unlock()
	return pos, nil
}
