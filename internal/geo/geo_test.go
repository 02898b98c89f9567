package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/battlewithbytes/lookout/internal/search"
)

func TestAcquireNilLocatorUnsupported(t *testing.T) {
	_, err := Acquire(context.Background(), nil, DefaultOptions())
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestAcquireTimeout(t *testing.T) {
	slow := LocatorFunc(func(ctx context.Context, opts Options) (Position, error) {
		<-ctx.Done()
		return Position{}, ctx.Err()
	})
	_, err := Acquire(context.Background(), slow, Options{Timeout: 10 * time.Millisecond})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

type browserLike struct{ LocatorFunc }

func (browserLike) AppliesTimeout() bool { return true }

func TestAcquireLeavesSelfTimedLocatorWithoutDeadline(t *testing.T) {
	loc := browserLike{func(ctx context.Context, opts Options) (Position, error) {
		if _, ok := ctx.Deadline(); ok {
			t.Error("self-timed locator got a deadline")
		}
		if opts.Timeout != 10*time.Millisecond {
			t.Errorf("timeout = %v, want it passed through", opts.Timeout)
		}
		time.Sleep(30 * time.Millisecond)
		return Position{Latitude: 3}, nil
	}}
	pos, err := Acquire(context.Background(), loc, Options{Timeout: 10 * time.Millisecond})
	if err != nil || pos.Latitude != 3 {
		t.Fatalf("pos = %+v, err = %v", pos, err)
	}
}

func TestAcquirePassesOptions(t *testing.T) {
	var got Options
	loc := LocatorFunc(func(ctx context.Context, opts Options) (Position, error) {
		got = opts
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected a deadline on the context")
		}
		return Position{Latitude: 1, Longitude: 2}, nil
	})
	pos, err := Acquire(context.Background(), loc, DefaultOptions())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if pos.Latitude != 1 || pos.Longitude != 2 {
		t.Errorf("pos = %+v", pos)
	}
	if !got.HighAccuracy || got.Timeout != 10*time.Second || got.MaximumAge != 5*time.Minute {
		t.Errorf("opts = %+v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		kind search.Kind
		msg  string
	}{
		{ErrUnsupported, search.KindNetworkUnreachable, MsgUnsupported},
		{ErrPermissionDenied, search.KindLocationFailed, MsgPermissionDenied},
		{ErrPositionUnavailable, search.KindLocationFailed, MsgPositionUnavailable},
		{ErrTimeout, search.KindLocationFailed, MsgTimeout},
		{errors.New("weird"), search.KindLocationFailed, MsgUnknown},
	}
	for _, tt := range tests {
		got := Classify(tt.err)
		if got.Kind != tt.kind || got.Message != tt.msg {
			t.Errorf("Classify(%v) = %s %q, want %s %q", tt.err, got.Kind, got.Message, tt.kind, tt.msg)
		}
		if !errors.Is(got, tt.err) {
			t.Errorf("Classify(%v) does not wrap its cause", tt.err)
		}
	}
	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestIPLocator(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","lat":51.5074,"lon":-0.1278}`))
	}))
	defer ts.Close()

	loc := &IPLocator{URL: ts.URL, HTTPClient: ts.Client()}
	pos, err := loc.Locate(context.Background(), DefaultOptions())
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if pos.Latitude != 51.5074 || pos.Longitude != -0.1278 {
		t.Errorf("pos = %+v", pos)
	}
}

func TestIPLocatorFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer ts.Close()

	loc := &IPLocator{URL: ts.URL, HTTPClient: ts.Client()}
	_, err := loc.Locate(context.Background(), DefaultOptions())
	if !errors.Is(err, ErrPositionUnavailable) {
		t.Fatalf("err = %v, want ErrPositionUnavailable", err)
	}
}

func TestConsent(t *testing.T) {
	inner := Static{Latitude: 1, Longitude: 2}

	deny := &Consent{Locator: inner, Permission: PermissionDeny}
	if _, err := deny.Locate(context.Background(), Options{}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("deny: err = %v", err)
	}

	allow := &Consent{Locator: inner, Permission: PermissionAllow}
	if _, err := allow.Locate(context.Background(), Options{}); err != nil {
		t.Errorf("allow: err = %v", err)
	}

	asked := 0
	prompt := &Consent{Locator: inner, Permission: PermissionPrompt, Ask: func(ctx context.Context) (bool, error) {
		asked++
		return false, nil
	}}
	for i := 0; i < 2; i++ {
		if _, err := prompt.Locate(context.Background(), Options{}); !errors.Is(err, ErrPermissionDenied) {
			t.Errorf("prompt: err = %v", err)
		}
	}
	if asked != 1 {
		t.Errorf("asked %d times, want 1", asked)
	}
}

func TestCachedHonoursMaximumAge(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	inner := LocatorFunc(func(ctx context.Context, opts Options) (Position, error) {
		calls++
		return Position{Latitude: float64(calls), Timestamp: now}, nil
	})
	c := &Cached{Locator: inner, Now: func() time.Time { return now }}
	opts := Options{MaximumAge: 5 * time.Minute}

	c.Locate(context.Background(), opts)
	now = now.Add(4 * time.Minute)
	pos, _ := c.Locate(context.Background(), opts)
	if calls != 1 || pos.Latitude != 1 {
		t.Errorf("within max age: calls = %d, lat = %v", calls, pos.Latitude)
	}

	now = now.Add(2 * time.Minute)
	pos, _ = c.Locate(context.Background(), opts)
	if calls != 2 || pos.Latitude != 2 {
		t.Errorf("after max age: calls = %d, lat = %v", calls, pos.Latitude)
	}
}
