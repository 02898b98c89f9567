package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/battlewithbytes/lookout/internal/geo"
	"github.com/battlewithbytes/lookout/internal/github"
	"github.com/battlewithbytes/lookout/internal/search"
	"github.com/battlewithbytes/lookout/internal/weather"
)

// recorder implements search.Ports for any payload and logs state names.
type recorder[T any] struct {
	states []string
	last   T
	err    *search.AppError
}

func (r *recorder[T]) ShowInitial()                  { r.states = append(r.states, "initial") }
func (r *recorder[T]) ShowLoading()                  { r.states = append(r.states, "loading") }
func (r *recorder[T]) ShowSuccess(v T)               { r.states = append(r.states, "success"); r.last = v }
func (r *recorder[T]) ShowError(e *search.AppError)  { r.states = append(r.states, "error"); r.err = e }
func (r *recorder[T]) SetTriggerEnabled(bool)        {}

// fakeUsers returns canned users and records every lookup.
type fakeUsers struct {
	users map[string]*github.User
	err   error
	calls []string
}

func (f *fakeUsers) User(ctx context.Context, login string) (*github.User, error) {
	f.calls = append(f.calls, login)
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[login]
	if !ok {
		return nil, &search.AppError{Kind: search.KindNotFound, Status: 404, Message: github.MsgNotFound}
	}
	return u, nil
}

func TestUserFinderScenario(t *testing.T) {
	users := &fakeUsers{users: map[string]*github.User{
		"octo-cat": {Login: "octo-cat", PublicRepos: 1234567},
	}}
	ports := &recorder[github.Profile]{}
	f := NewUserFinder(users, ports)

	if err := f.Search(context.Background(), "octo-cat"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !reflect.DeepEqual(ports.states, []string{"initial", "loading", "success"}) {
		t.Errorf("states = %v", ports.states)
	}
	if ports.last.Repos != "1.2M" {
		t.Errorf("repos = %q, want 1.2M", ports.last.Repos)
	}
	if p, ok := f.Profile(); !ok || p.Login != "octo-cat" {
		t.Errorf("Profile = %+v, %v", p, ok)
	}
}

func TestUserFinderValidationShortCircuits(t *testing.T) {
	users := &fakeUsers{}
	ports := &recorder[github.Profile]{}
	f := NewUserFinder(users, ports)

	err := f.Search(context.Background(), "bad--name")
	if !errors.Is(err, &search.AppError{Kind: search.KindValidationFailed}) {
		t.Fatalf("err = %v", err)
	}
	if len(users.calls) != 0 {
		t.Errorf("lookup called %v, want no calls", users.calls)
	}
	if !reflect.DeepEqual(ports.states, []string{"initial", "error"}) {
		t.Errorf("states = %v", ports.states)
	}

	f.Search(context.Background(), "   ")
	if f.Err().Message != github.MsgUsernameRequired {
		t.Errorf("message = %q", f.Err().Message)
	}
}

func TestUserFinderNotFoundThenRetry(t *testing.T) {
	users := &fakeUsers{users: map[string]*github.User{}}
	ports := &recorder[github.Profile]{}
	f := NewUserFinder(users, ports)

	f.Search(context.Background(), "ghost")
	if f.State() != search.Error || f.Err().Message != github.MsgNotFound {
		t.Fatalf("state = %s err = %v", f.State(), f.Err())
	}

	users.users["ghost"] = &github.User{Login: "ghost"}
	if err := f.Retry(context.Background()); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	want := []string{"initial", "loading", "error", "loading", "success"}
	if !reflect.DeepEqual(ports.states, want) {
		t.Errorf("states = %v, want %v", ports.states, want)
	}
	if !reflect.DeepEqual(users.calls, []string{"ghost", "ghost"}) {
		t.Errorf("calls = %v", users.calls)
	}
}

func TestUserFinderReset(t *testing.T) {
	users := &fakeUsers{users: map[string]*github.User{"octocat": {Login: "octocat"}}}
	ports := &recorder[github.Profile]{}
	f := NewUserFinder(users, ports)

	f.Search(context.Background(), "octocat")
	if err := f.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if f.State() != search.Initial {
		t.Errorf("state = %s", f.State())
	}
	if _, ok := f.Profile(); ok {
		t.Error("profile should be discarded after reset")
	}
}

// fakeConditions counts HTTP-equivalent calls.
type fakeConditions struct {
	reading *weather.Reading
	err     error
	calls   int
	lastPos geo.Position
}

func (f *fakeConditions) Current(ctx context.Context, pos geo.Position) (*weather.Reading, error) {
	f.calls++
	f.lastPos = pos
	return f.reading, f.err
}

func TestWeatherReporterSuccess(t *testing.T) {
	cond := &fakeConditions{reading: &weather.Reading{
		Location: weather.Location{Name: "London", Country: "United Kingdom", Region: "Greater London"},
		Current:  weather.Current{TempC: 21.6, Humidity: 40, Condition: weather.Condition{Text: "Sunny"}},
	}}
	ports := &recorder[weather.Report]{}
	w := NewWeatherReporter(cond, geo.Static{Latitude: 51.5, Longitude: -0.12}, geo.DefaultOptions(), ports)

	if err := w.Report(context.Background()); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if !reflect.DeepEqual(ports.states, []string{"initial", "loading", "success"}) {
		t.Errorf("states = %v", ports.states)
	}
	if ports.last.Temperature != 22 || ports.last.Coordinates != "51.5000, -0.1200" {
		t.Errorf("report = %+v", ports.last)
	}
	if cond.lastPos.Latitude != 51.5 {
		t.Errorf("queried %+v", cond.lastPos)
	}
}

func TestWeatherReporterDeniedMakesNoHTTPCall(t *testing.T) {
	cond := &fakeConditions{}
	ports := &recorder[weather.Report]{}
	denied := &geo.Consent{Locator: geo.Static{}, Permission: geo.PermissionDeny}
	w := NewWeatherReporter(cond, denied, geo.DefaultOptions(), ports)

	w.Report(context.Background())
	if w.State() != search.Error {
		t.Fatalf("state = %s", w.State())
	}
	if w.Err().Message != "Location access denied by user." {
		t.Errorf("message = %q", w.Err().Message)
	}
	if cond.calls != 0 {
		t.Errorf("weather fetched %d times, want 0", cond.calls)
	}
}

func TestWeatherReporterNoCapability(t *testing.T) {
	cond := &fakeConditions{}
	ports := &recorder[weather.Report]{}
	w := NewWeatherReporter(cond, nil, geo.DefaultOptions(), ports)

	err := w.Report(context.Background())
	if !errors.Is(err, geo.ErrUnsupported) {
		t.Fatalf("err = %v", err)
	}
	if w.Err().Kind != search.KindNetworkUnreachable {
		t.Errorf("kind = %s", w.Err().Kind)
	}
	if !reflect.DeepEqual(ports.states, []string{"initial", "error"}) {
		t.Errorf("states = %v, Loading must be skipped", ports.states)
	}
	if cond.calls != 0 {
		t.Errorf("weather fetched %d times", cond.calls)
	}
}

func TestWeatherReporterFetchErrorThenRetry(t *testing.T) {
	cond := &fakeConditions{err: &search.AppError{Kind: search.KindUnauthorized, Status: 401, Message: weather.MsgUnauthorized}}
	ports := &recorder[weather.Report]{}
	w := NewWeatherReporter(cond, geo.Static{}, geo.DefaultOptions(), ports)

	w.Report(context.Background())
	if w.Err() == nil || w.Err().Kind != search.KindUnauthorized {
		t.Fatalf("err = %v", w.Err())
	}

	cond.err = nil
	cond.reading = &weather.Reading{}
	if err := w.Report(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	want := []string{"initial", "loading", "error", "loading", "success"}
	if !reflect.DeepEqual(ports.states, want) {
		t.Errorf("states = %v", ports.states)
	}
}
