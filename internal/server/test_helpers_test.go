package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/battlewithbytes/lookout/internal/config"
	"github.com/battlewithbytes/lookout/internal/geo"
	"github.com/battlewithbytes/lookout/internal/github"
	"github.com/battlewithbytes/lookout/internal/search"
	"github.com/battlewithbytes/lookout/internal/weather"
)

// fakeUsers answers from a fixed table and counts lookups.
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*github.User
	err   error
	calls int
}

func (f *fakeUsers) User(ctx context.Context, login string) (*github.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[login]; ok {
		return u, nil
	}
	return nil, search.NewError(search.KindNotFound, github.MsgNotFound)
}

func (f *fakeUsers) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeConditions returns one reading for any position and records the last
// position queried.
type fakeConditions struct {
	mu   sync.Mutex
	err  error
	last *geo.Position
}

func (f *fakeConditions) Current(ctx context.Context, pos geo.Position) (*weather.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = &pos
	if f.err != nil {
		return nil, f.err
	}
	r := &weather.Reading{}
	r.Location.Name = "London"
	r.Location.Region = "City of London, Greater London"
	r.Location.Country = "United Kingdom"
	r.Current.TempC = 21.6
	r.Current.FeelsLikeC = 21.4
	r.Current.Humidity = 64
	r.Current.WindKPH = 15.1
	r.Current.VisKM = 10
	r.Current.Condition.Text = "Partly cloudy"
	return r, nil
}

func (f *fakeConditions) queried() *geo.Position {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func octocat() *github.User {
	name := "The Octocat"
	return &github.User{
		Login:       "octocat",
		Name:        &name,
		AvatarURL:   "https://avatars.githubusercontent.com/u/583231",
		HTMLURL:     "https://github.com/octocat",
		PublicRepos: 8,
		Followers:   1234567,
		Following:   9,
		CreatedAt:   "2011-01-25T18:44:36Z",
	}
}

func testConfig() *config.Config {
	return config.Default()
}

type testEnv struct {
	srv        *Server
	users      *fakeUsers
	conditions *fakeConditions
}

func newTestEnv(t *testing.T, cfg *config.Config, opts ...Option) *testEnv {
	t.Helper()
	env := &testEnv{
		users:      &fakeUsers{users: map[string]*github.User{"octocat": octocat()}},
		conditions: &fakeConditions{},
	}
	page := fstest.MapFS{
		"index.html": {Data: []byte("<!doctype html><title>lookout</title>")},
	}
	env.srv = New(cfg, env.users, env.conditions, page, opts...)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return resp
}
