//go:build e2e

// Package e2e drives the lookout browser page with Playwright against an
// in-process server whose GitHub and WeatherAPI upstreams are local fakes.
//
// These tests require Playwright Chromium:
//
//	go run github.com/playwright-community/playwright-go/cmd/playwright install chromium
//
// Run: go test -tags e2e -v -timeout 180s ./test/e2e
// Visible browser: HEADLESS=false go test -tags e2e -v ./test/e2e
package e2e

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/playwright-community/playwright-go"

	"github.com/battlewithbytes/lookout/internal/config"
	"github.com/battlewithbytes/lookout/internal/github"
	"github.com/battlewithbytes/lookout/internal/server"
	"github.com/battlewithbytes/lookout/internal/weather"
	"github.com/battlewithbytes/lookout/web"
)

var (
	pw      *playwright.Playwright
	browser playwright.Browser
	baseURL string
	expect  = playwright.NewPlaywrightAssertions(5000)
)

const octocatJSON = `{
  "login": "octocat",
  "name": "The Octocat",
  "bio": null,
  "location": "San Francisco",
  "company": "@github",
  "blog": "github.blog",
  "twitter_username": null,
  "avatar_url": "https://avatars.githubusercontent.com/u/583231",
  "html_url": "https://github.com/octocat",
  "public_repos": 8,
  "followers": 1234567,
  "following": 9,
  "created_at": "2011-01-25T18:44:36Z"
}`

const londonJSON = `{
  "location": {"name": "London", "region": "City of London, Greater London", "country": "United Kingdom"},
  "current": {"temp_c": 21.6, "feelslike_c": 23.5, "condition": {"text": "Partly cloudy"}, "humidity": 64, "wind_kph": 15.1, "vis_km": 10}
}`

func fakeGitHub() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/octocat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, octocatJSON)
	})
	mux.HandleFunc("GET /users/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	return mux
}

func fakeWeatherAPI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "e2e-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, londonJSON)
	})
}

// TestMain starts the fakes and the server, then launches the browser.
func TestMain(m *testing.M) {
	gh := httptest.NewServer(fakeGitHub())
	wx := httptest.NewServer(fakeWeatherAPI())

	page, err := web.Static()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: page assets: %v\n", err)
		os.Exit(1)
	}
	srv := server.New(config.Default(),
		github.NewClient(github.ClientConfig{BaseURL: gh.URL}),
		weather.NewClient(weather.ClientConfig{Endpoint: wx.URL + "/v1/current.json", APIKey: "e2e-key"}),
		page,
	)
	app := httptest.NewServer(srv.Handler())
	baseURL = app.URL

	pw, err = playwright.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: playwright.Run: %v\n", err)
		os.Exit(1)
	}

	headless := os.Getenv("HEADLESS") != "false"
	browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args:     []string{"--no-sandbox", "--disable-gpu"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: browser launch: %v\n", err)
		pw.Stop()
		os.Exit(1)
	}

	code := m.Run()

	browser.Close()
	pw.Stop()
	app.Close()
	wx.Close()
	gh.Close()
	os.Exit(code)
}

func TestUserSearch(t *testing.T) {
	page := openPage(t, true)

	fill(t, page, "#username", "octocat")
	click(t, page, "#search-btn")

	card := page.Locator("#users-success")
	assertVisible(t, card, "profile card")
	assertText(t, card.Locator(".followers"), "1.2M")
	assertText(t, card.Locator(".handle"), "@octocat")
	assertText(t, card.Locator(".bio"), "No bio available")
	assertText(t, card.Locator(".joined"), "Joined January 25, 2011")

	website := card.Locator(".details a")
	href, err := website.GetAttribute("href")
	if err != nil || href != "https://github.blog" {
		t.Errorf("website href = %q, err = %v", href, err)
	}

	click(t, page, "#clear-btn")
	assertVisible(t, page.Locator("#users-initial"), "initial slot after clear")
}

func TestUserValidationAndNotFound(t *testing.T) {
	page := openPage(t, true)

	fill(t, page, "#username", "bad--name")
	click(t, page, "#search-btn")
	assertVisible(t, page.Locator("#users-error"), "validation error")
	assertText(t, page.Locator("#users-error .message"), github.MsgUsernameInvalid)

	fill(t, page, "#username", "ghost")
	click(t, page, "#search-btn")
	assertVisible(t, page.Locator("#users-error"), "not found error")
	assertText(t, page.Locator("#users-error .message"), github.MsgNotFound)
}

func TestWeatherWithGeolocation(t *testing.T) {
	page := openPage(t, true)

	assertVisible(t, page.Locator("#weather-initial"), "weather initial slot")
	click(t, page, "#weather-btn")

	card := page.Locator("#weather-success")
	assertVisible(t, card, "weather card")
	assertText(t, card.Locator(".location-name"), "London")
	assertText(t, card.Locator(".temperature"), "22°C")
	assertText(t, card.Locator(".feels-like"), "24°C")
	assertText(t, card.Locator(".coordinates"), "51.5074, -0.1278")
}

func TestWeatherLocationDenied(t *testing.T) {
	page := openPage(t, false)

	assertVisible(t, page.Locator("#weather-initial"), "weather initial slot")
	click(t, page, "#weather-btn")

	assertVisible(t, page.Locator("#weather-error"), "weather error")
	assertText(t, page.Locator("#weather-error .message"), "Location access denied by user.")
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// openPage loads the page in a fresh context, with the geolocation
// permission granted or not.
func openPage(t *testing.T, allowLocation bool) playwright.Page {
	t.Helper()
	opts := playwright.BrowserNewContextOptions{
		Geolocation: &playwright.Geolocation{Latitude: 51.5074, Longitude: -0.1278},
	}
	if allowLocation {
		opts.Permissions = []string{"geolocation"}
	}
	ctx, err := browser.NewContext(opts)
	if err != nil {
		t.Fatalf("browser context: %v", err)
	}
	t.Cleanup(func() { ctx.Close() })

	page, err := ctx.NewPage()
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	if _, err := page.Goto(baseURL+"/", playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(15000),
	}); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	return page
}

func fill(t *testing.T, page playwright.Page, selector, value string) {
	t.Helper()
	if err := page.Locator(selector).Fill(value); err != nil {
		t.Fatalf("fill %s: %v", selector, err)
	}
}

func click(t *testing.T, page playwright.Page, selector string) {
	t.Helper()
	if err := page.Locator(selector).Click(); err != nil {
		t.Fatalf("click %s: %v", selector, err)
	}
}

func assertVisible(t *testing.T, loc playwright.Locator, name string) {
	t.Helper()
	if err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Errorf("%s not visible: %v", name, err)
	}
}

// assertText waits for loc to show exactly want.
func assertText(t *testing.T, loc playwright.Locator, want string) {
	t.Helper()
	if err := expect.Locator(loc).ToHaveText(want); err != nil {
		t.Errorf("text: %v", err)
	}
}
