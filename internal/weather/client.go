// Package weather fetches current conditions from WeatherAPI.com for a pair
// of coordinates and formats them for display.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/battlewithbytes/lookout/internal/geo"
	"github.com/battlewithbytes/lookout/internal/search"
)

// DefaultEndpoint is the WeatherAPI current-conditions endpoint.
const DefaultEndpoint = "https://api.weatherapi.com/v1/current.json"

const (
	MsgMissingKey         = "Weather API key is not configured. Set weather.api_key or WEATHERAPI_KEY; get a free key from weatherapi.com."
	MsgUnauthorized       = "Invalid API key. Please check your WeatherAPI key."
	MsgBadCoordinates     = "Invalid location coordinates."
	MsgNetworkUnreachable = "Network error. Please check your internet connection."
)

// ClientConfig holds the parameters for creating a new Client.
type ClientConfig struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
}

// Client queries the current-conditions endpoint. The fetch carries no
// timeout of its own; only location acquisition is time-bounded.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a weather client. An empty endpoint falls back to
// DefaultEndpoint.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: cfg.HTTPClient,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c
}

// queryURL builds {endpoint}?key=K&q=LAT,LON&aqi=no.
func (c *Client) queryURL(pos geo.Position) string {
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%skey=%s&q=%s,%s&aqi=no",
		c.endpoint, sep,
		url.QueryEscape(c.apiKey),
		strconv.FormatFloat(pos.Latitude, 'f', -1, 64),
		strconv.FormatFloat(pos.Longitude, 'f', -1, 64))
}

// Current fetches conditions at pos. Every failure is returned as a
// *search.AppError; a missing key fails without contacting the network.
func (c *Client) Current(ctx context.Context, pos geo.Position) (*Reading, error) {
	if c.apiKey == "" {
		return nil, search.NewError(search.KindUnauthorized, MsgMissingKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL(pos), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &search.AppError{Kind: search.KindNetworkUnreachable, Message: MsgNetworkUnreachable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, classify(resp.StatusCode)
	}

	var reading Reading
	if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
		return nil, &search.AppError{
			Kind:    search.KindUnknown,
			Status:  resp.StatusCode,
			Message: "Received an unreadable response from the weather service.",
			Err:     fmt.Errorf("decoding response: %w", err),
		}
	}
	return &reading, nil
}

func classify(status int) *search.AppError {
	switch status {
	case http.StatusUnauthorized:
		return &search.AppError{Kind: search.KindUnauthorized, Status: status, Message: MsgUnauthorized}
	case http.StatusBadRequest:
		return &search.AppError{Kind: search.KindValidationFailed, Status: status, Message: MsgBadCoordinates}
	}
	return search.Unknown(status, fmt.Sprintf("Weather service error: %d", status))
}
