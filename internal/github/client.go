package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/battlewithbytes/lookout/internal/search"
)

const (
	// DefaultAPIBase is the public GitHub REST endpoint.
	DefaultAPIBase = "https://api.github.com"
	// DefaultUserAgent identifies the client to GitHub.
	DefaultUserAgent = "lookout-user-finder"

	acceptHeader = "application/vnd.github.v3+json"
)

// User-facing messages for mapped statuses.
const (
	MsgNotFound           = "User not found. Please check the username and try again."
	MsgRateLimited        = "API rate limit exceeded. Please try again later."
	MsgServiceUnavailable = "GitHub servers are temporarily unavailable. Please try again later."
	MsgNetworkUnreachable = "Network error. Please check your internet connection."
)

// ClientConfig holds the parameters for creating a new Client.
type ClientConfig struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// Client is a lightweight, unauthenticated GitHub Users API client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a GitHub API client. Zero-valued fields fall back to the
// public API and default user agent.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultAPIBase
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)
	return c.httpClient.Do(req)
}

// User fetches the public profile for login. Every failure is returned as a
// *search.AppError.
func (c *Client) User(ctx context.Context, login string) (*User, error) {
	resp, err := c.get(ctx, "/users/"+url.PathEscape(login))
	if err != nil {
		return nil, &search.AppError{
			Kind:    search.KindNetworkUnreachable,
			Message: MsgNetworkUnreachable,
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &search.AppError{
			Kind:    search.KindNetworkUnreachable,
			Message: MsgNetworkUnreachable,
			Err:     fmt.Errorf("reading response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classify(resp.StatusCode, body)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, &search.AppError{
			Kind:    search.KindUnknown,
			Status:  resp.StatusCode,
			Message: "Received an unreadable response from GitHub.",
			Err:     fmt.Errorf("parsing response: %w", err),
		}
	}
	return &user, nil
}

// classify maps a non-2xx response onto the error taxonomy.
func classify(status int, body []byte) *search.AppError {
	switch status {
	case http.StatusNotFound:
		return &search.AppError{Kind: search.KindNotFound, Status: status, Message: MsgNotFound}
	case http.StatusForbidden:
		return &search.AppError{Kind: search.KindRateLimited, Status: status, Message: MsgRateLimited}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return &search.AppError{Kind: search.KindServiceUnavailable, Status: status, Message: MsgServiceUnavailable}
	}

	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return search.Unknown(status, apiErr.Message)
	}
	return search.Unknown(status, "")
}
