package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// Service defaults
	DefaultBindAddress = "127.0.0.1"
	DefaultPort        = 8089

	// Upstream endpoints
	DefaultGitHubAPIURL  = "https://api.github.com"
	DefaultUserAgent     = "lookout-user-finder"
	DefaultWeatherAPIURL = "https://api.weatherapi.com/v1/current.json"
	DefaultIPAPIURL      = "http://ip-api.com/json/"

	// Location acquisition
	DefaultLocationTimeout    = 10 * time.Second
	DefaultLocationMaximumAge = 5 * time.Minute

	// Weather API key sources, checked after weather.api_key
	WeatherAPIKeyEnv  = "WEATHERAPI_KEY"
	weatherAPIKeyFile = "weatherapi_key"

	// Auth modes
	AuthModeNone     = "none"
	AuthModePassword = "password"

	// Location providers
	LocationProviderIP     = "ip"
	LocationProviderStatic = "static"
	LocationProviderNone   = "none"

	// Location permission
	PermissionAllow  = "allow"
	PermissionDeny   = "deny"
	PermissionPrompt = "prompt"

	// Log rotation
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
)

// DefaultSuggestions are offered by the interactive username prompt.
var DefaultSuggestions = []string{"octocat", "torvalds", "gaearon", "sindresorhus"}

// Dir returns the per-user configuration directory, $XDG_CONFIG_HOME/lookout
// or its platform equivalent.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, "lookout")
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yml")
}
