package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration read from config.yml.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Weather  WeatherConfig  `yaml:"weather"`
	Location LocationConfig `yaml:"location"`
	Service  ServiceConfig  `yaml:"service"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type GitHubConfig struct {
	APIURL      string   `yaml:"api_url"`
	UserAgent   string   `yaml:"user_agent"`
	Suggestions []string `yaml:"suggestions,omitempty"`
}

type WeatherConfig struct {
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"api_key,omitempty"`
}

type LocationConfig struct {
	Provider     string        `yaml:"provider"`
	Permission   string        `yaml:"permission"`
	Latitude     float64       `yaml:"latitude,omitempty"`
	Longitude    float64       `yaml:"longitude,omitempty"`
	IPAPIURL     string        `yaml:"ip_api_url,omitempty"`
	HighAccuracy bool          `yaml:"high_accuracy"`
	Timeout      time.Duration `yaml:"timeout"`
	MaximumAge   time.Duration `yaml:"maximum_age"`
}

type ServiceConfig struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
}

type AuthConfig struct {
	Mode         string `yaml:"mode"`
	PasswordHash string `yaml:"password_hash,omitempty"`
}

type LogConfig struct {
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
}

// Default returns a configuration that works without a config file, except
// for the weather API key which must come from the environment.
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIURL:      DefaultGitHubAPIURL,
			UserAgent:   DefaultUserAgent,
			Suggestions: append([]string(nil), DefaultSuggestions...),
		},
		Weather: WeatherConfig{
			APIURL: DefaultWeatherAPIURL,
		},
		Location: LocationConfig{
			Provider:     LocationProviderIP,
			Permission:   PermissionPrompt,
			IPAPIURL:     DefaultIPAPIURL,
			HighAccuracy: true,
			Timeout:      DefaultLocationTimeout,
			MaximumAge:   DefaultLocationMaximumAge,
		},
		Service: ServiceConfig{
			BindAddress: DefaultBindAddress,
			Port:        DefaultPort,
		},
		Auth: AuthConfig{
			Mode: AuthModeNone,
		},
		Log: LogConfig{
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}

// Load reads a config file over the defaults. A missing file is not an error;
// the defaults are validated and returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Validate checks that all required fields are present and values are in range.
func (c *Config) Validate() error {
	if err := validateHTTPURL("github.api_url", c.GitHub.APIURL); err != nil {
		return err
	}
	if strings.TrimSpace(c.GitHub.UserAgent) == "" {
		return fmt.Errorf("github.user_agent is required")
	}
	if err := validateHTTPURL("weather.api_url", c.Weather.APIURL); err != nil {
		return err
	}

	switch c.Location.Provider {
	case LocationProviderIP:
		if err := validateHTTPURL("location.ip_api_url", c.Location.IPAPIURL); err != nil {
			return err
		}
	case LocationProviderStatic:
		if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
			return fmt.Errorf("location.latitude must be between -90 and 90")
		}
		if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
			return fmt.Errorf("location.longitude must be between -180 and 180")
		}
	case LocationProviderNone:
		// ok
	default:
		return fmt.Errorf("location.provider must be %q, %q, or %q", LocationProviderIP, LocationProviderStatic, LocationProviderNone)
	}

	switch c.Location.Permission {
	case PermissionAllow, PermissionDeny, PermissionPrompt:
		// ok
	default:
		return fmt.Errorf("location.permission must be %q, %q, or %q", PermissionAllow, PermissionDeny, PermissionPrompt)
	}
	if c.Location.Timeout <= 0 {
		return fmt.Errorf("location.timeout must be positive")
	}
	if c.Location.MaximumAge < 0 {
		return fmt.Errorf("location.maximum_age cannot be negative")
	}

	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("service.port must be between 1 and 65535")
	}
	if c.Service.BindAddress == "" {
		return fmt.Errorf("service.bind_address is required")
	}

	switch c.Auth.Mode {
	case AuthModeNone:
		// ok
	case AuthModePassword:
		if c.Auth.PasswordHash == "" {
			return fmt.Errorf("auth.password_hash is required when auth.mode is %q", AuthModePassword)
		}
	default:
		return fmt.Errorf("auth.mode must be %q or %q", AuthModeNone, AuthModePassword)
	}

	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("log.max_size_mb and log.max_backups cannot be negative")
	}

	return nil
}

func validateHTTPURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be a valid http(s) URL", field)
	}
	return nil
}

// WeatherAPIKey resolves the WeatherAPI key: weather.api_key, then the
// WEATHERAPI_KEY environment variable, then the weatherapi_key file in the
// config directory. The key is never compiled in.
// ErrNoWeatherAPIKey is returned by WeatherAPIKey when no source has a key.
var ErrNoWeatherAPIKey = errors.New("weather API key not configured")

func (c *Config) WeatherAPIKey() (string, error) {
	if key := strings.TrimSpace(c.Weather.APIKey); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(os.Getenv(WeatherAPIKeyEnv)); key != "" {
		return key, nil
	}

	keyFile := filepath.Join(Dir(), weatherAPIKeyFile)
	if data, err := os.ReadFile(keyFile); err == nil {
		if key := strings.TrimSpace(string(data)); key != "" {
			return key, nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading API key file: %w", err)
	}

	return "", fmt.Errorf("%w: not found in config, %s, or %s", ErrNoWeatherAPIKey, WeatherAPIKeyEnv, keyFile)
}

// Save writes the config to the given path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
