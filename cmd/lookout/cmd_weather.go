package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/lookout/internal/app"
	"github.com/battlewithbytes/lookout/internal/config"
	"github.com/battlewithbytes/lookout/internal/geo"
	"github.com/battlewithbytes/lookout/internal/prompt"
	"github.com/battlewithbytes/lookout/internal/ui"
	"github.com/battlewithbytes/lookout/internal/weather"
)

var (
	weatherLat     float64
	weatherLon     float64
	weatherTimeout time.Duration
	weatherYes     bool
)

func init() {
	weatherCmd.Flags().Float64Var(&weatherLat, "lat", 0, "latitude (skips location lookup, requires --lon)")
	weatherCmd.Flags().Float64Var(&weatherLon, "lon", 0, "longitude (skips location lookup, requires --lat)")
	weatherCmd.Flags().DurationVar(&weatherTimeout, "timeout", 0, "location lookup timeout (default from config)")
	weatherCmd.Flags().BoolVarP(&weatherYes, "yes", "y", false, "allow the location lookup without asking")
	weatherCmd.MarkFlagsRequiredTogether("lat", "lon")
	rootCmd.AddCommand(weatherCmd)
}

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show the current weather where you are",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := weatherKey(cfg)
		if err != nil {
			return err
		}
		client := weather.NewClient(weather.ClientConfig{
			Endpoint: cfg.Weather.APIURL,
			APIKey:   key,
		})

		opts := geo.Options{
			HighAccuracy: cfg.Location.HighAccuracy,
			Timeout:      cfg.Location.Timeout,
			MaximumAge:   cfg.Location.MaximumAge,
		}
		if weatherTimeout > 0 {
			opts.Timeout = weatherTimeout
		}

		locator, err := buildLocator(cmd.Context(), cfg.Location, cmd.Flags().Changed("lat"))
		if err != nil {
			return formErr(err)
		}
		ports := ui.NewWeatherPorts(os.Stdout, ui.NewTheme(ui.Renderer))
		reporter := app.NewWeatherReporter(client, locator, opts, ports)

		err = reporter.Report(cmd.Context())
		for err != nil && interactive() {
			retry, perr := confirmRetry(cmd.Context())
			if perr != nil {
				return formErr(perr)
			}
			if !retry {
				break
			}
			err = reporter.Report(cmd.Context())
		}
		return err
	},
}

// weatherKey resolves the API key. A missing key is left to the client, which
// reports it as an Unauthorized failure; any other error is returned.
func weatherKey(c *config.Config) (string, error) {
	key, err := c.WeatherAPIKey()
	if err != nil && !errors.Is(err, config.ErrNoWeatherAPIKey) {
		return "", err
	}
	return key, nil
}

// buildLocator picks the location source. Explicit coordinates win over the
// configured provider and need no consent. A prompt permission is asked here,
// before the lookup starts, so the question does not eat into its timeout;
// without a terminal it counts as denied.
func buildLocator(ctx context.Context, lc config.LocationConfig, explicit bool) (geo.Locator, error) {
	if explicit {
		return geo.Static{Latitude: weatherLat, Longitude: weatherLon}, nil
	}

	var loc geo.Locator
	switch lc.Provider {
	case config.LocationProviderStatic:
		return geo.Static{Latitude: lc.Latitude, Longitude: lc.Longitude}, nil
	case config.LocationProviderIP:
		loc = &geo.IPLocator{URL: lc.IPAPIURL}
	default:
		return nil, nil
	}

	consent := &geo.Consent{Locator: loc, Permission: lc.Permission}
	if weatherYes {
		consent.Permission = geo.PermissionAllow
	}
	if consent.Permission == geo.PermissionPrompt && interactive() {
		allow, err := prompt.AskLocationConsent(ctx)
		if err != nil {
			return nil, err
		}
		consent.Permission = geo.PermissionDeny
		if allow {
			consent.Permission = geo.PermissionAllow
		}
	}
	return &geo.Cached{Locator: consent}, nil
}

func confirmRetry(ctx context.Context) (bool, error) {
	retry := false
	if err := prompt.RetryForm(&retry).RunWithContext(ctx); err != nil {
		return false, err
	}
	return retry, nil
}
