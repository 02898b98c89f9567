package app

import (
	"context"

	"github.com/battlewithbytes/lookout/internal/geo"
	"github.com/battlewithbytes/lookout/internal/search"
	"github.com/battlewithbytes/lookout/internal/weather"
)

// ConditionsLookup fetches current conditions. *weather.Client satisfies it.
type ConditionsLookup interface {
	Current(ctx context.Context, pos geo.Position) (*weather.Reading, error)
}

// WeatherReporter resolves the host position to a rendered weather report.
type WeatherReporter struct {
	ctrl    *search.Controller[weather.Report]
	lookup  ConditionsLookup
	locator geo.Locator
	opts    geo.Options
}

// NewWeatherReporter creates a reporter. A nil locator means the host has no
// location capability; every report then fails before entering Loading.
func NewWeatherReporter(lookup ConditionsLookup, locator geo.Locator, opts geo.Options, ports search.Ports[weather.Report]) *WeatherReporter {
	return &WeatherReporter{
		ctrl:    search.NewController(ports),
		lookup:  lookup,
		locator: locator,
		opts:    opts,
	}
}

// Report acquires the position, then fetches and shows the conditions there.
// Calling it again from the Error state is the retry action.
func (w *WeatherReporter) Report(ctx context.Context) error {
	return w.ReportFrom(ctx, w.locator)
}

// ReportFrom is Report with a caller-supplied location source, used when the
// position comes from a remote client rather than this host.
func (w *WeatherReporter) ReportFrom(ctx context.Context, loc geo.Locator) error {
	if w.ctrl.State() == search.Loading {
		return search.ErrBusy
	}
	if loc == nil {
		appErr := geo.Classify(geo.ErrUnsupported)
		if err := w.ctrl.Reject(appErr); err != nil {
			return err
		}
		return appErr
	}

	return w.ctrl.Do(ctx, func(ctx context.Context) (weather.Report, error) {
		pos, err := geo.Acquire(ctx, loc, w.opts)
		if err != nil {
			return weather.Report{}, geo.Classify(err)
		}
		reading, err := w.lookup.Current(ctx, pos)
		if err != nil {
			return weather.Report{}, err
		}
		return weather.NewReport(reading, pos), nil
	})
}

// State returns the visible state.
func (w *WeatherReporter) State() search.State { return w.ctrl.State() }

// Current returns the shown report when in Success.
func (w *WeatherReporter) Current() (weather.Report, bool) { return w.ctrl.Result() }

// Err returns the shown error when in Error.
func (w *WeatherReporter) Err() *search.AppError { return w.ctrl.Err() }
