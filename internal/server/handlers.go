package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/battlewithbytes/lookout/internal/app"
	"github.com/battlewithbytes/lookout/internal/geo"
	"github.com/battlewithbytes/lookout/internal/github"
	"github.com/battlewithbytes/lookout/internal/search"
	"github.com/battlewithbytes/lookout/internal/version"
	"github.com/battlewithbytes/lookout/internal/weather"
)

const (
	appUsers   = "users"
	appWeather = "weather"
)

// errorBody is the wire form of a *search.AppError.
type errorBody struct {
	Kind    search.Kind `json:"kind"`
	Message string      `json:"message"`
	Status  int         `json:"status,omitempty"`
}

func newErrorBody(err *search.AppError) *errorBody {
	if err == nil {
		return nil
	}
	return &errorBody{Kind: err.Kind, Message: err.Message, Status: err.Status}
}

// stateEvent describes one visible state of an app. The websocket session
// sends one per transition; the REST handlers return the settled one.
type stateEvent struct {
	Type           string          `json:"type"`
	App            string          `json:"app"`
	State          search.State    `json:"state"`
	Profile        *github.Profile `json:"profile,omitempty"`
	Report         *weather.Report `json:"report,omitempty"`
	Error          *errorBody      `json:"error,omitempty"`
	TriggerEnabled bool            `json:"trigger_enabled"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps an error kind to the HTTP status the REST API answers with.
func statusFor(kind search.Kind) int {
	switch kind {
	case search.KindValidationFailed:
		return http.StatusBadRequest
	case search.KindNotFound:
		return http.StatusNotFound
	case search.KindRateLimited:
		return http.StatusTooManyRequests
	case search.KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case search.KindLocationFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": version.Version,
		"auth":    s.cfg.Auth.Mode,
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	finder := app.NewUserFinder(s.users, nil)
	if err := finder.Search(r.Context(), r.PathValue("username")); errors.Is(err, search.ErrBusy) {
		writeError(w, http.StatusConflict, "search already in progress")
		return
	}

	ev := stateEvent{Type: "state", App: appUsers, State: finder.State(), TriggerEnabled: true}
	if prof, ok := finder.Profile(); ok {
		ev.Profile = &prof
		writeJSON(w, http.StatusOK, ev)
		return
	}
	appErr := finder.Err()
	ev.Error = newErrorBody(appErr)
	status := http.StatusInternalServerError
	if appErr != nil {
		status = statusFor(appErr.Kind)
	}
	writeJSON(w, status, ev)
}

func (s *Server) handleGetWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("lat") == "" || q.Get("lon") == "" {
		writeError(w, http.StatusBadRequest, "lat and lon are required")
		return
	}
	loc, ok := parseCoordinates(q.Get("lat"), q.Get("lon"))
	if !ok {
		writeError(w, http.StatusBadRequest, weather.MsgBadCoordinates)
		return
	}

	reporter := app.NewWeatherReporter(s.conditions, loc, s.locOpts, nil)
	reporter.Report(r.Context())

	ev := stateEvent{Type: "state", App: appWeather, State: reporter.State(), TriggerEnabled: true}
	if rep, ok := reporter.Current(); ok {
		ev.Report = &rep
		writeJSON(w, http.StatusOK, ev)
		return
	}
	appErr := reporter.Err()
	ev.Error = newErrorBody(appErr)
	status := http.StatusInternalServerError
	if appErr != nil {
		status = statusFor(appErr.Kind)
	}
	writeJSON(w, status, ev)
}

func parseCoordinates(lat, lon string) (geo.Static, bool) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil || la < -90 || la > 90 {
		return geo.Static{}, false
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil || lo < -180 || lo > 180 {
		return geo.Static{}, false
	}
	return geo.Static{Latitude: la, Longitude: lo}, true
}
