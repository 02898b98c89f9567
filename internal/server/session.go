package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/battlewithbytes/lookout/internal/app"
	"github.com/battlewithbytes/lookout/internal/geo"
	"github.com/battlewithbytes/lookout/internal/github"
	"github.com/battlewithbytes/lookout/internal/search"
	"github.com/battlewithbytes/lookout/internal/weather"
)

// Browser GeolocationPositionError codes, plus 0 for a browser without the API.
const (
	geoCodeUnsupported = 0
	geoCodeDenied      = 1
	geoCodeUnavailable = 2
	geoCodeTimeout     = 3
)

// locateGrace is how long a locate request waits beyond its own timeout. The
// browser starts that timeout only once its permission prompt is answered.
const locateGrace = 2 * time.Minute

// clientMessage is anything the browser sends over the session socket.
type clientMessage struct {
	Type        string   `json:"type"`        // search, retry, reset, weather, position
	ID          string   `json:"id,omitempty"` // position: the locate request it answers
	Username    string   `json:"username,omitempty"`
	Geolocation bool     `json:"geolocation,omitempty"` // weather: the browser has the API
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Accuracy    float64  `json:"accuracy,omitempty"`
	GeoError    *int     `json:"geo_error,omitempty"`
}

// locateRequest asks the browser for a position.
type locateRequest struct {
	Type         string `json:"type"`
	ID           string `json:"id"`
	HighAccuracy bool   `json:"high_accuracy"`
	TimeoutMS    int64  `json:"timeout_ms"`
	MaximumAgeMS int64  `json:"maximum_age_ms"`
}

// session is one browser tab: a user finder and a weather reporter whose view
// ports write state events to the socket.
type session struct {
	id       string
	conn     *websocket.Conn
	ctx      context.Context
	finder   *app.UserFinder
	reporter *app.WeatherReporter

	mu        sync.Mutex
	pending   string // id of the outstanding locate request
	positions chan clientMessage
	wg        sync.WaitGroup
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.allowedOriginPatterns(r),
	})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := &session{
		id:        uuid.NewString(),
		conn:      conn,
		ctx:       ctx,
		positions: make(chan clientMessage, 1),
	}
	sess.finder = app.NewUserFinder(s.users, &socketPorts[github.Profile]{sess: sess, app: appUsers})
	sess.reporter = app.NewWeatherReporter(s.conditions, browserLocator{sess: sess, grace: s.locateGrace}, s.locOpts,
		&socketPorts[weather.Report]{sess: sess, app: appWeather})

	log.Printf("[session] %s opened from %s", sess.id, r.RemoteAddr)
	sess.readLoop()
	cancel()
	sess.wg.Wait()
	log.Printf("[session] %s closed", sess.id)
}

func (sess *session) readLoop() {
	for {
		var msg clientMessage
		if err := wsjson.Read(sess.ctx, sess.conn, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && sess.ctx.Err() == nil {
				log.Printf("[session] %s read: %v", sess.id, err)
			}
			return
		}
		sess.dispatch(msg)
	}
}

// dispatch runs an action without blocking the reader, which must stay free
// to receive the position a weather request waits on.
func (sess *session) dispatch(msg clientMessage) {
	switch msg.Type {
	case "search":
		sess.run("search", func(ctx context.Context) error { return sess.finder.Search(ctx, msg.Username) })
	case "retry":
		sess.run("retry", sess.finder.Retry)
	case "reset":
		if err := sess.finder.Reset(); err != nil {
			log.Printf("[session] %s reset: %v", sess.id, err)
		}
	case "weather":
		if !msg.Geolocation {
			sess.run("weather", func(ctx context.Context) error { return sess.reporter.ReportFrom(ctx, nil) })
			return
		}
		sess.run("weather", sess.reporter.Report)
	case "position":
		sess.deliver(msg)
	default:
		log.Printf("[session] %s unknown message type %q", sess.id, msg.Type)
	}
}

func (sess *session) run(action string, fn func(ctx context.Context) error) {
	sess.wg.Add(1)
	go func() {
		defer sess.wg.Done()
		err := fn(sess.ctx)
		var appErr *search.AppError
		switch {
		case err == nil, errors.As(err, &appErr):
			// shown to the browser through the ports
		case errors.Is(err, search.ErrBusy):
			sess.send(map[string]string{"type": "busy", "action": action})
		default:
			log.Printf("[session] %s %s: %v", sess.id, action, err)
		}
	}()
}

// expect makes id the only locate request whose answer is accepted and
// discards anything left over from an earlier one. An empty id accepts none.
func (sess *session) expect(id string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.pending = id
	select {
	case <-sess.positions:
	default:
	}
}

func (sess *session) deliver(msg clientMessage) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if msg.ID == "" || msg.ID != sess.pending {
		log.Printf("[session] %s dropped stale position %q", sess.id, msg.ID)
		return
	}
	select {
	case sess.positions <- msg:
	default:
		log.Printf("[session] %s dropped duplicate position %q", sess.id, msg.ID)
	}
}

// browserLocator asks the browser for a position and waits for its answer.
// The browser applies the timeout itself, so Acquire sets no deadline.
type browserLocator struct {
	sess  *session
	grace time.Duration
}

func (browserLocator) AppliesTimeout() bool { return true }

func (b browserLocator) Locate(ctx context.Context, opts geo.Options) (geo.Position, error) {
	id := uuid.NewString()
	b.sess.expect(id)
	defer b.sess.expect("")

	b.sess.send(locateRequest{
		Type:         "locate",
		ID:           id,
		HighAccuracy: opts.HighAccuracy,
		TimeoutMS:    opts.Timeout.Milliseconds(),
		MaximumAgeMS: opts.MaximumAge.Milliseconds(),
	})

	wait := time.NewTimer(opts.Timeout + b.grace)
	defer wait.Stop()

	select {
	case <-ctx.Done():
		return geo.Position{}, ctx.Err()
	case <-wait.C:
		return geo.Position{}, geo.ErrTimeout
	case msg := <-b.sess.positions:
		return positionFrom(msg)
	}
}

func positionFrom(msg clientMessage) (geo.Position, error) {
	if msg.GeoError != nil {
		switch *msg.GeoError {
		case geoCodeUnsupported:
			return geo.Position{}, geo.ErrUnsupported
		case geoCodeDenied:
			return geo.Position{}, geo.ErrPermissionDenied
		case geoCodeUnavailable:
			return geo.Position{}, geo.ErrPositionUnavailable
		case geoCodeTimeout:
			return geo.Position{}, geo.ErrTimeout
		}
		return geo.Position{}, errors.New("browser geolocation failed")
	}
	if msg.Latitude == nil || msg.Longitude == nil {
		return geo.Position{}, geo.ErrPositionUnavailable
	}
	return geo.Position{
		Latitude:  *msg.Latitude,
		Longitude: *msg.Longitude,
		Accuracy:  msg.Accuracy,
	}, nil
}

func (sess *session) send(v interface{}) {
	if err := wsjson.Write(sess.ctx, sess.conn, v); err != nil && sess.ctx.Err() == nil {
		log.Printf("[session] %s write: %v", sess.id, err)
	}
}

// socketPorts renders controller transitions as state events.
type socketPorts[T any] struct {
	sess *session
	app  string
}

func (p *socketPorts[T]) emit(state search.State, fill func(*stateEvent)) {
	ev := stateEvent{Type: "state", App: p.app, State: state, TriggerEnabled: state != search.Loading}
	if fill != nil {
		fill(&ev)
	}
	p.sess.send(ev)
}

func (p *socketPorts[T]) ShowInitial() { p.emit(search.Initial, nil) }
func (p *socketPorts[T]) ShowLoading() { p.emit(search.Loading, nil) }

func (p *socketPorts[T]) ShowError(err *search.AppError) {
	p.emit(search.Error, func(ev *stateEvent) { ev.Error = newErrorBody(err) })
}

func (p *socketPorts[T]) ShowSuccess(v T) {
	p.emit(search.Success, func(ev *stateEvent) {
		switch r := any(v).(type) {
		case github.Profile:
			ev.Profile = &r
		case weather.Report:
			ev.Report = &r
		}
	})
}

// SetTriggerEnabled is carried on every state event.
func (p *socketPorts[T]) SetTriggerEnabled(bool) {}
