// internal/session/engine.go
// Session state machine: Idle -> Searching -> Active -> Idle.
//
// Starting a session joins two concurrent legs, a randomized minimum delay
// and a geolocation acquisition, so the searching animation always runs for
// at least the delay even when the position arrives instantly. An epoch
// counter guards every asynchronous continuation: any transition bumps it,
// and a continuation holding a stale epoch drops its result.

package session

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meeteat/meeteat-client/internal/api"
	"github.com/meeteat/meeteat-client/internal/geo"
	"github.com/meeteat/meeteat-client/internal/identity"
	"github.com/meeteat/meeteat-client/internal/metrics"
)

type State int

const (
	StateIdle State = iota
	StateSearching
	StateActive
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateActive:
		return "active"
	default:
		return "idle"
	}
}

// ErrNotIdle is returned when Start is called while a session is already
// searching or active.
var ErrNotIdle = errors.New("session already searching or active")

const (
	hintIdle      = "Нажми «Хочу есть», чтобы найти людей поблизости"
	hintSearching = "Ищем людей поблизости…"

	// Used when the backend omits or garbles expires_at.
	fallbackSessionTTL = time.Hour
)

// UI receives presentation updates from the engine. Implementations must be
// cheap and non-blocking.
type UI interface {
	SetSearching(on bool)
	SetActive(on bool)
	Hint(text string)
	Countdown(remaining string)
	ClearCountdown()
}

// Refresher re-renders the nearby list for a position. Failures stay inside
// the implementation.
type Refresher interface {
	Refresh(ctx context.Context, tgID int64, pos geo.Position)
}

type Config struct {
	DelayMin        time.Duration
	DelayMax        time.Duration
	GeoTimeout      time.Duration
	GeoRefreshAge   time.Duration
	RefreshInterval time.Duration
	CountdownTick   time.Duration
}

func (c *Config) applyDefaults() {
	if c.DelayMin <= 0 {
		c.DelayMin = 3 * time.Second
	}
	if c.DelayMax < c.DelayMin {
		c.DelayMax = c.DelayMin + 2*time.Second
	}
	if c.GeoTimeout <= 0 {
		c.GeoTimeout = 10 * time.Second
	}
	if c.GeoRefreshAge <= 0 {
		c.GeoRefreshAge = 15 * time.Second
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 30 * time.Second
	}
	if c.CountdownTick <= 0 {
		c.CountdownTick = time.Second
	}
}

type Engine struct {
	cfg    Config
	client *api.Client
	ids    *identity.Resolver
	source geo.Source
	ui     UI
	nearby Refresher

	mu        sync.Mutex
	state     State
	epoch     uint64
	expiresAt time.Time
	lastPos   geo.Position
	refresh   *timerHandle
	countdown *timerHandle
}

func NewEngine(cfg Config, client *api.Client, ids *identity.Resolver, source geo.Source, ui UI, nearby Refresher) *Engine {
	cfg.applyDefaults()
	return &Engine{
		cfg:    cfg,
		client: client,
		ids:    ids,
		source: source,
		ui:     ui,
		nearby: nearby,
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start runs the full searching sequence: resolve identity, hold the
// randomized minimum delay while acquiring a fresh high-accuracy position,
// then register the session with the backend and go active. Identity and
// geolocation failures revert to Idle and are returned for the caller to
// present; use geo.Classify to distinguish denial from timeout.
func (e *Engine) Start(ctx context.Context) error {
	id, err := e.ids.Resolve(ctx)
	if err != nil {
		return err
	}

	ep, err := e.beginSearch()
	if err != nil {
		return err
	}

	e.ui.SetSearching(true)
	e.ui.Hint(hintSearching)

	delay := e.searchDelay()
	var pos geo.Position
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sleepCtx(gctx, delay)
	})
	g.Go(func() error {
		p, err := geo.Acquire(gctx, e.source, geo.Options{
			HighAccuracy: true,
			MaximumAge:   0,
			Timeout:      e.cfg.GeoTimeout,
		})
		if err != nil {
			return err
		}
		pos = p
		return nil
	})
	if err := g.Wait(); err != nil {
		e.abortSearch(ep)
		// The delay leg can fail too (ctx cancellation); only count
		// real geolocation errors.
		var ge *geo.Error
		if errors.As(err, &ge) {
			metrics.RecordGeoFailure(ge.Code.String())
		}
		return err
	}

	return e.activate(ctx, ep, id.TgID, pos)
}

// Resume re-enters an existing backend session without the searching
// theater: silent geolocation, then straight to active. Used on app launch
// when an id is already persisted.
func (e *Engine) Resume(ctx context.Context) error {
	tgID, ok := e.ids.TgID()
	if !ok {
		return identity.ErrNoIdentity
	}

	ep, err := e.beginSearch()
	if err != nil {
		return err
	}

	pos, err := geo.Acquire(ctx, e.source, geo.Options{
		HighAccuracy: true,
		MaximumAge:   e.cfg.GeoRefreshAge,
		Timeout:      e.cfg.GeoTimeout,
	})
	if err != nil {
		e.abortSearch(ep)
		return err
	}

	return e.activate(ctx, ep, tgID, pos)
}

// Stop ends the session. Idempotent: a second call is a no-op. The backend
// is told only on an explicit stop; natural expiry never reaches /stop
// because the server already filters expired sessions out of results.
func (e *Engine) Stop(ctx context.Context) error {
	prev := e.toIdle()
	if prev == StateIdle {
		return nil
	}

	tgID, ok := e.ids.TgID()
	if !ok {
		return nil
	}
	var resp api.OKResponse
	if err := e.client.PostJSON(ctx, "/stop", api.StopRequest{TgID: tgID}, &resp); err != nil {
		log.Printf("stop notify failed: %v", err)
	}
	return nil
}

// HandleForeground reconciles state after the app returns to the
// foreground: re-register the position, refresh the nearby list, and
// restart the update loop. Only relevant while active; all failures are
// logged and swallowed.
func (e *Engine) HandleForeground(ctx context.Context) {
	tgID, ok := e.ids.TgID()
	if !ok {
		return
	}

	e.mu.Lock()
	active := e.state == StateActive
	ep := e.epoch
	e.mu.Unlock()
	if !active {
		return
	}

	pos, err := geo.Acquire(ctx, e.source, geo.Options{
		HighAccuracy: true,
		MaximumAge:   e.cfg.GeoRefreshAge,
		Timeout:      e.cfg.GeoTimeout,
	})
	if err != nil {
		log.Printf("foreground: geolocation failed: %v", err)
		metrics.RecordGeoFailure(geo.Classify(err).String())
		return
	}

	var resp api.StartResponse
	if err := e.client.PostJSON(ctx, "/start", api.StartRequest{TgID: tgID, Lat: pos.Lat, Lon: pos.Lon}, &resp); err != nil {
		log.Printf("foreground: resubmit failed: %v", err)
	}

	e.nearby.Refresh(ctx, tgID, pos)
	e.startRefresh(ep, tgID)
}

func (e *Engine) beginSearch() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateIdle {
		return 0, ErrNotIdle
	}
	e.state = StateSearching
	e.epoch++
	metrics.RecordSessionTransition("idle", "searching")
	return e.epoch, nil
}

// abortSearch rolls a failed search back to Idle. A stale epoch means some
// other transition already won; nothing to do then.
func (e *Engine) abortSearch(ep uint64) {
	e.mu.Lock()
	if e.epoch != ep || e.state != StateSearching {
		e.mu.Unlock()
		return
	}
	e.state = StateIdle
	e.epoch++
	e.mu.Unlock()

	e.ui.SetSearching(false)
	e.ui.Hint(hintIdle)
	metrics.RecordSessionTransition("searching", "idle")
}

func (e *Engine) activate(ctx context.Context, ep uint64, tgID int64, pos geo.Position) error {
	var resp api.StartResponse
	if err := e.client.PostJSON(ctx, "/start", api.StartRequest{TgID: tgID, Lat: pos.Lat, Lon: pos.Lon}, &resp); err != nil {
		e.abortSearch(ep)
		return err
	}

	expires := parseExpiry(resp.ExpiresAt)
	if expires.IsZero() {
		expires = time.Now().Add(fallbackSessionTTL)
	}

	e.mu.Lock()
	if e.epoch != ep {
		// Superseded while the request was in flight; drop the result.
		e.mu.Unlock()
		return nil
	}
	e.state = StateActive
	e.expiresAt = expires
	e.lastPos = pos
	e.mu.Unlock()
	metrics.RecordSessionTransition("searching", "active")

	e.ui.SetSearching(false)
	e.ui.SetActive(true)
	e.ui.Hint("")

	e.nearby.Refresh(ctx, tgID, pos)
	e.startCountdown(ep)
	e.startRefresh(ep, tgID)
	return nil
}

// toIdle performs the shared transition to Idle: bump the epoch, drop both
// timers, reset the UI. Returns the previous state.
func (e *Engine) toIdle() State {
	e.mu.Lock()
	prev := e.state
	if prev == StateIdle {
		e.mu.Unlock()
		return prev
	}
	e.state = StateIdle
	e.epoch++
	e.expiresAt = time.Time{}
	refresh, countdown := e.refresh, e.countdown
	e.refresh, e.countdown = nil, nil
	e.mu.Unlock()

	refresh.stop()
	countdown.stop()

	e.ui.SetSearching(false)
	e.ui.SetActive(false)
	e.ui.ClearCountdown()
	e.ui.Hint(hintIdle)
	metrics.RecordSessionTransition(prev.String(), "idle")
	return prev
}

// expire handles the countdown reaching zero. No /stop call: the backend
// expires the session on its own via expires_at filtering.
func (e *Engine) expire(ep uint64) {
	e.mu.Lock()
	stale := e.epoch != ep || e.state != StateActive
	e.mu.Unlock()
	if stale {
		return
	}
	log.Printf("session expired")
	e.toIdle()
}

func (e *Engine) searchDelay() time.Duration {
	min, max := e.cfg.DelayMin, e.cfg.DelayMax
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// parseExpiry accepts RFC 3339 with or without sub-second precision, and a
// bare ISO timestamp which is treated as UTC.
func parseExpiry(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
