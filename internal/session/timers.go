// internal/session/timers.go
// Countdown and refresh loops. Each loop holds the epoch it was started
// under and exits as soon as the engine has moved on. Starting a loop stops
// its predecessor first, so at most one of each runs at a time.

package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/meeteat/meeteat-client/internal/api"
	"github.com/meeteat/meeteat-client/internal/geo"
	"github.com/meeteat/meeteat-client/internal/metrics"
)

type timerHandle struct {
	once sync.Once
	ch   chan struct{}
}

func newTimerHandle() *timerHandle {
	return &timerHandle{ch: make(chan struct{})}
}

func (h *timerHandle) stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.ch) })
}

func (h *timerHandle) done() <-chan struct{} {
	return h.ch
}

func (e *Engine) startCountdown(ep uint64) {
	h := newTimerHandle()
	e.mu.Lock()
	prev := e.countdown
	e.countdown = h
	e.mu.Unlock()
	prev.stop()

	go func() {
		t := time.NewTicker(e.cfg.CountdownTick)
		defer t.Stop()
		if !e.tickCountdown(ep) {
			return
		}
		for {
			select {
			case <-t.C:
				if !e.tickCountdown(ep) {
					return
				}
			case <-h.done():
				return
			}
		}
	}()
}

func (e *Engine) tickCountdown(ep uint64) bool {
	e.mu.Lock()
	if e.epoch != ep || e.state != StateActive {
		e.mu.Unlock()
		return false
	}
	remaining := time.Until(e.expiresAt)
	e.mu.Unlock()

	e.ui.Countdown(FormatRemaining(remaining))
	if remaining <= 0 {
		e.expire(ep)
		return false
	}
	return true
}

func (e *Engine) startRefresh(ep uint64, tgID int64) {
	h := newTimerHandle()
	e.mu.Lock()
	prev := e.refresh
	e.refresh = h
	e.mu.Unlock()
	prev.stop()

	go func() {
		t := time.NewTicker(e.cfg.RefreshInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if !e.tickRefresh(ep, tgID) {
					return
				}
			case <-h.done():
				return
			}
		}
	}()
}

// tickRefresh re-acquires the position (cached fixes tolerated), resubmits
// the session, and refreshes the nearby list. Per-tick failures are logged
// and swallowed; only a state change stops the loop.
func (e *Engine) tickRefresh(ep uint64, tgID int64) bool {
	e.mu.Lock()
	if e.epoch != ep || e.state != StateActive {
		e.mu.Unlock()
		return false
	}
	e.mu.Unlock()

	ctx := context.Background()
	pos, err := geo.Acquire(ctx, e.source, geo.Options{
		HighAccuracy: true,
		MaximumAge:   e.cfg.GeoRefreshAge,
		Timeout:      e.cfg.GeoTimeout,
	})
	if err != nil {
		log.Printf("refresh: geolocation failed: %v", err)
		metrics.RecordGeoFailure(geo.Classify(err).String())
		return true
	}

	var resp api.StartResponse
	if err := e.client.PostJSON(ctx, "/start", api.StartRequest{TgID: tgID, Lat: pos.Lat, Lon: pos.Lon}, &resp); err != nil {
		log.Printf("refresh: resubmit failed: %v", err)
		return true
	}

	e.mu.Lock()
	if e.epoch == ep {
		e.lastPos = pos
	}
	e.mu.Unlock()

	e.nearby.Refresh(ctx, tgID, pos)
	return true
}
