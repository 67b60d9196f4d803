// internal/screens/router.go
// Screen routing: fetch a named fragment, swap it in, run the screen's
// initializer, push history. Navigating to the screen already on display is
// a no-op.

package screens

import (
	"context"
	"log"
	"sync"
)

// Fetcher retrieves a screen fragment by name.
type Fetcher interface {
	Fragment(ctx context.Context, name string) (string, error)
}

// Renderer swaps fragments into the display and shows load errors inline.
type Renderer interface {
	Swap(name, fragment string)
	ShowError(name string)
}

// History records navigation so back works. Push is called after a
// successful swap only.
type History interface {
	Push(name string)
}

// Initializer runs after a screen's fragment is on display.
type Initializer func(ctx context.Context)

type Router struct {
	fetcher  Fetcher
	renderer Renderer
	history  History
	home     string

	mu      sync.Mutex
	current string
	inits   map[string]Initializer
}

func NewRouter(fetcher Fetcher, renderer Renderer, history History, home string) *Router {
	if home == "" {
		home = "home"
	}
	return &Router{
		fetcher:  fetcher,
		renderer: renderer,
		history:  history,
		home:     home,
		inits:    map[string]Initializer{},
	}
}

// Register binds an initializer to a screen name. Screens without one are
// plain static fragments.
func (r *Router) Register(name string, init Initializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inits[SanitizeName(name, r.home)] = init
}

// Current returns the screen on display, or "" before the first Load.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Load navigates to a screen. The raw name is sanitized first, so callers
// may pass URLs, paths, or launch residue.
func (r *Router) Load(ctx context.Context, raw string) error {
	return r.navigate(ctx, raw, true)
}

// Back navigates to a screen from history without pushing it again.
func (r *Router) Back(ctx context.Context, raw string) error {
	return r.navigate(ctx, raw, false)
}

func (r *Router) navigate(ctx context.Context, raw string, push bool) error {
	name := SanitizeName(raw, r.home)

	r.mu.Lock()
	if name == r.current {
		r.mu.Unlock()
		return nil
	}
	r.current = name
	init := r.inits[name]
	r.mu.Unlock()

	fragment, err := r.fetcher.Fragment(ctx, name)
	if err != nil {
		log.Printf("screen %q load failed: %v", name, err)
		r.renderer.ShowError(name)
		return err
	}

	r.renderer.Swap(name, fragment)
	if init != nil {
		init(ctx)
	}
	if push {
		r.history.Push(name)
	}
	return nil
}
