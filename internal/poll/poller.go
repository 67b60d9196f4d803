// internal/poll/poller.go
// Fixed-interval background poller. One cycle runs immediately on Start,
// then once per tick. An in-flight guard skips the tick when the previous
// cycle is still running, so slow backends never stack cycles.

package poll

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meeteat/meeteat-client/internal/metrics"
)

// Func performs one poll cycle. A returned error counts as a failed cycle
// and is logged; it never stops the poller.
type Func func(ctx context.Context) error

type Poller struct {
	name     string
	interval time.Duration
	run      Func

	inFlight atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

func New(name string, interval time.Duration, run Func) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		run:      run,
		stopCh:   make(chan struct{}),
	}
}

// Start blocks until Stop is called or ctx is done. Run it in a goroutine.
func (p *Poller) Start(ctx context.Context) {
	log.Printf("%s poller started (every %v)", p.name, p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.cycle(ctx)
	for {
		select {
		case <-ticker.C:
			p.cycle(ctx)
		case <-p.stopCh:
			log.Printf("%s poller stopped", p.name)
			return
		case <-ctx.Done():
			log.Printf("%s poller stopped: %v", p.name, ctx.Err())
			return
		}
	}
}

// Stop is idempotent and safe from any goroutine.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

func (p *Poller) cycle(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer p.inFlight.Store(false)

	metrics.RecordPollCycle(p.name)
	if err := p.run(ctx); err != nil {
		metrics.RecordPollFailure(p.name)
		log.Printf("%s poll cycle failed: %v", p.name, err)
	}
}

// Visibility reports whether the app is in the foreground. Pollers that
// drive user-facing prompts skip their cycle while hidden.
type Visibility interface {
	Foreground() bool
}

// Always is a Visibility that never reports hidden.
type Always struct{}

func (Always) Foreground() bool { return true }
