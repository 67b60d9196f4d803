// internal/reviews/widget.go
// Optimistic reaction widget state. Toggle flips the local count and
// selection immediately, then confirms with the server; on failure the
// exact pre-toggle values come back, not a refetch.

package reviews

import (
	"context"
	"sync"

	"github.com/meeteat/meeteat-client/internal/api"
)

type Widget struct {
	svc          *Service
	reviewerTgID int64
	targetTgID   int64

	mu       sync.Mutex
	counts   map[string]int
	selected map[string]bool
}

// NewWidget seeds the widget from a fetched aggregate.
func NewWidget(svc *Service, reviewerTgID, targetTgID int64, state api.ReviewsResponse) *Widget {
	counts := map[string]int{}
	for emoji, n := range state.Counts {
		counts[emoji] = n
	}
	selected := map[string]bool{}
	for _, emoji := range state.Viewer {
		selected[emoji] = true
	}
	return &Widget{
		svc:          svc,
		reviewerTgID: reviewerTgID,
		targetTgID:   targetTgID,
		counts:       counts,
		selected:     selected,
	}
}

// Count returns the displayed count for a reaction.
func (w *Widget) Count(emoji string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.counts[emoji]
}

// Selected reports whether the viewer currently has the reaction set.
func (w *Widget) Selected(emoji string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected[emoji]
}

// Toggle applies the optimistic flip, confirms with the server, and rolls
// back to the exact prior state when the request fails.
func (w *Widget) Toggle(ctx context.Context, emoji string) error {
	w.mu.Lock()
	prevCount := w.counts[emoji]
	prevSelected := w.selected[emoji]
	if prevSelected {
		w.counts[emoji] = prevCount - 1
		w.selected[emoji] = false
	} else {
		w.counts[emoji] = prevCount + 1
		w.selected[emoji] = true
	}
	w.mu.Unlock()

	added, err := w.svc.Toggle(ctx, w.reviewerTgID, w.targetTgID, emoji)
	if err != nil {
		w.mu.Lock()
		w.counts[emoji] = prevCount
		w.selected[emoji] = prevSelected
		w.mu.Unlock()
		return err
	}

	// The server is authoritative on direction; reconcile if it disagrees.
	w.mu.Lock()
	if added != w.selected[emoji] {
		w.selected[emoji] = added
		if added {
			w.counts[emoji] = prevCount + 1
		} else {
			w.counts[emoji] = prevCount - 1
		}
	}
	w.mu.Unlock()
	return nil
}
