package reviews

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meeteat/meeteat-client/internal/api"
)

func TestWidgetToggleOptimistic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.ReviewToggleRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(api.ReviewToggleResponse{OK: true, Action: "added", Reaction: req.Reaction})
	}))
	defer srv.Close()

	svc := NewService(api.NewClient(srv.URL, time.Second))
	widget := NewWidget(svc, 1, 2, api.ReviewsResponse{
		OK:     true,
		Counts: map[string]int{"😊": 3},
	})

	if err := widget.Toggle(context.Background(), "😊"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := widget.Count("😊"); got != 4 {
		t.Fatalf("count = %d, want 4", got)
	}
	if !widget.Selected("😊") {
		t.Fatal("reaction should be selected")
	}
}

func TestWidgetToggleRollsBackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewService(api.NewClient(srv.URL, time.Second))
	widget := NewWidget(svc, 1, 2, api.ReviewsResponse{
		OK:     true,
		Counts: map[string]int{"🧠": 7},
		Viewer: []string{"🧠"},
	})

	if err := widget.Toggle(context.Background(), "🧠"); err == nil {
		t.Fatal("expected toggle to fail")
	}

	// Exact pre-toggle state, not a refetch.
	if got := widget.Count("🧠"); got != 7 {
		t.Fatalf("count = %d, want rollback to 7", got)
	}
	if !widget.Selected("🧠") {
		t.Fatal("selection must roll back to true")
	}
}

func TestToggleRejectsUnknownReaction(t *testing.T) {
	svc := NewService(api.NewClient("http://127.0.0.1:0", time.Second))
	if _, err := svc.Toggle(context.Background(), 1, 2, "🦄"); err == nil {
		t.Fatal("expected unknown reaction to be rejected")
	}
}

func TestCatalogueIsClosed(t *testing.T) {
	if len(Catalogue) != 5 {
		t.Fatalf("catalogue size = %d, want 5", len(Catalogue))
	}
	for _, r := range Catalogue {
		if !Known(r.Emoji) {
			t.Errorf("catalogue entry %q not recognized", r.Emoji)
		}
	}
}
