package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/meeteat/meeteat-client/internal/api"
	"github.com/meeteat/meeteat-client/internal/identity"
	"github.com/meeteat/meeteat-client/internal/poll"
	"github.com/meeteat/meeteat-client/internal/storage"
)

type stubPlatform struct{}

func (stubPlatform) InitData() string                  { return "" }
func (stubPlatform) LaunchURL() string                 { return "" }
func (stubPlatform) InitDataUnsafe() map[string]string { return nil }

type safePresenter struct {
	mu    sync.Mutex
	order []int64
}

func (p *safePresenter) record(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.order = append(p.order, id)
}

func (p *safePresenter) ids() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int64(nil), p.order...)
}

func (p *safePresenter) ShowSurvey(v Survey)                 { p.record(v.ID) }
func (p *safePresenter) ShowSurveyFollowup(v SurveyFollowup) { p.record(v.ID) }
func (p *safePresenter) ShowSurveyNegative(v SurveyNegative) { p.record(v.ID) }
func (p *safePresenter) ShowInviteStatus(v InviteStatus)     { p.record(v.ID) }

func newTestService(t *testing.T, srvURL string) *Service {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "notif.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Set(storage.KeyTgID, "42"); err != nil {
		t.Fatalf("seed tg_id: %v", err)
	}

	client := api.NewClient(srvURL, time.Second)
	return NewService(client, identity.NewResolver(client, store, stubPlatform{}))
}

func TestPollerPresentsOldestFirstAndMarksRead(t *testing.T) {
	var mu sync.Mutex
	marked := []int64{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, _ *http.Request) {
		// Newest first, the server's order. 12 is already read.
		json.NewEncoder(w).Encode(api.NotificationsResponse{
			OK: true,
			Notifications: []api.Notification{
				{ID: 13, Type: "survey_followup", Payload: json.RawMessage(`{}`)},
				{ID: 12, Type: "survey", Payload: json.RawMessage(`{}`), Read: true},
				{ID: 11, Type: "survey", Payload: json.RawMessage(`{}`)},
			},
		})
	})
	mux.HandleFunc("/api/notifications/mark_read", func(w http.ResponseWriter, r *http.Request) {
		var req api.MarkReadRequest
		json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		marked = append(marked, req.NotificationID)
		mu.Unlock()
		json.NewEncoder(w).Encode(api.OKResponse{OK: true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	presenter := &safePresenter{}
	p := NewPoller(svc, presenter, poll.Always{}, 30*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go p.Start(ctx)
	time.Sleep(100 * time.Millisecond)
	cancel()
	p.Stop()

	got := presenter.ids()
	// Oldest first, read ones skipped, each presented once across cycles.
	want := []int64{11, 13}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("presented = %v, want %v", got, want)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(marked) != 2 {
		t.Fatalf("marked read %v, want both presented ids", marked)
	}
}

func TestPollerSkipsWhenHidden(t *testing.T) {
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches++
		json.NewEncoder(w).Encode(api.NotificationsResponse{OK: true})
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	p := NewPoller(svc, &safePresenter{}, hidden{}, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go p.Start(ctx)
	time.Sleep(70 * time.Millisecond)
	cancel()
	p.Stop()

	if fetches != 0 {
		t.Fatalf("hidden poller fetched %d times", fetches)
	}
}

type hidden struct{}

func (hidden) Foreground() bool { return false }

func TestMarkReadFailureDoesNotRepeat(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(api.NotificationsResponse{
			OK: true,
			Notifications: []api.Notification{
				{ID: 5, Type: "survey", Payload: json.RawMessage(`{}`)},
			},
		})
	})
	mux.HandleFunc("/api/notifications/mark_read", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	presenter := &safePresenter{}
	p := NewPoller(svc, presenter, poll.Always{}, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go p.Start(ctx)
	time.Sleep(90 * time.Millisecond)
	cancel()
	p.Stop()

	// Several cycles ran, the local seen set still deduplicates.
	if got := presenter.ids(); len(got) != 1 || got[0] != 5 {
		t.Fatalf("presented = %v, want exactly one showing of 5", got)
	}
}
