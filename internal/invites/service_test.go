package invites

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

func newTestService(t *testing.T, srvURL string) *Service {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "invites.db"))
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

func TestDefaultMeetingTime(t *testing.T) {
	now := time.Date(2026, 9, 1, 18, 45, 12, 0, time.Local)
	got := DefaultMeetingTime(now)

	want := time.Date(2026, 9, 2, 13, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("DefaultMeetingTime = %v, want %v", got, want)
	}
}

func TestSendFillsDefaultsAndValidates(t *testing.T) {
	var received api.InviteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		json.NewEncoder(w).Encode(api.InviteResponse{OK: true, InviteID: 7})
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	id, err := svc.Send(context.Background(), Compose{ToTgID: 99, MealType: MealLunch})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if id != 7 {
		t.Fatalf("invite id = %d, want 7", id)
	}
	if received.FromTgID != 42 || received.ToTgID != 99 {
		t.Fatalf("wire request: %+v", received)
	}
	if received.TimeISO == "" {
		t.Fatal("default meeting time not applied")
	}

	// Missing recipient is rejected before the network.
	if _, err := svc.Send(context.Background(), Compose{}); err == nil {
		t.Fatal("expected validation error for empty draft")
	}
	// Made-up meal type is rejected too.
	if _, err := svc.Send(context.Background(), Compose{ToTgID: 99, MealType: "Полдник"}); err == nil {
		t.Fatal("expected validation error for unknown meal type")
	}
}

func TestRespondRejectsUnknownAction(t *testing.T) {
	svc := newTestService(t, "http://127.0.0.1:0")
	if err := svc.Respond(context.Background(), 1, "maybe"); err == nil {
		t.Fatal("expected unknown action to be rejected")
	}
}

type recordingPresenter struct {
	mu  sync.Mutex
	ids []int64
}

func (p *recordingPresenter) PresentInvite(inv api.Invite) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, inv.ID)
}

func (p *recordingPresenter) presented() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int64(nil), p.ids...)
}

func TestPollerDeduplicatesAcrossCycles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(api.InvitesResponse{OK: true, Invites: []api.Invite{
			{ID: 1, FromName: "Аня"},
			{ID: 2, FromName: "Боря"},
		}})
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	presenter := &recordingPresenter{}
	p := NewPoller(svc, presenter, poll.Always{}, 20*time.Millisecond, false)

	ctx, cancel := context.WithCancel(context.Background())
	go p.Start(ctx)
	time.Sleep(90 * time.Millisecond)
	cancel()
	p.Stop()

	got := presenter.presented()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("presented = %v, want each invite exactly once", got)
	}
}

func TestPollerFirstOnly(t *testing.T) {
	var mu sync.Mutex
	cycle := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		cycle++
		invs := []api.Invite{{ID: 1}, {ID: 2}, {ID: 3}}
		if cycle > 1 {
			invs = append(invs, api.Invite{ID: 4})
		}
		mu.Unlock()
		json.NewEncoder(w).Encode(api.InvitesResponse{OK: true, Invites: invs})
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	presenter := &recordingPresenter{}
	p := NewPoller(svc, presenter, poll.Always{}, 20*time.Millisecond, true)

	ctx, cancel := context.WithCancel(context.Background())
	go p.Start(ctx)
	time.Sleep(90 * time.Millisecond)
	cancel()
	p.Stop()

	// First cycle marks the whole batch seen and shows only invite 1;
	// invites 2 and 3 never resurface. Invite 4 is genuinely new on a
	// later cycle, so it shows.
	got := presenter.presented()
	if len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Fatalf("presented = %v, want [1 4]", got)
	}
}
