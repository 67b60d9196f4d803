// cmd/client/terminal.go
// Terminal implementations of the presentation interfaces. The engine and
// pollers only ever see the interfaces, so swapping this for a real UI is a
// wiring change.

package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/meeteat/meeteat-client/internal/api"
	"github.com/meeteat/meeteat-client/internal/nearby"
	"github.com/meeteat/meeteat-client/internal/notification"
)

type terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func newTerminal() *terminal {
	return &terminal{out: os.Stdout}
}

func (t *terminal) printf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format+"\n", args...)
}

// session.UI

func (t *terminal) SetSearching(on bool) {
	if on {
		t.printf("[session] searching...")
	}
}

func (t *terminal) SetActive(on bool) {
	if on {
		t.printf("[session] active")
	} else {
		t.printf("[session] idle")
	}
}

func (t *terminal) Hint(text string) {
	if text != "" {
		t.printf("[hint] %s", text)
	}
}

func (t *terminal) Countdown(remaining string) {
	t.printf("[session] осталось %s", remaining)
}

func (t *terminal) ClearCountdown() {}

// nearby.View

func (t *terminal) Searching() {
	t.printf("[nearby] ищем...")
}

func (t *terminal) Results(title string, candidates []api.Candidate) {
	t.printf("[nearby] %s", title)
	for _, c := range candidates {
		dist := nearby.FormatDistance(c.DistanceKm)
		if dist == "" {
			dist = "рядом"
		}
		t.printf("  - %s (@%s) %s", c.Name, c.Username, dist)
	}
}

func (t *terminal) Empty() {
	t.printf("[nearby] Никого рядом не найдено")
}

func (t *terminal) Unavailable() {
	t.printf("[nearby] Ошибка при поиске людей")
}

// invites.Presenter

func (t *terminal) PresentInvite(inv api.Invite) {
	t.printf("[invite] %s зовёт тебя: %s %s (%s)", inv.FromName, inv.MealType, inv.PlaceName, inv.TimeISO)
	if inv.Message != "" {
		t.printf("[invite] «%s»", inv.Message)
	}
	t.printf("[invite] ответить: respond %d accept|decline", inv.ID)
}

// notification.Presenter

func (t *terminal) ShowSurvey(v notification.Survey) {
	t.printf("[survey] Встреча с %s в %s состоялась? survey %d yes|no", v.PartnerName, v.PlaceName, v.InviteID)
}

func (t *terminal) ShowSurveyFollowup(v notification.SurveyFollowup) {
	t.printf("[survey] Оставь реакцию для %s: react %d <эмодзи>", v.PartnerName, v.PartnerTgID)
}

func (t *terminal) ShowSurveyNegative(v notification.SurveyNegative) {
	msg := v.Message
	if msg == "" {
		msg = "Жаль, что не получилось. В следующий раз повезёт!"
	}
	t.printf("[survey] %s", msg)
}

func (t *terminal) ShowInviteStatus(v notification.InviteStatus) {
	t.printf("[invite] %s: %s %s %s - %s", v.ResponderName, v.MealType, v.PlaceName, v.TimeReadable, v.Status)
}

// screens.Renderer

func (t *terminal) Swap(name, fragment string) {
	t.printf("[screen] %s (%d bytes)", name, len(fragment))
}

func (t *terminal) ShowError(name string) {
	t.printf("[screen] не удалось загрузить %q", name)
}

// screens.HeroDisplay

func (t *terminal) SetHero(text string) {
	t.printf("[hero] %s", text)
}

// historyStack is an in-process stand-in for browser history.
type historyStack struct {
	mu    sync.Mutex
	names []string
}

func (h *historyStack) Push(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.names = append(h.names, name)
}

// Pop returns the previous entry, dropping the current one.
func (h *historyStack) Pop() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.names) < 2 {
		return "", false
	}
	h.names = h.names[:len(h.names)-1]
	return h.names[len(h.names)-1], true
}

// envPlatform reads launch parameters from the environment.
type envPlatform struct{}

func (envPlatform) InitData() string {
	return os.Getenv("TG_INIT_DATA")
}

func (envPlatform) LaunchURL() string {
	return os.Getenv("LAUNCH_URL")
}

func (envPlatform) InitDataUnsafe() map[string]string {
	return nil
}
