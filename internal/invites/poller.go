// internal/invites/poller.go
// Periodic check for incoming invites. Every new id is marked seen each
// cycle, and in first-only mode just the first of them is presented; the
// rest are considered handled and never surface later. Hidden app means no
// cycle at all, so nothing is marked seen while the user cannot look at it.

package invites

import (
	"context"
	"time"

	"github.com/meeteat/meeteat-client/internal/api"
	"github.com/meeteat/meeteat-client/internal/metrics"
	"github.com/meeteat/meeteat-client/internal/poll"
)

// Presenter shows an incoming invite prompt.
type Presenter interface {
	PresentInvite(inv api.Invite)
}

// NewPoller builds the invite poller. With firstOnly set, only the first
// unseen invite of a cycle is surfaced; the rest wait for later cycles.
func NewPoller(svc *Service, presenter Presenter, vis poll.Visibility, interval time.Duration, firstOnly bool) *poll.Poller {
	seen := map[int64]struct{}{}

	run := func(ctx context.Context) error {
		if _, ok := svc.ids.TgID(); !ok {
			return nil
		}
		if !vis.Foreground() {
			return nil
		}

		incoming, err := svc.Incoming(ctx)
		if err != nil {
			return err
		}
		presented := false
		for _, inv := range incoming {
			if _, dup := seen[inv.ID]; dup {
				continue
			}
			seen[inv.ID] = struct{}{}
			if firstOnly && presented {
				continue
			}
			presenter.PresentInvite(inv)
			metrics.RecordInvitePresented()
			presented = true
		}
		return nil
	}

	return poll.New("invite", interval, run)
}
