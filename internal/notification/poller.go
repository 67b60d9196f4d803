// internal/notification/poller.go
// Periodic notification check. Unread and unseen notifications are
// presented oldest first so a survey precedes its followup. Mark-read is
// best effort: a failed mark never blocks presentation and the local seen
// set still prevents a repeat within this process.

package notification

import (
	"context"
	"log"
	"time"

	"github.com/meeteat/meeteat-client/internal/metrics"
	"github.com/meeteat/meeteat-client/internal/poll"
)

func NewPoller(svc *Service, presenter Presenter, vis poll.Visibility, interval time.Duration) *poll.Poller {
	seen := map[int64]struct{}{}

	run := func(ctx context.Context) error {
		if _, ok := svc.ids.TgID(); !ok {
			return nil
		}
		if !vis.Foreground() {
			return nil
		}

		all, err := svc.Fetch(ctx)
		if err != nil {
			return err
		}

		// Server order is newest first; walk backwards for oldest first.
		for i := len(all) - 1; i >= 0; i-- {
			n := all[i]
			if n.Read {
				continue
			}
			if _, dup := seen[n.ID]; dup {
				continue
			}
			seen[n.ID] = struct{}{}

			Present(presenter, Decode(n.ID, n.Type, n.Payload))
			metrics.RecordNotificationPresented()

			if err := svc.MarkRead(ctx, n.ID); err != nil {
				log.Printf("mark_read %d failed: %v", n.ID, err)
			}
		}
		return nil
	}

	return poll.New("notification", interval, run)
}
