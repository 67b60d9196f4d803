// internal/session/format.go

package session

import (
	"fmt"
	"time"
)

// FormatRemaining renders a countdown as mm:ss, clamped at 00:00.
// A partial second still counts, so 64.3s remaining shows as 01:05 and the
// first render after activation starts at the full value.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
