// internal/nearby/format.go

package nearby

import (
	"fmt"
	"math"
)

// FormatDistance renders a candidate distance for display:
// under a kilometer in whole meters, under ten kilometers with one decimal,
// beyond that in whole kilometers.
func FormatDistance(km float64) string {
	if math.IsNaN(km) || math.IsInf(km, 0) || km <= 0 {
		return ""
	}
	switch {
	case km < 1:
		return fmt.Sprintf("%d м", int(math.Round(km*1000)))
	case km < 10:
		return fmt.Sprintf("%.1f км", math.Round(km*10)/10)
	default:
		return fmt.Sprintf("%d км", int(math.Round(km)))
	}
}

// PluralizePeople renders a Russian count of people: 1 человек,
// 2 человека, 5 человек, 21 человека, with the 11-14 exception.
func PluralizePeople(n int) string {
	if n == 1 {
		return "1 человек"
	}
	rem10 := n % 10
	rem100 := n % 100
	if rem10 >= 1 && rem10 <= 4 && !(rem100 >= 11 && rem100 <= 14) {
		return fmt.Sprintf("%d человека", n)
	}
	return fmt.Sprintf("%d человек", n)
}

// CountTitle builds the header line above the nearby card list.
func CountTitle(n int) string {
	return fmt.Sprintf("Рядом - %s готовы обедать", PluralizePeople(n))
}
