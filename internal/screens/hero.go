// internal/screens/hero.go
// Rotating hero prompt on the home screen.

package screens

import (
	"context"
	"time"
)

var heroPrompts = []string{
	"Найди компанию на обед",
	"Кофе вдвоём вкуснее",
	"Новые знакомства за одним столом",
	"Завтрак с интересным человеком",
	"Рядом кто-то тоже хочет есть",
}

// HeroDisplay shows the current hero prompt.
type HeroDisplay interface {
	SetHero(text string)
}

// RotateHero cycles the prompts until ctx is done. Blocks; run in a
// goroutine.
func RotateHero(ctx context.Context, display HeroDisplay, period time.Duration) {
	if period <= 0 {
		period = 7 * time.Second
	}

	display.SetHero(heroPrompts[0])
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-ticker.C:
			i = (i + 1) % len(heroPrompts)
			display.SetHero(heroPrompts[i])
		case <-ctx.Done():
			return
		}
	}
}
