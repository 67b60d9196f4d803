// internal/screens/sanitize.go

package screens

import "strings"

// SanitizeName reduces a raw screen reference to a safe registry name:
// query and fragment cut off, a trailing .html dropped, anything outside
// [a-zA-Z0-9_-] stripped. Platform launch residue (tgWebAppData) and empty
// results map to home.
func SanitizeName(raw, home string) string {
	name := raw
	if name == "" {
		return home
	}

	name, _, _ = strings.Cut(name, "?")
	name, _, _ = strings.Cut(name, "#")
	name = strings.TrimSuffix(name, ".html")

	if strings.Contains(name, "tgWebAppData") {
		return home
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return home
	}
	return b.String()
}
