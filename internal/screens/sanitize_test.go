package screens

import "testing"

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", "home"},
		{"profile", "profile"},
		{"profile?x=1#foo", "profile"},
		{"nearby.html", "nearby"},
		{"nearby.html?ref=menu", "nearby"},
		{"tgWebAppData=query_id%3DAAH", "home"},
		{"index#tgWebAppData=abc", "index"},
		{"../etc", "etc"},
		{"../../", "home"},
		{"my_screen-2", "my_screen-2"},
		{"профиль", "home"},
		{"a b c", "abc"},
	}
	for _, c := range cases {
		if got := SanitizeName(c.raw, "home"); got != c.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}
