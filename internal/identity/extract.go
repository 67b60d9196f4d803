// internal/identity/extract.go
// Init-token extraction. The host platform hands the signed init data either
// as a raw query string, embedded in the launch URL as tgWebAppData=, or as
// an already-parsed (less trustworthy) object.

package identity

import (
	"net/url"
	"strings"
)

const webAppDataMarker = "tgWebAppData="

// ParseInnerQuery decodes a query-string-shaped token into key/value pairs.
// A leading "?" or "#" is tolerated. The "user" field stays a JSON string.
func ParseInnerQuery(s string) map[string]string {
	out := map[string]string{}
	if s == "" {
		return out
	}
	if strings.HasPrefix(s, "?") || strings.HasPrefix(s, "#") {
		s = s[1:]
	}
	values, err := url.ParseQuery(s)
	if err != nil {
		return out
	}
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// ExtractWebAppData looks for an embedded tgWebAppData= token in the query,
// fragment, and path of a launch URL, in that order. Returns nil when absent.
func ExtractWebAppData(rawURL string) map[string]string {
	if rawURL == "" {
		return nil
	}

	parts := []string{rawURL}
	if u, err := url.Parse(rawURL); err == nil {
		parts = []string{u.RawQuery, u.Fragment, u.Path}
	}

	for _, part := range parts {
		if data := extractFromPart(part); data != nil {
			return data
		}
	}
	return nil
}

func extractFromPart(s string) map[string]string {
	idx := strings.Index(s, webAppDataMarker)
	if idx == -1 {
		return nil
	}
	tail := s[idx+len(webAppDataMarker):]
	if htmlPos := strings.Index(tail, ".html"); htmlPos != -1 {
		tail = tail[:htmlPos]
	}
	if decoded, err := url.QueryUnescape(tail); err == nil {
		tail = decoded
	}
	data := ParseInnerQuery(tail)
	if len(data) == 0 {
		return nil
	}
	return data
}
