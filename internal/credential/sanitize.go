package credential

import (
	"strings"
)

// cookieAttrs are the Set-Cookie attributes that must not leak into a
// stored credential; only name=value pairs are retained.
var cookieAttrs = map[string]bool{
	"path":     true,
	"domain":   true,
	"expires":  true,
	"max-age":  true,
	"httponly": true,
	"secure":   true,
	"samesite": true,
}

// Sanitize reduces a raw cookie line to its name=value pairs.
//
// Multi-attribute Set-Cookie-style input such as
// "a=1; Path=/; HttpOnly; b=2; Secure" becomes "a=1; b=2". Flag-only
// segments are dropped along with the known attributes.
func Sanitize(raw string) string {
	var pairs []string
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, _, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		if cookieAttrs[strings.ToLower(strings.TrimSpace(name))] {
			continue
		}
		pairs = append(pairs, part)
	}
	return strings.Join(pairs, "; ")
}

// JoinCookies sanitizes each Set-Cookie header value and joins the
// surviving pairs into one Cookie-header-ready credential line.
func JoinCookies(setCookies []string) string {
	var pairs []string
	for _, c := range setCookies {
		if clean := Sanitize(c); clean != "" {
			pairs = append(pairs, clean)
		}
	}
	return strings.Join(pairs, "; ")
}
