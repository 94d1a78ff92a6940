// Package origins holds the browser origin allow-list shared by the HTTP and
// WebSocket entry points.
package origins

import "strings"

type AllowList struct {
	allowed map[string]struct{}
}

// Parse reads a comma separated list. Blank entries are ignored and trailing
// slashes are stripped, so "https://shop.example/" and "https://shop.example"
// are the same origin.
func Parse(list string) AllowList {
	return New(strings.Split(list, ","))
}

func New(origins []string) AllowList {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if n := Normalize(o); n != "" {
			allowed[n] = struct{}{}
		}
	}
	return AllowList{allowed: allowed}
}

func Normalize(origin string) string {
	return strings.TrimRight(strings.TrimSpace(origin), "/")
}

// Allows reports whether a request carrying origin may proceed. Requests
// without an Origin header do not come from a browser and always pass.
func (l AllowList) Allows(origin string) bool {
	if origin == "" {
		return true
	}
	_, ok := l.allowed[Normalize(origin)]
	return ok
}

// Origins returns the normalised entries.
func (l AllowList) Origins() []string {
	out := make([]string, 0, len(l.allowed))
	for o := range l.allowed {
		out = append(out, o)
	}
	return out
}
