package capability

import "strings"

// Wildcard grants every capability.
const Wildcard = "*"

// Set is the operator's granted capability tags.
type Set map[string]struct{}

// NewSet builds a Set from the session's permission list. Blank tags are
// ignored.
func NewSet(tags []string) Set {
	s := make(Set, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether the exact tag was granted.
func (s Set) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Visible decides whether an item gated by required is visible to the holder
// of granted. An empty required tag means universally visible. Pure and cheap;
// safe to call on every render.
func Visible(required string, granted Set) bool {
	if required == "" {
		return true
	}
	if granted.Has(Wildcard) {
		return true
	}
	return granted.Has(required)
}
