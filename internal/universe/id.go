package universe

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// NewID builds a stable, readable entity id: "<kind>-<slug>-<hash>".
// The hash disambiguates same-named entities across universes.
func NewID(kind, name, salt string) string {
	slug := slugify(name)
	if slug == "" {
		slug = "item"
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(kind + "|" + name + "|" + salt))
	return fmt.Sprintf("%s-%s-%08x", kind, slug, uint32(h.Sum64()&0xffffffff))
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
