// Package converter normalizes language-specific analyzer output into the
// canonical dependency graph defined in package models.
package converter

import (
	"fmt"
	"strings"
)

// GenerateID joins prefix and name with "_", replacing every character of
// name outside [A-Za-z0-9] with "_". Non-ASCII runes become a single "_".
func GenerateID(prefix, name string) string {
	var b strings.Builder
	b.Grow(len(prefix) + 1 + len(name))
	b.WriteString(prefix)
	b.WriteByte('_')

	for _, r := range name {
		if isAlphanumeric(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	return b.String()
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// SimpleName returns the last dot-separated segment of a qualified name,
// e.g. com.sample.book.Book -> Book.
func SimpleName(qualifiedName string) string {
	if qualifiedName == "" {
		return ""
	}
	return qualifiedName[strings.LastIndexByte(qualifiedName, '.')+1:]
}

// idSpace hands out the ids of one conversion run. The first logical key that
// maps to a generated id keeps it; a different key that sanitizes to the same
// id gets a numbered suffix (_2, _3, ...). Asking for the same key twice
// returns the same id.
type idSpace struct {
	byKey  map[string]string
	taken  map[string]struct{}
	suffix map[string]int
}

func newIDSpace() *idSpace {
	return &idSpace{
		byKey:  make(map[string]string),
		taken:  make(map[string]struct{}),
		suffix: make(map[string]int),
	}
}

// claim returns the id for (prefix, name) and whether this call created it.
func (s *idSpace) claim(prefix, name string) (string, bool) {
	key := prefix + "\x00" + name
	if id, ok := s.byKey[key]; ok {
		return id, false
	}

	id := s.allocate(GenerateID(prefix, name))
	s.byKey[key] = id
	return id, true
}

// next returns a fresh id derived from (prefix, name) on every call.
func (s *idSpace) next(prefix, name string) string {
	return s.allocate(GenerateID(prefix, name))
}

func (s *idSpace) allocate(base string) string {
	if _, taken := s.taken[base]; !taken {
		s.taken[base] = struct{}{}
		return base
	}

	n := s.suffix[base]
	if n < 2 {
		n = 2
	}
	for {
		candidate := fmt.Sprintf("%s_%d", base, n)
		n++
		if _, taken := s.taken[candidate]; taken {
			continue
		}
		s.taken[candidate] = struct{}{}
		s.suffix[base] = n
		return candidate
	}
}
