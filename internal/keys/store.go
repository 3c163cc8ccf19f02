// Package keys holds the access key set used by the content codec and the
// sources it is populated from.
package keys

import (
	"maps"
	"slices"
)

// Store maps key ids (e.g. "9.3.0_live") to base64 key material.
// It is immutable after construction and safe for concurrent reads.
type Store struct {
	entries map[string]string
}

// NewStore создаёт Store из копии entries.
func NewStore(entries map[string]string) *Store {
	return &Store{entries: maps.Clone(entries)}
}

// Lookup возвращает key material по id.
func (s *Store) Lookup(id string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.entries[id]
	return v, ok
}

// IDs возвращает все key id в отсортированном порядке.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.entries))
}

// Len returns the number of keys.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}
