package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Example pairs a rendered sentence with the structured value it came from.
type Example struct {
	Text  string `json:"text" yaml:"text"`
	Value any    `json:"value" yaml:"value"`
}

// Entry is one named sentence type: its schema document and examples.
type Entry struct {
	Name     string
	Document *Document
	Examples []Example
}

// Set is the name-keyed collection of schemas produced by one validator run.
// Names keep the order the set was presented in.
type Set struct {
	names   []string
	entries map[string]Entry
}

// NewSet builds a set from entries, keeping their order. Duplicate or empty
// names are rejected.
func NewSet(entries ...Entry) (*Set, error) {
	set := &Set{entries: make(map[string]Entry, len(entries))}
	for idx, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("schema: set entry %d has an empty name", idx)
		}
		if entry.Document == nil {
			return nil, fmt.Errorf("schema: set entry %q has no document", name)
		}
		if _, exists := set.entries[name]; exists {
			return nil, fmt.Errorf("schema: duplicate set entry %q", name)
		}
		entry.Name = name
		entry.Examples = append([]Example(nil), entry.Examples...)
		set.names = append(set.names, name)
		set.entries[name] = entry
	}
	return set, nil
}

// MustNewSet panics if the set cannot be created. Useful for tests.
func MustNewSet(entries ...Entry) *Set {
	set, err := NewSet(entries...)
	if err != nil {
		panic(err)
	}
	return set
}

// Names returns the entry names in presentation order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Len reports the number of entries.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Get looks up an entry by name.
func (s *Set) Get(name string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	entry, ok := s.entries[name]
	return entry, ok
}

// Has reports whether name is a key of the set.
func (s *Set) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// First returns the first entry name, or "" for an empty set.
func (s *Set) First() string {
	if s == nil || len(s.names) == 0 {
		return ""
	}
	return s.names[0]
}

// ErrExampleNotFound is returned when an example index is out of range.
var ErrExampleNotFound = errors.New("schema: example not found")

// Example returns a deep copy of the idx-th example value for name.
func (s *Set) Example(name string, idx int) (Example, error) {
	entry, ok := s.Get(name)
	if !ok {
		return Example{}, fmt.Errorf("schema: entry %q not found", name)
	}
	if idx < 0 || idx >= len(entry.Examples) {
		return Example{}, fmt.Errorf("%w: %s[%d]", ErrExampleNotFound, name, idx)
	}
	example := entry.Examples[idx]
	return Example{Text: example.Text, Value: cloneAny(example.Value)}, nil
}
