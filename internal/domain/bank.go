package domain

import (
	"fmt"

	"github.com/mitchellh/copystructure"
)

// JSON keys of a question bank document
const (
	KeySections  = "sections"
	KeyQuestions = "questions"
	KeyTitle     = "title"
	KeyUpdates   = "section_updates"
)

// Bank is a parsed question bank document. Only sections and
// section_updates are interpreted; every other top-level field is carried
// through a merge untouched.
type Bank map[string]any

// Section is a titled group of questions inside a Bank
type Section map[string]any

// Update is one entry of a bank's section_updates audit log
type Update map[string]any

// Sections returns the bank's sections in document order. Elements that are
// not JSON objects are skipped; ValidateShape rules those out beforehand.
func (b Bank) Sections() []Section {
	raw, _ := b[KeySections].([]any)
	sections := make([]Section, 0, len(raw))
	for _, v := range raw {
		if m, ok := asObject(v); ok {
			sections = append(sections, Section(m))
		}
	}
	return sections
}

// Updates returns the bank's section_updates entries. A missing or
// non-array log yields nil and non-object entries are skipped.
func (b Bank) Updates() []Update {
	raw, ok := b[KeyUpdates].([]any)
	if !ok {
		return nil
	}
	updates := make([]Update, 0, len(raw))
	for _, v := range raw {
		if m, ok := asObject(v); ok {
			updates = append(updates, Update(m))
		}
	}
	return updates
}

// HasDeleteMarker reports whether any update entry records a section
// deletion. Only banks carrying such a marker may delete sections on merge.
func (b Bank) HasDeleteMarker() bool {
	for _, u := range b.Updates() {
		if u.Action() == ActionDeleteSection {
			return true
		}
	}
	return false
}

// Title returns the section's bilingual title
func (s Section) Title() Title {
	return ParseTitle(s[KeyTitle])
}

// ID returns the section's stable identifier
func (s Section) ID() string {
	return SectionID(s.Title())
}

// Questions returns the section's entries, which are opaque to the merge
func (s Section) Questions() []any {
	q, _ := s[KeyQuestions].([]any)
	return q
}

// Action returns the entry's action kind, or "" when absent or not a string
func (u Update) Action() string {
	a, _ := u["action"].(string)
	return a
}

// At returns the raw timestamp text of the entry
func (u Update) At() string {
	return jsText(u["at"])
}

// CloneBank returns a deep copy of b that shares no mutable structure with it.
func CloneBank(b Bank) (Bank, error) {
	if b == nil {
		return nil, nil
	}
	c, err := copystructure.Copy(map[string]any(b))
	if err != nil {
		return nil, fmt.Errorf("clone bank: %w", err)
	}
	m, ok := c.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("clone bank: unexpected copy type %T", c)
	}
	return Bank(m), nil
}

// asObject unwraps any of the map-backed document types into a plain map
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Bank:
		return m, true
	case Section:
		return m, true
	case Update:
		return m, true
	default:
		return nil, false
	}
}
