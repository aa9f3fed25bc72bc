package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// updateKeyFields identify one edit event. Entries equal on all of them are
// the same event, whichever file they came from.
var updateKeyFields = [...]string{
	"at",
	"editor",
	"action",
	"section",
	"section_index",
	"question_number",
	"question_index",
}

// Layouts accepted for update timestamps, after a space separator has been
// turned into "T". Zone-less forms are read as UTC. Fractional seconds are
// accepted after any layout with seconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
	"2006-01-02T15Z07:00",
	"2006-01-02T15",
	"2006-01-02",
}

// Key returns the deduplication key of the entry
func (u Update) Key() string {
	vals := make([]any, len(updateKeyFields))
	for i, f := range updateKeyFields {
		vals[i] = u[f]
	}
	k, err := Canonical(vals)
	if err != nil {
		return fmt.Sprint(vals)
	}
	return k
}

// ParseTimestamp parses an ISO-8601 timestamp. A trailing "Z" means UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UpdateLog accumulates section_updates entries from several banks,
// dropping repeats of the same event. The first occurrence is kept.
type UpdateLog struct {
	seen    map[string]struct{}
	entries []Update
}

// NewUpdateLog creates an empty log
func NewUpdateLog() *UpdateLog {
	return &UpdateLog{seen: make(map[string]struct{})}
}

// Add merges the bank's entries and returns how many were new
func (l *UpdateLog) Add(b Bank) int {
	added := 0
	for _, u := range b.Updates() {
		k := u.Key()
		if _, dup := l.seen[k]; dup {
			continue
		}
		l.seen[k] = struct{}{}
		l.entries = append(l.entries, u)
		added++
	}
	return added
}

// Len returns the number of distinct entries
func (l *UpdateLog) Len() int {
	return len(l.entries)
}

// Sorted returns the entries in chronological order. Entries whose
// timestamp does not parse come last, ordered by their raw text.
func (l *UpdateLog) Sorted() []Update {
	type keyed struct {
		u     Update
		raw   string
		at    time.Time
		valid bool
	}

	ks := make([]keyed, len(l.entries))
	for i, u := range l.entries {
		raw := u.At()
		at, ok := ParseTimestamp(raw)
		ks[i] = keyed{u: u, raw: raw, at: at, valid: ok}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.valid && !b.valid:
			return -1
		case !a.valid && b.valid:
			return 1
		case a.valid:
			if c := a.at.Compare(b.at); c != 0 {
				return c
			}
		}
		return strings.Compare(a.raw, b.raw)
	})

	sorted := make([]Update, len(ks))
	for i, k := range ks {
		sorted[i] = k.u
	}
	return sorted
}
