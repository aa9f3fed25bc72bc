package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(at, editor, action string) map[string]any {
	return map[string]any{
		"at":            at,
		"editor":        editor,
		"action":        action,
		"section":       "Quiz",
		"section_index": 1.0,
	}
}

func bankWithUpdates(updates ...any) Bank {
	return Bank{"sections": []any{}, "section_updates": updates}
}

func timestamps(updates []Update) []string {
	out := make([]string, len(updates))
	for i, u := range updates {
		out[i] = u.At()
	}
	return out
}

func TestUpdateLog_DeduplicatesAcrossBanks(t *testing.T) {
	first := update("2024-01-01T00:00:00Z", "amar", "edit_question")
	first["summary"] = "first copy"
	second := update("2024-01-01T00:00:00Z", "amar", "edit_question")
	second["summary"] = "second copy"

	log := NewUpdateLog()
	assert.Equal(t, 1, log.Add(bankWithUpdates(first)))
	assert.Equal(t, 0, log.Add(bankWithUpdates(second)))

	sorted := log.Sorted()
	require.Len(t, sorted, 1)
	assert.Equal(t, "first copy", sorted[0]["summary"], "first occurrence wins")
}

func TestUpdateLog_KeyFieldsDistinguishEntries(t *testing.T) {
	a := update("2024-01-01T00:00:00Z", "amar", "edit_question")
	b := update("2024-01-01T00:00:00Z", "amar", "edit_question")
	b["question_index"] = 3.0
	c := update("2024-01-01T00:00:00Z", "jaspreet", "edit_question")

	log := NewUpdateLog()
	assert.Equal(t, 3, log.Add(bankWithUpdates(a, b, c)))
	assert.Equal(t, 3, log.Len())
}

func TestUpdateLog_MissingAndNullFieldsAreEqual(t *testing.T) {
	a := map[string]any{"at": "2024-01-01", "action": "add_section"}
	b := map[string]any{"at": "2024-01-01", "action": "add_section", "editor": nil}

	log := NewUpdateLog()
	log.Add(bankWithUpdates(a))
	log.Add(bankWithUpdates(b))
	assert.Equal(t, 1, log.Len())
}

func TestUpdateLog_IgnoresMalformedLogs(t *testing.T) {
	log := NewUpdateLog()
	assert.Equal(t, 0, log.Add(Bank{"sections": []any{}, "section_updates": "nope"}))
	assert.Equal(t, 0, log.Add(Bank{"sections": []any{}}))
	assert.Equal(t, 1, log.Add(bankWithUpdates("text", 4.0, update("2024-01-01T00:00:00Z", "a", "x"))))
}

func TestUpdateLog_SortedChronologically(t *testing.T) {
	log := NewUpdateLog()
	log.Add(bankWithUpdates(
		update("not-a-date", "a", "edit_question"),
		update("2024-01-02T00:00:00Z", "a", "edit_question"),
		update("2024-01-01T00:00:00Z", "a", "edit_question"),
	))

	assert.Equal(t, []string{
		"2024-01-01T00:00:00Z",
		"2024-01-02T00:00:00Z",
		"not-a-date",
	}, timestamps(log.Sorted()))
}

func TestUpdateLog_SortComparesInstantsAcrossOffsets(t *testing.T) {
	log := NewUpdateLog()
	log.Add(bankWithUpdates(
		update("2024-01-01T05:00:00+05:00", "a", "x"),
		update("2023-12-31T23:00:00Z", "a", "x"),
		update("2024-01-01T00:30:00", "a", "x"),
	))

	assert.Equal(t, []string{
		"2023-12-31T23:00:00Z",
		"2024-01-01T05:00:00+05:00",
		"2024-01-01T00:30:00",
	}, timestamps(log.Sorted()))
}

func TestUpdateLog_InvalidTimestampsOrderedByRawText(t *testing.T) {
	noTimestamp := map[string]any{"action": "edit_question", "editor": "b"}

	log := NewUpdateLog()
	log.Add(bankWithUpdates(
		update("yesterday", "a", "x"),
		noTimestamp,
		update("2024-03-01T10:00:00.250Z", "a", "x"),
		update("later", "a", "x"),
	))

	assert.Equal(t, []string{
		"2024-03-01T10:00:00.250Z",
		"",
		"later",
		"yesterday",
	}, timestamps(log.Sorted()))
}

func TestUpdateLog_SortIndependentOfInsertionOrder(t *testing.T) {
	entries := []any{
		update("b", "a", "x"),
		update("2024-01-02", "a", "x"),
		update("a", "a", "x"),
		update("2024-01-01T12:00:00Z", "a", "x"),
	}
	reversed := []any{entries[3], entries[2], entries[1], entries[0]}

	forward := NewUpdateLog()
	forward.Add(bankWithUpdates(entries...))
	backward := NewUpdateLog()
	backward.Add(bankWithUpdates(reversed...))

	assert.Equal(t, timestamps(forward.Sorted()), timestamps(backward.Sorted()))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"2024-01-01T00:00:00Z", true},
		{"2024-01-01T00:00:00.123456Z", true},
		{"2024-01-01T00:00:00+05:30", true},
		{"2024-01-01T00:00:00", true},
		{"2024-01-01 08:15:00", true},
		{"2024-01-01", true},
		{"2024-01-01 10:30", true},
		{"2024-01-01T10", true},
		{"2024-01-01 10", true},
		{"2024-01-01T10:30+02:00", true},
		{"2024-01-01 10:30:00.5+0200", true},
		{"2024-01-01T10:30:00+05", true},
		{"", false},
		{"not-a-date", false},
		{"2024-13-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestParseTimestamp_ShortForms(t *testing.T) {
	want := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)

	got, ok := ParseTimestamp("2024-01-01 10:30")
	require.True(t, ok)
	assert.True(t, want.Equal(got))

	got, ok = ParseTimestamp("2024-01-01T12:30+02:00")
	require.True(t, ok)
	assert.True(t, want.Equal(got))

	got, ok = ParseTimestamp("2024-01-01T10")
	require.True(t, ok)
	assert.True(t, want.Add(-30*time.Minute).Equal(got))
}
