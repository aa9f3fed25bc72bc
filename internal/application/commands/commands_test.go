package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbmerge/internal/application"
	"qbmerge/internal/domain"
)

func TestSectionIDCommand_Execute(t *testing.T) {
	tests := []struct {
		name      string
		en, pa    string
		wantID    string
		wantTitle string
	}{
		{name: "english", en: "Intro", wantID: "sec_jkrvjk", wantTitle: "Intro"},
		{name: "whitespace and case", en: "  INTRO ", wantID: "sec_jkrvjk", wantTitle: "INTRO"},
		{name: "bilingual", en: "Gurus", pa: "ਗੁਰੂ", wantID: "sec_l4fek6", wantTitle: "Gurus / ਗੁਰੂ"},
		{name: "empty", wantID: "sec_3g", wantTitle: domain.UntitledSection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewSectionIDCommand(tt.en, tt.pa).Execute(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, result.ID)
			assert.Equal(t, tt.wantTitle, result.Title)
		})
	}
}

func TestValidateCommand_Execute(t *testing.T) {
	repo := newMemRepo()
	repo.banks["good.json"] = bank(section("Intro", "q1", "q2"), section("Quiz", "q3"))
	repo.banks["good.json"]["section_updates"] = []any{map[string]any{"action": "edit_question"}}
	repo.banks["bad.json"] = domain.Bank{"sections": []any{map[string]any{"title": "x"}}}

	result, err := NewValidateCommand(repo, []string{"good.json", "bad.json", "missing.json"}).Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.True(t, result.Files[0].OK())
	assert.Equal(t, 2, result.Files[0].Sections)
	assert.Equal(t, 3, result.Files[0].Questions)
	assert.Equal(t, 1, result.Files[0].Updates)

	assert.False(t, result.Files[1].OK())
	assert.True(t, errors.Is(result.Files[1].Err, domain.ErrInvalidShape))

	var loadErr *application.LoadError
	assert.ErrorAs(t, result.Files[2].Err, &loadErr)

	assert.Equal(t, 2, result.Invalid)
	assert.Equal(t, "2 of 3 file(s) invalid", result.Message)
}

func TestValidateCommand_RequiresPaths(t *testing.T) {
	_, err := NewValidateCommand(newMemRepo(), nil).Execute(context.Background())

	var valErr *application.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "paths", valErr.Field)
}

func TestListSectionsCommand_Execute(t *testing.T) {
	repo := newMemRepo()
	repo.banks["bank.json"] = bank(section("Intro", "q1"), section("Quiz"), section("intro "))

	result, err := NewListSectionsCommand(repo, "bank.json").Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Sections, 3)
	assert.Equal(t, SectionInfo{Index: 0, ID: "sec_jkrvjk", Title: "Intro", Questions: 1}, result.Sections[0])
	assert.Equal(t, "sec_1s9pdz", result.Sections[1].ID)
	assert.False(t, result.Sections[1].Duplicate)
	assert.True(t, result.Sections[2].Duplicate)
}

func TestListSectionsCommand_InvalidBank(t *testing.T) {
	repo := newMemRepo()
	repo.banks["bank.json"] = domain.Bank{}

	_, err := NewListSectionsCommand(repo, "bank.json").Execute(context.Background())
	assert.True(t, errors.Is(err, domain.ErrInvalidShape))
}

func TestHistoryCommands(t *testing.T) {
	history := &memHistory{runs: []domain.MergeRun{
		{ID: "11111111-aaaa", Sources: []string{"a.json"}},
		{ID: "22222222-bbbb", Sources: []string{"b.json"}, Conflicts: []domain.Conflict{{SectionID: "sec_1"}}},
	}}

	runs, err := NewListRunsCommand(history, 0).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "22222222-bbbb", runs[0].ID, "newest first")

	run, err := NewShowRunCommand(history, "2222").Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, run.Conflicts, 1)

	_, err = NewShowRunCommand(history, "9999").Execute(context.Background())
	assert.True(t, errors.Is(err, application.ErrNotFound))

	_, err = NewShowRunCommand(history, "broken").Execute(context.Background())
	assert.ErrorContains(t, err, "database is locked")

	_, err = NewShowRunCommand(history, "").Execute(context.Background())
	var valErr *application.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestHistoryCommands_Disabled(t *testing.T) {
	_, err := NewListRunsCommand(nil, 5).Execute(context.Background())
	assert.ErrorIs(t, err, application.ErrNoHistory)

	_, err = NewShowRunCommand(nil, "abc").Execute(context.Background())
	assert.ErrorIs(t, err, application.ErrNoHistory)
}

func TestLoadReportCommand_Execute(t *testing.T) {
	repo := newMemRepo()
	repo.reports["r.json"] = domain.ConflictReport{}

	report, err := NewLoadReportCommand(repo, "r.json").Execute(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, report.Conflicts)

	_, err = NewLoadReportCommand(repo, "").Execute(context.Background())
	assert.Error(t, err)
}
