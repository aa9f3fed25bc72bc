package domain

import (
	"slices"
)

const (
	// BaseSource is the provenance of sections nobody has edited yet
	BaseSource = "--base--"
	// ActionDeleteSection is the update action that allows deletions
	ActionDeleteSection = "delete_section"
)

// EditedBank is one edited copy of the base, labelled with where it came
// from. The label is used verbatim in conflicts and provenance.
type EditedBank struct {
	Source string
	Bank   Bank
}

// ApplyStats counts what applying one edited bank did
type ApplyStats struct {
	Source    string
	Added     int
	Replaced  int
	Unchanged int
	Deleted   int
	Conflicts int
	Updates   int
}

// MergeState is the value folded over the edited banks. It owns deep
// copies of everything it holds.
type MergeState struct {
	base       Bank
	baseOrder  []string
	baseIDs    map[string]struct{}
	sections   map[string]Section
	order      []string
	provenance map[string]string
	conflicts  []Conflict
	updates    *UpdateLog
}

// NewMergeState starts a merge from base. The caller's bank is never
// modified.
func NewMergeState(base Bank) (*MergeState, error) {
	if err := ValidateShape(base); err != nil {
		return nil, withSource(err, BaseSource)
	}

	cloned, err := CloneBank(base)
	if err != nil {
		return nil, err
	}

	ids, byID := indexSections(cloned)
	s := &MergeState{
		base:       cloned,
		baseOrder:  ids,
		baseIDs:    make(map[string]struct{}, len(ids)),
		sections:   byID,
		order:      slices.Clone(ids),
		provenance: make(map[string]string, len(ids)),
		updates:    NewUpdateLog(),
	}
	for _, id := range ids {
		s.baseIDs[id] = struct{}{}
		s.provenance[id] = BaseSource
	}
	s.updates.Add(cloned)

	return s, nil
}

// Apply folds one edited bank into the state.
//
// Sections from the original base that are missing from e are deleted only
// when e carries a delete_section update. New sections are appended. A
// section that differs from the merged one replaces it when nobody but the
// base or this same source has changed it; otherwise a Conflict is recorded
// and the earlier version stays.
func (s *MergeState) Apply(source string, e Bank) (ApplyStats, error) {
	stats := ApplyStats{Source: source}

	if err := ValidateShape(e); err != nil {
		return stats, withSource(err, source)
	}

	edited, err := CloneBank(e)
	if err != nil {
		return stats, err
	}

	ids, byID := indexSections(edited)

	if edited.HasDeleteMarker() {
		for _, id := range s.baseOrder {
			if _, kept := byID[id]; kept {
				continue
			}
			if _, present := s.sections[id]; !present {
				continue
			}
			delete(s.sections, id)
			delete(s.provenance, id)
			s.order = slices.DeleteFunc(s.order, func(x string) bool { return x == id })
			stats.Deleted++
		}
	}

	for _, id := range ids {
		incoming := byID[id]

		current, ok := s.sections[id]
		if !ok {
			s.sections[id] = incoming
			s.order = append(s.order, id)
			s.provenance[id] = source
			stats.Added++
			continue
		}

		if CanonicalEqual(current, incoming) {
			stats.Unchanged++
			continue
		}

		prev, ok := s.provenance[id]
		if !ok {
			prev = BaseSource
		}
		if prev != BaseSource && prev != source {
			s.conflicts = append(s.conflicts, Conflict{
				SectionID:    id,
				SectionTitle: incoming.Title().Display(),
				FirstSource:  prev,
				SecondSource: source,
			})
			stats.Conflicts++
			continue
		}

		s.sections[id] = incoming
		s.provenance[id] = source
		stats.Replaced++
	}

	stats.Updates = s.updates.Add(edited)

	return stats, nil
}

// Result assembles the merged bank: sections in merge order, the
// deduplicated update log in chronological order, and every other field of
// the base as it was. The bank is a deep copy, so later calls to Apply do
// not change it.
func (s *MergeState) Result() (Bank, []Conflict, error) {
	merged := make(Bank, len(s.base)+1)
	for k, v := range s.base {
		merged[k] = v
	}

	sections := make([]any, 0, len(s.order))
	for _, id := range s.order {
		if sec, ok := s.sections[id]; ok {
			sections = append(sections, map[string]any(sec))
		}
	}
	merged[KeySections] = sections

	sorted := s.updates.Sorted()
	updates := make([]any, len(sorted))
	for i, u := range sorted {
		updates[i] = map[string]any(u)
	}
	merged[KeyUpdates] = updates

	out, err := CloneBank(merged)
	if err != nil {
		return nil, nil, err
	}
	return out, slices.Clone(s.conflicts), nil
}

// Order returns the current section ids in output order
func (s *MergeState) Order() []string {
	return slices.Clone(s.order)
}

// Provenance returns the source that last applied the section, or "" if the
// section is not present.
func (s *MergeState) Provenance(id string) string {
	return s.provenance[id]
}

// MergeOutcome is the result of Merge
type MergeOutcome struct {
	Bank      Bank
	Conflicts []Conflict
	Stats     []ApplyStats
}

// Merge folds the edited banks into base in the given order. Earlier banks
// win conflicts, so the order is part of the contract. All inputs are shape
// checked before any merging, and a ShapeError returns no partial result.
func Merge(base Bank, edited []EditedBank) (*MergeOutcome, error) {
	if err := ValidateShape(base); err != nil {
		return nil, withSource(err, BaseSource)
	}
	for _, e := range edited {
		if err := ValidateShape(e.Bank); err != nil {
			return nil, withSource(err, e.Source)
		}
	}

	state, err := NewMergeState(base)
	if err != nil {
		return nil, err
	}

	stats := make([]ApplyStats, 0, len(edited))
	for _, e := range edited {
		st, err := state.Apply(e.Source, e.Bank)
		if err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}

	merged, conflicts, err := state.Result()
	if err != nil {
		return nil, err
	}
	return &MergeOutcome{Bank: merged, Conflicts: conflicts, Stats: stats}, nil
}

// indexSections keys a bank's sections by id. An id keeps the position of
// its first occurrence; a later section with the same id replaces the
// content.
func indexSections(b Bank) ([]string, map[string]Section) {
	sections := b.Sections()
	ids := make([]string, 0, len(sections))
	byID := make(map[string]Section, len(sections))
	for _, sec := range sections {
		id := sec.ID()
		if _, seen := byID[id]; !seen {
			ids = append(ids, id)
		}
		byID[id] = sec
	}
	return ids, byID
}
