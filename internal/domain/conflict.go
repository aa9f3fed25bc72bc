package domain

import "time"

// Conflict records two edited files changing the same section differently.
// The merged bank keeps FirstSource's version.
type Conflict struct {
	SectionID    string `json:"section_id"`
	SectionTitle string `json:"section_title"`
	FirstSource  string `json:"first_source"`
	SecondSource string `json:"second_source"`
}

// ConflictReport is the document written next to a merged bank
type ConflictReport struct {
	Conflicts []Conflict `json:"conflicts"`
}

// NewConflictReport wraps conflicts for writing; the list is never null
func NewConflictReport(conflicts []Conflict) ConflictReport {
	if conflicts == nil {
		conflicts = []Conflict{}
	}
	return ConflictReport{Conflicts: conflicts}
}

// MergeRun is the persisted summary of one merge
type MergeRun struct {
	ID        string
	At        time.Time
	BasePath  string
	OutPath   string
	Sources   []string
	Sections  int
	Updates   int
	Conflicts []Conflict
}

// Clean reports whether the run finished without conflicts
func (r *MergeRun) Clean() bool {
	return len(r.Conflicts) == 0
}
