package application

import (
	"errors"
	"testing"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
		wantMsg   string
	}{
		{
			name:      "valid value",
			fieldName: "outPath",
			value:     "merged.json",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "outPath",
			value:     "",
			wantErr:   true,
			wantMsg:   "output path is required",
		},
		{
			name:      "whitespace only",
			fieldName: "runID",
			value:     "   ",
			wantErr:   true,
			wantMsg:   "run ID is required",
		},
		{
			name:      "unknown field name kept as is",
			fieldName: "flavour",
			value:     "",
			wantErr:   true,
			wantMsg:   "flavour is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
				if valErr.Message != tt.wantMsg {
					t.Errorf("expected message %q, got %q", tt.wantMsg, valErr.Message)
				}
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		paths   []string
		wantErr bool
	}{
		{name: "one path", paths: []string{"a.json"}},
		{name: "several paths", paths: []string{"a.json", "b.json"}},
		{name: "nil", paths: nil, wantErr: true},
		{name: "blank entry", paths: []string{"a.json", " "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePaths("editedPaths", tt.paths)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultReportPath(t *testing.T) {
	tests := []struct {
		out  string
		want string
	}{
		{"merged.json", "merged.conflicts_report.json"},
		{"out/merged.v2.json", "out/merged.v2.conflicts_report.json"},
		{"merged", "merged.conflicts_report.json"},
	}

	for _, tt := range tests {
		if got := DefaultReportPath(tt.out); got != tt.want {
			t.Errorf("DefaultReportPath(%q) = %q, want %q", tt.out, got, tt.want)
		}
	}
}

func TestSourceLabel(t *testing.T) {
	if got := SourceLabel("edits/round2/editor1.json"); got != "editor1.json" {
		t.Errorf("SourceLabel() = %q, want editor1.json", got)
	}
}

func TestMergedPathForReport(t *testing.T) {
	tests := []struct {
		report string
		want   string
	}{
		{"out/merged.conflicts_report.json", "out/merged.json"},
		{"conflicts.json", ""},
	}

	for _, tt := range tests {
		if got := MergedPathForReport(tt.report); got != tt.want {
			t.Errorf("MergedPathForReport(%q) = %q, want %q", tt.report, got, tt.want)
		}
	}
}
