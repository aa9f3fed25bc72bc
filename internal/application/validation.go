package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// ValidatePaths checks that a list of paths is non-empty and has no blank
// entries.
func ValidatePaths(fieldName string, paths []string) error {
	displayName := formatFieldName(fieldName)
	if len(paths) == 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("at least one %s is required", displayName),
		}
	}
	for i, p := range paths {
		if strings.TrimSpace(p) == "" {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("%s #%d is empty", displayName, i+1),
			}
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "outPath" -> "output path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"outPath":     "output path",
		"basePath":    "base path",
		"editedPaths": "edited file",
		"reportPath":  "report path",
		"paths":       "file",
		"path":        "path",
		"runID":       "run ID",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}
