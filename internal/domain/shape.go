package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidShape matches every ShapeError via errors.Is
var ErrInvalidShape = errors.New("invalid bank")

// ShapeError reports a document that lacks the structure needed to merge it.
// It is fatal: a merge that hits one produces no output.
type ShapeError struct {
	Source  string // label of the offending document, empty if unknown
	Section int    // index of the offending section, -1 for the document itself
	Reason  string
}

func (e *ShapeError) Error() string {
	msg := "invalid bank: " + e.Reason
	if e.Source != "" {
		return e.Source + ": " + msg
	}
	return msg
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrInvalidShape
}

// ValidateShape checks that v is an object with a sections array whose
// elements are objects that each carry a questions array. Nothing else is
// checked.
func ValidateShape(v any) error {
	bank, ok := asObject(v)
	if !ok {
		return &ShapeError{Section: -1, Reason: "missing sections[]"}
	}

	sections, ok := bank[KeySections].([]any)
	if !ok {
		return &ShapeError{Section: -1, Reason: "missing sections[]"}
	}

	for i, raw := range sections {
		sec, ok := asObject(raw)
		if !ok {
			return &ShapeError{Section: i, Reason: fmt.Sprintf("section %d is not an object", i)}
		}
		if _, ok := sec[KeyQuestions].([]any); !ok {
			return &ShapeError{Section: i, Reason: fmt.Sprintf("section %d missing questions[]", i)}
		}
	}

	return nil
}

// withSource labels a shape error with the document it came from
func withSource(err error, source string) error {
	var shapeErr *ShapeError
	if errors.As(err, &shapeErr) && shapeErr.Source == "" {
		shapeErr.Source = source
	}
	return err
}
