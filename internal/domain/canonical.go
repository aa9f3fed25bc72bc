package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Canonical renders v as compact JSON with object keys sorted at every
// level, so structurally equal values always produce the same text.
// It is meant for equality checks only.
func Canonical(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// CanonicalEqual reports whether a and b have the same canonical form.
// Values that cannot be encoded are never equal.
func CanonicalEqual(a, b any) bool {
	ca, err := Canonical(a)
	if err != nil {
		return false
	}
	cb, err := Canonical(b)
	if err != nil {
		return false
	}
	return ca == cb
}
