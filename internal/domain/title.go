package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// SectionIDPrefix starts every derived section identifier
	SectionIDPrefix = "sec_"
	// UntitledSection is displayed for sections with no title text
	UntitledSection = "(Untitled section)"

	titleKeySeparator = "|"
)

// Title is the bilingual (English / Punjabi) title of a section
type Title struct {
	EN string `json:"en"`
	PA string `json:"pa"`
}

// ParseTitle reads a title value as stored in a bank. An object yields its
// en and pa fields, a scalar is taken as English, and nil is empty.
func ParseTitle(v any) Title {
	if m, ok := asObject(v); ok {
		return Title{EN: jsText(m["en"]), PA: jsText(m["pa"])}
	}
	if _, isArray := v.([]any); isArray {
		return Title{}
	}
	return Title{EN: jsText(v)}
}

// Display returns "English / Punjabi" when both are present, otherwise
// whichever is non-empty, otherwise UntitledSection.
func (t Title) Display() string {
	en := strings.TrimFunc(t.EN, isTitleSpace)
	pa := strings.TrimFunc(t.PA, isTitleSpace)
	switch {
	case en != "" && pa != "":
		return en + " / " + pa
	case en != "":
		return en
	case pa != "":
		return pa
	default:
		return UntitledSection
	}
}

// NormalizeKey trims, lower-cases and collapses whitespace runs to a single
// space.
//
// Lower-casing uses full Unicode case mapping: İ becomes i plus a combining
// dot and a word-final Σ becomes ς. Whitespace is the set the browser
// editor's regular expressions match.
func NormalizeKey(s string) string {
	// A Caser keeps state and is not safe for concurrent use
	lower := cases.Lower(language.Und).String(s)
	return strings.Join(strings.FieldsFunc(lower, isTitleSpace), " ")
}

// isTitleSpace reports whether r is white space or a line terminator to the
// browser editor. Unlike unicode.IsSpace it includes U+FEFF and excludes
// U+0085.
func isTitleSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// SectionID derives the stable identifier of a section from its title.
//
// The value must match the ids the browser editor assigns: a 31-multiplier
// polynomial hash over the UTF-16 code units of "en|pa" (both normalized),
// truncated to a signed 32-bit integer, made positive and written in base 36.
func SectionID(t Title) string {
	key := NormalizeKey(t.EN) + titleKeySeparator + NormalizeKey(t.PA)

	var h uint32
	for _, cu := range utf16.Encode([]rune(key)) {
		h = h*31 + uint32(cu)
	}

	n := int64(int32(h))
	if n < 0 {
		n = -n
	}
	return SectionIDPrefix + strconv.FormatInt(n, 36)
}

// DeriveSectionID is SectionID for a raw title value
func DeriveSectionID(title any) string {
	return SectionID(ParseTitle(title))
}

// jsText stringifies a decoded JSON scalar the way the editor's String()
// conversion does.
func jsText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return jsNumber(t)
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil && !math.IsInf(f, 0) {
			return t.String()
		}
		return jsNumber(f)
	case int:
		return jsNumber(float64(t))
	case int64:
		return jsNumber(float64(t))
	default:
		return fmt.Sprint(t)
	}
}

// jsNumber formats f as the editor's Number-to-String conversion does:
// shortest round-trip digits, in plain notation for decimal exponents from
// -6 to 20 and exponent notation otherwise.
func jsNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// d.ddde±x
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(sci, "e")
	digits := strings.Replace(mant, ".", "", 1)
	e, _ := strconv.Atoi(exp)
	k := len(digits)
	n := e + 1

	var out string
	switch {
	case k <= n && n <= 21:
		out = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		out = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		out = "0." + strings.Repeat("0", -n) + digits
	default:
		expSign := "+"
		if n-1 < 0 {
			expSign = "-"
		}
		out = digits[:1]
		if k > 1 {
			out += "." + digits[1:]
		}
		out += "e" + expSign + strconv.Itoa(abs(n-1))
	}
	return sign + out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
