package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionID_ReferenceValues(t *testing.T) {
	// Values produced by the browser editor.
	tests := []struct {
		name  string
		title any
		want  string
	}{
		{
			name:  "english only",
			title: map[string]any{"en": "Intro", "pa": ""},
			want:  "sec_jkrvjk",
		},
		{
			name:  "another english title",
			title: map[string]any{"en": "Quiz", "pa": ""},
			want:  "sec_1s9pdz",
		},
		{
			name:  "bilingual",
			title: map[string]any{"en": "History of Punjab", "pa": "ਪੰਜਾਬ ਦਾ ਇਤਿਹਾਸ"},
			want:  "sec_965ugw",
		},
		{
			name:  "punjabi only",
			title: map[string]any{"en": "", "pa": "ਗੁਰੂ"},
			want:  "sec_37jnko",
		},
		{
			name:  "bilingual short",
			title: map[string]any{"en": "Gurus", "pa": "ਗੁਰੂ"},
			want:  "sec_l4fek6",
		},
		{
			name:  "nil title",
			title: nil,
			want:  "sec_3g",
		},
		{
			name:  "scalar title is english",
			title: "Intro",
			want:  "sec_jkrvjk",
		},
		{
			name:  "surrogate pairs hashed as utf-16 code units",
			title: "😀 Emoji",
			want:  "sec_oww52l",
		},
		{
			name:  "small hash",
			title: map[string]any{"en": "Round 1"},
			want:  "sec_4lhf",
		},
		{
			name:  "dotted capital I lowers to i with combining dot",
			title: "\u0130stanbul",
			want:  "sec_pea0bz",
		},
		{
			name:  "word-final capital sigma lowers to final sigma",
			title: "ΟΔΟΣ",
			want:  "sec_f4oetg",
		},
		{
			name:  "next line is not white space",
			title: "a\u0085b",
			want:  "sec_1sqse",
		},
		{
			name:  "byte order mark is trimmed",
			title: "\ufeffIntro",
			want:  "sec_jkrvjk",
		},
		{
			name:  "number with trailing zero fraction",
			title: json.Number("1.0"),
			want:  "sec_19n",
		},
		{
			name:  "fractional number",
			title: 1.5,
			want:  "sec_w9tw",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveSectionID(tt.title))
		})
	}
}

func TestSectionID_NormalizationInvariant(t *testing.T) {
	variants := []any{
		map[string]any{"en": "Sikh History", "pa": ""},
		map[string]any{"en": "  sikh   HISTORY ", "pa": "  "},
		map[string]any{"en": "Sikh\tHistory\n"},
		"SIKH HISTORY",
	}

	want := DeriveSectionID(variants[0])
	assert.Equal(t, "sec_5mb0r", want)
	for _, v := range variants[1:] {
		assert.Equal(t, want, DeriveSectionID(v), "title %#v", v)
	}
}

func TestSectionID_DifferentTitlesDiffer(t *testing.T) {
	a := SectionID(Title{EN: "Intro"})
	b := SectionID(Title{EN: "Intro", PA: "ਜਾਣ-ਪਛਾਣ"})
	c := SectionID(Title{PA: "intro"})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c, "english and punjabi fields must not be interchangeable")
}

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Title
	}{
		{name: "object", in: map[string]any{"en": "A", "pa": "ਅ"}, want: Title{EN: "A", PA: "ਅ"}},
		{name: "object missing pa", in: map[string]any{"en": "A"}, want: Title{EN: "A"}},
		{name: "string", in: "A", want: Title{EN: "A"}},
		{name: "nil", in: nil, want: Title{}},
		{name: "integral number", in: float64(3), want: Title{EN: "3"}},
		{name: "fractional number", in: 1.5, want: Title{EN: "1.5"}},
		{name: "bool", in: true, want: Title{EN: "true"}},
		{name: "null fields", in: map[string]any{"en": nil, "pa": nil}, want: Title{}},
		{name: "array", in: []any{"x"}, want: Title{}},
		{name: "decoded integral number", in: json.Number("1.0"), want: Title{EN: "1"}},
		{name: "decoded exponent", in: json.Number("2.50e2"), want: Title{EN: "250"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTitle(tt.in))
		})
	}
}

func TestTitle_Display(t *testing.T) {
	tests := []struct {
		name  string
		title Title
		want  string
	}{
		{name: "both", title: Title{EN: " Intro ", PA: "ਜਾਣ-ਪਛਾਣ"}, want: "Intro / ਜਾਣ-ਪਛਾਣ"},
		{name: "english", title: Title{EN: "Intro", PA: "  "}, want: "Intro"},
		{name: "punjabi", title: Title{PA: "ਗੁਰੂ"}, want: "ਗੁਰੂ"},
		{name: "empty", title: Title{}, want: UntitledSection},
		{name: "byte order mark trimmed", title: Title{EN: "\ufeffIntro\u3000"}, want: "Intro"},
		{name: "next line kept", title: Title{EN: "Intro\u0085"}, want: "Intro\u0085"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.title.Display())
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeKey("  A \t b\n\nC "))
	assert.Equal(t, "", NormalizeKey("   "))
}

func TestNormalizeKey_EditorRules(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "full case mapping", in: "\u0130", want: "i\u0307"},
		{name: "final sigma", in: "ΟΔΟΣ ΟΔΟΣ", want: "οδος οδος"},
		{name: "ideographic space collapses", in: "a\u3000\u3000b", want: "a b"},
		{name: "line separators collapse", in: "a\u2028b\u2029c", want: "a b c"},
		{name: "byte order mark trimmed", in: "\ufeff a \ufeff", want: "a"},
		{name: "next line kept", in: "a\u0085b", want: "a\u0085b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}

func TestJSNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0"},
		{in: 1, want: "1"},
		{in: -0.5, want: "-0.5"},
		{in: 123.456, want: "123.456"},
		{in: 1e20, want: "100000000000000000000"},
		{in: 1e21, want: "1e+21"},
		{in: 1.5e300, want: "1.5e+300"},
		{in: 0.000001, want: "0.000001"},
		{in: 1e-7, want: "1e-7"},
		{in: 1.25e-8, want: "1.25e-8"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, jsNumber(tt.in))
		})
	}
}
