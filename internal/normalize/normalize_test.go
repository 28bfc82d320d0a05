package normalize

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases",
			input:    "BLUE NOTE",
			expected: "blue note",
		},
		{
			name:     "trims and collapses whitespace",
			input:    "  blue   note \t",
			expected: "blue note",
		},
		{
			name:     "strips leading the",
			input:    "The Blue Note",
			expected: "blue note",
		},
		{
			name:     "strips leading a",
			input:    "A Night at the Opera",
			expected: "night at the opera",
		},
		{
			name:     "strips leading an",
			input:    "An Evening With Friends",
			expected: "evening with friends",
		},
		{
			name:     "strips at most one article",
			input:    "The The Band",
			expected: "the band",
		},
		{
			name:     "article requires following text",
			input:    "The",
			expected: "the",
		},
		{
			name:     "interior articles untouched",
			input:    "Live at The Fillmore",
			expected: "live at the fillmore",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   \n\t ",
			expected: "",
		},
		{
			name:     "punctuation only",
			input:    "!!!",
			expected: "!!!",
		},
		{
			name:     "emoji only",
			input:    "🎸🎶",
			expected: "🎸🎶",
		},
		{
			name:     "mixed case with article and padding",
			input:    "  THE Jazz Trio ",
			expected: "jazz trio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The Blue Note",
		"  blue   note ",
		"BLUE NOTE",
		"",
		"a night out",
		"Jazz at Lincoln Center",
		"🎸 live",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeVariantsCollide(t *testing.T) {
	// All cosmetic variants of the same venue must normalize identically.
	variants := []string{"The Blue Note", "blue note ", "  BLUE  NOTE", "Blue Note"}
	want := "blue note"
	for _, v := range variants {
		if got := Normalize(v); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", v, got, want)
		}
	}
}
