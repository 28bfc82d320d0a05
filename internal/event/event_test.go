package event

import (
	"testing"
)

func TestIdentifierDeterministic(t *testing.T) {
	id1 := Identifier("The Jazz Show", "2025-03-01", "The Blue Note")
	id2 := Identifier("The Jazz Show", "2025-03-01", "The Blue Note")

	if id1 != id2 {
		t.Errorf("Identifier should be deterministic, got %s vs %s", id1, id2)
	}

	if len(id1) != 32 {
		t.Errorf("expected identifier length of 32, got %d", len(id1))
	}

	for _, c := range id1 {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Errorf("expected lowercase hex identifier, got %q", id1)
			break
		}
	}
}

func TestIdentifierCollision(t *testing.T) {
	// Cosmetic variants of title and venue must collide to the same key.
	tests := []struct {
		name           string
		titleA, titleB string
		venueA, venueB string
	}{
		{
			name:   "article and case variance",
			titleA: "The Jazz Show", titleB: "jazz show",
			venueA: "The Blue Note", venueB: "Blue Note",
		},
		{
			name:   "whitespace variance",
			titleA: "  Jazz  Show ", titleB: "Jazz Show",
			venueA: "Blue Note", venueB: " blue note ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idA := Identifier(tt.titleA, "2025-03-01", tt.venueA)
			idB := Identifier(tt.titleB, "2025-03-01", tt.venueB)
			if idA != idB {
				t.Errorf("expected collision, got %s vs %s", idA, idB)
			}
		})
	}
}

func TestIdentifierDistinguishes(t *testing.T) {
	base := Identifier("Jazz Show", "2025-03-01", "Blue Note")

	if got := Identifier("Jazz Show", "2025-03-02", "Blue Note"); got == base {
		t.Error("different dates should produce different identifiers")
	}

	if got := Identifier("Rock Show", "2025-03-01", "Blue Note"); got == base {
		t.Error("different titles should produce different identifiers")
	}

	// Swapping title and venue changes the concatenation, so the key
	// must change too.
	if got := Identifier("Blue Note", "2025-03-01", "Jazz Show"); got == base {
		t.Error("swapped title and venue should produce a different identifier")
	}
}

func TestIdentifierEmptyFields(t *testing.T) {
	// Incomplete records still hash; rejecting them is the importer's
	// job, not this layer's.
	id := Identifier("", "2025-03-01", "")
	if len(id) != 32 {
		t.Errorf("expected valid identifier for empty fields, got %q", id)
	}

	if id == Identifier("", "2025-03-02", "") {
		t.Error("date must still distinguish otherwise-empty records")
	}
}
