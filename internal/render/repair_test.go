// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "testing"

func TestRepair(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain ascii unchanged", "This is plain ASCII text.", "This is plain ASCII text."},
		{
			"valid unicode unchanged",
			"Already valid: é ñ ü © ° ±",
			"Already valid: é ñ ü © ° ±",
		},
		{
			"double-encoded smart quotes",
			"âleft quoteâ",
			"“left quote”",
		},
		{"degree symbol", "Â°", "°"},
		{"copyright symbol", "Â©", "©"},
		{"fraction half", "Â½", "½"},
		{"superscript two", "Â²", "²"},
		{"registered trademark", "Â®", "®"},
		{"plus-minus", "Â±", "±"},
		{"guillemets", "Â«Â»", "«»"},
		{"em dash", "â", "—"},
		{"ellipsis", "â¦", "…"},
		{"broken household", "house\"hold", "household"},
		{"broken single-family", "single\"family", "single-family"},
		{"broken people with ordinal", "peÂºple", "people"},
		{"contextual em dash in contemporaries", "contempo—raries", "contemporaries"},
		{"contextual quote in contemporaries", "contempo\"raries", "contemporaries"},
		{
			"corruption embedded in sentence",
			"Most peºple lived in a house\"hold.",
			"Most people lived in a household.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Repair(tt.input)
			if got != tt.want {
				t.Errorf("Repair(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Repair is applied more than once along some render paths, so a second pass
// must be a no-op.
func TestRepairIdempotent(t *testing.T) {
	samples := []string{
		"",
		"plain ascii",
		"âquotedâ text",
		"Â°Â±Â½",
		"peÂºple in a house\"hold",
		"contempo—raries and contempo\"raries",
		"already repaired “text” with — dashes",
		"mixed Ã© accents and plain words",
	}
	for _, s := range samples {
		once := Repair(s)
		twice := Repair(once)
		if once != twice {
			t.Errorf("Repair not idempotent for %q: first %q, second %q", s, once, twice)
		}
	}
}
