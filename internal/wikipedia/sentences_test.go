package wikipedia_test

import (
	"testing"

	"github.com/amityadav/deepresearch/internal/wikipedia"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"first sentence", "One. Two. Three.", 1, "One."},
		{"two sentences", "One! Two? Three.", 2, "One! Two?"},
		{"fewer sentences than n", "Only one.", 3, "Only one."},
		{"no terminator", "no full stop here", 2, "no full stop here"},
		{"abbreviation inside word", "Version 1.5 is out. Next.", 1, "Version 1.5 is out."},
		{"newline after stop", "First.\nSecond.", 1, "First."},
		{"zero keeps all", "One. Two.", 0, "One. Two."},
		{"trims", "  One. Two.  ", 5, "One. Two."},
		{"unicode", "Über alles. Zweite.", 1, "Über alles."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, wikipedia.Truncate(tt.text, tt.n))
		})
	}
}
