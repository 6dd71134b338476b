package textutil_test

import (
	"strings"
	"testing"

	"github.com/amityadav/deepresearch/internal/textutil"
	"github.com/stretchr/testify/require"
)

func TestTruncateToLimit(t *testing.T) {
	require.Equal(t, "short", textutil.TruncateToLimit("short", 10))
	require.Equal(t, "anything", textutil.TruncateToLimit("anything", 0))

	out := textutil.TruncateToLimit(strings.Repeat("a", 20), 5)
	require.Equal(t, "aaaaa"+textutil.TruncatedMarker, out)

	// never splits a multi-byte rune
	out = textutil.TruncateToLimit("ééé", 3)
	require.Equal(t, "é\n...[truncated]", out)
}
