package ai_test

import (
	"strings"
	"testing"

	"github.com/amityadav/deepresearch/internal/ai"
	"github.com/stretchr/testify/require"
)

func TestEstimateTokens(t *testing.T) {
	require.Equal(t, 25, ai.EstimateTokens(strings.Repeat("x", 100)))
}
