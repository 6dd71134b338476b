package diagram_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/amityadav/deepresearch/internal/diagram"
	"github.com/amityadav/deepresearch/internal/document"
	"github.com/amityadav/deepresearch/internal/export"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"collect -> filter -> summarize", []string{"collect", "filter", "summarize"}},
		{"collect, filter, summarize", []string{"collect", "filter", "summarize"}},
		{"a, b -> c", []string{"a, b", "c"}},
		{"single step", []string{"single step"}},
		{" -> , -> ", []string{","}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.want, diagram.ParseSteps(tt.input))
		})
	}
}

func TestRender(t *testing.T) {
	a, err := diagram.Render([]string{"Collect sources", "Filter", "Summarize"}, export.DefaultFont())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(a.Data, []byte("%PDF-")))
	require.Equal(t, export.MimePDF, a.MimeType)
	require.Equal(t, diagram.Filename, a.Filename)
}

func TestRenderManySteps(t *testing.T) {
	steps := make([]string, 30)
	for i := range steps {
		steps[i] = fmt.Sprintf("Step %d", i+1)
	}

	a, err := diagram.Render(steps, export.DefaultFont())
	require.NoError(t, err)
	require.Greater(t, bytes.Count(a.Data, []byte("/Type /Page\n")), 1)
}

func TestRenderNoSteps(t *testing.T) {
	_, err := diagram.Render(nil, export.DefaultFont())
	require.ErrorIs(t, err, diagram.ErrNoSteps)
}

func TestRenderWrapsLongLabels(t *testing.T) {
	long := "Collect every primary source about the Mercury space programme, including mission reports and press releases"
	a, err := diagram.Render([]string{long, "Сравнить источники"}, export.DefaultFont())
	require.NoError(t, err)

	pages, err := document.Extract(document.FormatPDF, a.Data)
	require.NoError(t, err)
	text := strings.Join(strings.Fields(document.Join(pages)), " ")

	require.Contains(t, text, "Collect every primary source")
	require.Contains(t, text, "press releases")
	require.Contains(t, text, "Сравнить источники")
}
