package serpapi

import (
	"context"
	"errors"
	"testing"

	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/stretchr/testify/require"
)

func stubClient(results map[string]interface{}, err error) (*Client, *map[string]string) {
	var seen map[string]string
	c := NewClient("test-key", 2)
	c.fetch = func(params map[string]string, apiKey string) (map[string]interface{}, error) {
		seen = params
		return results, err
	}
	return c, &seen
}

func TestCall(t *testing.T) {
	c, seen := stubClient(map[string]interface{}{
		"organic_results": []interface{}{
			map[string]interface{}{"title": "Title1", "link": "link1", "snippet": "a"},
			map[string]interface{}{"title": "Title2", "link": "link2", "snippet": "b"},
			map[string]interface{}{"title": "Title3", "link": "link3", "snippet": "c"},
		},
	}, nil)

	res := c.Call(context.Background(), dispatch.Input{Query: "rust programming"})

	require.True(t, res.OK(), res.Message())
	require.Equal(t, "Title1: link1\nTitle2: link2", res.Text)
	require.Equal(t, "rust programming", (*seen)["q"])
	require.Equal(t, "google", (*seen)["engine"])
}

func TestCallFailures(t *testing.T) {
	c, _ := stubClient(nil, errors.New("connection reset"))
	res := c.Call(context.Background(), dispatch.Input{Query: "rust"})
	require.True(t, res.Is(dispatch.ErrNetwork))

	c.apiKey = ""
	res = c.Call(context.Background(), dispatch.Input{Query: "rust"})
	require.True(t, res.Is(dispatch.ErrNetwork))

	res = c.Call(context.Background(), dispatch.Input{})
	require.True(t, res.Is(dispatch.ErrEmptyQuery))
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		payload dispatch.Payload
		kind    error
	}{
		{"error field", dispatch.Payload{"error": "Invalid API key."}, dispatch.ErrSchema},
		{"no organic results", dispatch.Payload{"search_metadata": map[string]any{}}, dispatch.ErrNotFound},
		{"organic results wrong type", dispatch.Payload{"organic_results": "none"}, dispatch.ErrNotFound},
		{"empty organic results", dispatch.Payload{"organic_results": []any{}}, dispatch.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseResponse(tt.payload, 5)
			require.False(t, res.OK())
			require.True(t, res.Is(tt.kind), res.Message())
		})
	}
}
