package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/stretchr/testify/require"
)

// stubAdapter returns a fixed result and records the input it saw
type stubAdapter struct {
	name   dispatch.Name
	result dispatch.Result
	calls  int
	last   dispatch.Input
}

func (s *stubAdapter) Name() dispatch.Name { return s.name }

func (s *stubAdapter) Call(_ context.Context, in dispatch.Input) dispatch.Result {
	s.calls++
	s.last = in
	return s.result
}

func TestDispatchUnknownProvider(t *testing.T) {
	d := dispatch.NewDispatcher(&stubAdapter{name: dispatch.WebSearch, result: dispatch.Success("x")})

	res := d.Dispatch(context.Background(), "bing", dispatch.Input{Query: "rust"})

	require.False(t, res.OK())
	require.True(t, res.Is(dispatch.ErrUnsupportedProvider))
	require.Equal(t, "unsupported provider", res.Message())
	require.Equal(t, dispatch.Name("bing"), res.Provider)
}

func TestDispatchPassesResultThrough(t *testing.T) {
	tests := []struct {
		name   string
		result dispatch.Result
	}{
		{"success", dispatch.Success("Title1: link1")},
		{"empty success", dispatch.Success("")},
		{"not found", dispatch.Failure(fmt.Errorf("%w: no search results found", dispatch.ErrNotFound))},
		{"network", dispatch.Failure(fmt.Errorf("%w: timeout", dispatch.ErrNetwork))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAdapter{name: dispatch.Encyclopedia, result: tt.result}
			d := dispatch.NewDispatcher(stub)

			res := d.Dispatch(context.Background(), dispatch.Encyclopedia, dispatch.Input{Query: "Alan Turing"})

			require.Equal(t, 1, stub.calls)
			require.Equal(t, "Alan Turing", stub.last.Query)
			require.Equal(t, tt.result.OK(), res.OK())
			require.Equal(t, tt.result.Message(), res.Message())
			require.Equal(t, dispatch.Encyclopedia, res.Provider)
		})
	}
}

func TestDispatchForwardsDocument(t *testing.T) {
	stub := &stubAdapter{name: dispatch.Document, result: dispatch.Success("text")}
	d := dispatch.NewDispatcher(stub)

	upload := &dispatch.Upload{Filename: "a.txt", Data: []byte("hello")}
	d.Dispatch(context.Background(), dispatch.Document, dispatch.Input{Document: upload})

	require.Same(t, upload, stub.last.Document)
}

func TestRegister(t *testing.T) {
	first := &stubAdapter{name: dispatch.LLM, result: dispatch.Success("first")}
	second := &stubAdapter{name: dispatch.LLM, result: dispatch.Success("second")}

	d := dispatch.NewDispatcher(first, nil)
	d.Register(second)
	d.Register(&stubAdapter{name: dispatch.Tavily})

	require.Equal(t, 2, d.Count())
	require.Equal(t, []dispatch.Name{dispatch.LLM, dispatch.Tavily}, d.Names())

	res := d.Dispatch(context.Background(), dispatch.LLM, dispatch.Input{Query: "q"})
	require.Equal(t, "second", res.Text)
	require.Zero(t, first.calls)
}

func TestParseName(t *testing.T) {
	tests := map[string]dispatch.Name{
		"websearch":  dispatch.WebSearch,
		" Google ":   dispatch.WebSearch,
		"wiki":       dispatch.Encyclopedia,
		"WIKIPEDIA":  dispatch.Encyclopedia,
		"gemini":     dispatch.LLM,
		"upload":     dispatch.Document,
		"url":        dispatch.WebPage,
		"serpapi":    dispatch.SerpAPI,
		"altavista":  dispatch.Name("altavista"),
	}

	for in, want := range tests {
		require.Equal(t, want, dispatch.ParseName(in), in)
	}
}

func TestQueryText(t *testing.T) {
	q, err := dispatch.Input{Query: "  rust  "}.QueryText()
	require.NoError(t, err)
	require.Equal(t, "rust", q)

	_, err = dispatch.Input{Query: " \n\t"}.QueryText()
	require.ErrorIs(t, err, dispatch.ErrEmptyQuery)
}

func TestResult(t *testing.T) {
	ok := dispatch.Success("done")
	require.True(t, ok.OK())
	require.Equal(t, "done", ok.Message())
	require.False(t, ok.Is(dispatch.ErrSchema))

	nilErr := dispatch.Failure(nil)
	require.False(t, nilErr.OK())
	require.True(t, nilErr.Is(dispatch.ErrSchema))

	wrapped := dispatch.Failure(fmt.Errorf("%w: %q may refer to: A, B", dispatch.ErrAmbiguous, "Mercury"))
	require.True(t, wrapped.Is(dispatch.ErrAmbiguous))
	require.False(t, wrapped.Is(dispatch.ErrNotFound))
	require.True(t, errors.Is(wrapped.Err, dispatch.ErrAmbiguous))
}

func TestJoin(t *testing.T) {
	results := []dispatch.Result{
		dispatch.Success("Title1: link1").WithProvider(dispatch.WebSearch),
		dispatch.Failure(errors.New("no encyclopedia page found")).WithProvider(dispatch.Encyclopedia),
	}

	require.Equal(t,
		"[websearch]\nTitle1: link1\n\n[wikipedia]\nno encyclopedia page found",
		dispatch.Join(results))
	require.Equal(t, "plain", dispatch.Join([]dispatch.Result{dispatch.Success("plain")}))
	require.Empty(t, dispatch.Join(nil))
}

type panicAdapter struct{}

func (panicAdapter) Name() dispatch.Name { return "broken" }

func (panicAdapter) Call(context.Context, dispatch.Input) dispatch.Result { panic("nil map") }

func TestDispatchRecoversPanic(t *testing.T) {
	d := dispatch.NewDispatcher(panicAdapter{})

	res := d.Dispatch(context.Background(), "broken", dispatch.Input{Query: "x"})

	require.False(t, res.OK())
	require.True(t, res.Is(dispatch.ErrSchema))
	require.Equal(t, dispatch.Name("broken"), res.Provider)
}
