package dispatch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) dispatch.Payload {
	t.Helper()
	p, err := dispatch.DecodePayload(strings.NewReader(s))
	require.NoError(t, err)
	return p
}

func TestLookup(t *testing.T) {
	p := decode(t, `{"items":[{"title":"A","tags":["x","y"]}],"count":2,"meta":{"ok":true}}`)

	require.Equal(t, "A", dispatch.String(p, "items", 0, "title"))
	require.Equal(t, "y", dispatch.String(p, "items", 0, "tags", 1))
	require.Len(t, dispatch.List(p, "items"), 1)
	require.NotNil(t, dispatch.Object(p, "meta"))
	require.True(t, dispatch.Has(p, "count"))

	// missing or mistyped paths degrade to zero values
	require.Empty(t, dispatch.String(p, "items", 5, "title"))
	require.Empty(t, dispatch.String(p, "count"))
	require.Nil(t, dispatch.List(p, "meta"))
	require.Nil(t, dispatch.Object(p, "items"))
	require.False(t, dispatch.Has(p, "items", -1))
	require.False(t, dispatch.Has(p, "items", 0.5))
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, err := dispatch.DecodePayload(strings.NewReader("<html>"))
	require.ErrorIs(t, err, dispatch.ErrSchema)

	_, err = dispatch.DecodePayload(strings.NewReader(`["not","an","object"]`))
	require.ErrorIs(t, err, dispatch.ErrSchema)
}

func TestProviderError(t *testing.T) {
	require.Equal(t, "bad key", dispatch.ProviderError(decode(t, `{"error":{"message":"bad key"}}`)))
	require.Equal(t, "quota", dispatch.ProviderError(decode(t, `{"error":"quota"}`)))
	require.Empty(t, dispatch.ProviderError(decode(t, `{"message":"ok","text":"flat answer"}`)))
	require.Empty(t, dispatch.ProviderError(decode(t, `{"results":[]}`)))
}

func TestErrorBody(t *testing.T) {
	require.Equal(t, "nope", dispatch.ErrorBody(decode(t, `{"message":"nope"}`)))
	require.Equal(t, "bad key", dispatch.ErrorBody(decode(t, `{"error":{"message":"bad key"},"message":"other"}`)))
	require.Empty(t, dispatch.ErrorBody(decode(t, `{"results":[]}`)))
}

func TestDoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`{"answer":"42"}`))
		case "/denied":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
		case "/html":
			w.Write([]byte(`<html></html>`))
		}
	}))
	defer srv.Close()

	get := func(path string) (dispatch.Payload, error) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+path, nil)
		require.NoError(t, err)
		return dispatch.DoJSON(srv.Client(), req)
	}

	p, err := get("/ok")
	require.NoError(t, err)
	require.Equal(t, "42", dispatch.String(p, "answer"))

	_, err = get("/denied")
	require.ErrorIs(t, err, dispatch.ErrNetwork)
	require.Contains(t, err.Error(), "403")
	require.Contains(t, err.Error(), "API key not valid")

	_, err = get("/html")
	require.ErrorIs(t, err, dispatch.ErrSchema)
}

func TestDoJSONUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	_, err = dispatch.DoJSON(http.DefaultClient, req)
	require.ErrorIs(t, err, dispatch.ErrNetwork)
}
