package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/amityadav/deepresearch/internal/document"
	"github.com/amityadav/deepresearch/internal/export"
	"github.com/amityadav/deepresearch/internal/server"
	"github.com/stretchr/testify/require"
)

// fixedAdapter answers every call with the same result
type fixedAdapter struct {
	name   dispatch.Name
	result dispatch.Result
}

func (f fixedAdapter) Name() dispatch.Name { return f.name }

func (f fixedAdapter) Call(context.Context, dispatch.Input) dispatch.Result { return f.result }

// panicAdapter simulates a programming error inside an adapter
type panicAdapter struct{}

func (panicAdapter) Name() dispatch.Name { return "broken" }

func (panicAdapter) Call(context.Context, dispatch.Input) dispatch.Result { panic("boom") }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	d := dispatch.NewDispatcher(
		fixedAdapter{dispatch.WebSearch, dispatch.Success("Title1: link1\nTitle2: link2")},
		fixedAdapter{dispatch.Encyclopedia, dispatch.Failure(errors.New("no encyclopedia page found"))},
		document.NewExtractor(document.Config{}),
		panicAdapter{},
	)
	srv := httptest.NewServer(server.NewRouter(server.NewHandler(d, export.NewExporter("t"), 0)))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeResult(t *testing.T, resp *http.Response) server.ResultResponse {
	t.Helper()
	var out server.ResultResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProviders(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/providers")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Providers []string `json:"providers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, []string{"broken", "document", "websearch", "wikipedia"}, out.Providers)
}

func TestQuery(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		provider string
		want     server.ResultResponse
	}{
		{
			name:     "success",
			provider: "google",
			want:     server.ResultResponse{Provider: "websearch", OK: true, Text: "Title1: link1\nTitle2: link2"},
		},
		{
			name:     "failure is surfaced",
			provider: "wikipedia",
			want:     server.ResultResponse{Provider: "wikipedia", Error: "no encyclopedia page found"},
		},
		{
			name:     "unknown provider",
			provider: "altavista",
			want:     server.ResultResponse{Provider: "altavista", Error: "unsupported provider"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/query", map[string]string{"provider": tt.provider, "query": "rust"})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Equal(t, tt.want, decodeResult(t, resp))
		})
	}
}

func TestQueryBadBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/query", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdapterPanicIsFailure(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/query", map[string]string{"provider": "broken", "query": "x"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResult(t, resp)
	require.False(t, out.OK)
	require.Contains(t, out.Error, "broken adapter crashed")
}

func TestRecoveryHandler(t *testing.T) {
	h := server.RecoveryHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler bug")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "internal server error")
}

func TestDocumentUpload(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	fw.Write([]byte("uploaded notes"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/document", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, server.ResultResponse{Provider: "document", OK: true, Text: "uploaded notes"}, decodeResult(t, resp))
}

func TestDocumentUploadMissingFile(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("other", "x")
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/document", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExport(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/export", map[string]any{"text": "", "format": "pdf"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, export.MimePDF, resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), `filename="result.pdf"`)

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	resp = postJSON(t, srv.URL+"/api/export", map[string]any{
		"format":  "docx",
		"results": []server.ResultResponse{{Provider: "websearch", OK: true, Text: "Title1: link1"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, export.MimeDOCX, resp.Header.Get("Content-Type"))

	resp = postJSON(t, srv.URL+"/api/export", map[string]any{"text": "x", "format": "odt"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDiagram(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/diagram", map[string]string{"steps": "collect -> filter -> summarize"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, export.MimePDF, resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "flowchart.pdf")

	resp = postJSON(t, srv.URL+"/api/diagram", map[string]string{"steps": "  "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/query", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
