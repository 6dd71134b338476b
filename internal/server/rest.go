package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/amityadav/deepresearch/internal/diagram"
	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/amityadav/deepresearch/internal/export"
	"github.com/go-chi/chi/v5"
)

const defaultMaxUpload = 20 << 20

// Handler serves the REST API
type Handler struct {
	dispatcher *dispatch.Dispatcher
	exporter   *export.Exporter
	maxUpload  int64
}

// NewHandler creates the REST handler
func NewHandler(d *dispatch.Dispatcher, e *export.Exporter, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &Handler{dispatcher: d, exporter: e, maxUpload: maxUpload}
}

// Attach registers the API routes
func (h *Handler) Attach(r chi.Router) {
	r.Get("/providers", h.handleProviders)
	r.Post("/query", h.handleQuery)
	r.Post("/document", h.handleDocument)
	r.Post("/export", h.handleExport)
	r.Post("/diagram", h.handleDiagram)
}

// ResultResponse is the JSON shape of a provider result
type ResultResponse struct {
	Provider string `json:"provider"`
	OK       bool   `json:"ok"`
	Text     string `json:"text,omitempty"`
	Error    string `json:"error,omitempty"`
}

func toResponse(r dispatch.Result) ResultResponse {
	resp := ResultResponse{Provider: string(r.Provider), OK: r.OK()}
	if r.OK() {
		resp.Text = r.Text
	} else {
		resp.Error = r.Message()
	}
	return resp
}

func fromResponse(r ResultResponse) dispatch.Result {
	res := dispatch.Success(r.Text)
	if !r.OK {
		res = dispatch.Failure(errors.New(r.Error))
	}
	return res.WithProvider(dispatch.Name(r.Provider))
}

func (h *Handler) handleProviders(w http.ResponseWriter, _ *http.Request) {
	names := h.dispatcher.Names()
	providers := make([]string, len(names))
	for i, n := range names {
		providers[i] = string(n)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"providers": providers})
}

type queryRequest struct {
	Provider string `json:"provider"`
	Query    string `json:"query"`
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.dispatcher.Dispatch(r.Context(), dispatch.ParseName(req.Provider), dispatch.Input{Query: req.Query})
	writeJSON(w, http.StatusOK, toResponse(res))
}

func (h *Handler) handleDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	upload := &dispatch.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	res := h.dispatcher.Dispatch(r.Context(), dispatch.Document, dispatch.Input{Document: upload})
	writeJSON(w, http.StatusOK, toResponse(res))
}

type exportRequest struct {
	Text    string           `json:"text"`
	Results []ResultResponse `json:"results"`
	Format  string           `json:"format"`
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var artifact export.Artifact
	if len(req.Results) > 0 {
		results := make([]dispatch.Result, len(req.Results))
		for i, rr := range req.Results {
			results[i] = fromResponse(rr)
		}
		artifact, err = h.exporter.ExportResults(results, format)
	} else {
		artifact, err = h.exporter.Export(req.Text, format)
	}
	if err != nil {
		log.Printf("[REST] Export failed: %v", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	writeArtifact(w, artifact)
}

type diagramRequest struct {
	Steps string `json:"steps"`
}

func (h *Handler) handleDiagram(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	artifact, err := diagram.Render(diagram.ParseSteps(req.Steps), h.exporter.Font())
	if errors.Is(err, diagram.ErrNoSteps) {
		writeError(w, http.StatusBadRequest, "at least one step is required")
		return
	}
	if err != nil {
		log.Printf("[REST] Diagram failed: %v", err)
		writeError(w, http.StatusInternalServerError, "diagram rendering failed")
		return
	}

	writeArtifact(w, artifact)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeArtifact(w http.ResponseWriter, a export.Artifact) {
	w.Header().Set("Content-Type", a.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+a.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(a.Data)
}
