// Package document extracts plain text from uploaded files.
//
// Supported formats:
//   - PDF  text per page
//   - DOCX paragraphs and tables
//   - PPTX text per slide
//   - HTML readable body text
//   - plain text and markdown, passed through
package document

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/amityadav/deepresearch/internal/textutil"
)

// NoTextMessage is reported when extraction yields nothing
const NoTextMessage = "no readable text found"

const defaultMaxBytes = 20 << 20

// Format of an uploaded file
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatPPTX Format = "pptx"
	FormatHTML Format = "html"
	FormatText Format = "txt"
)

// Config holds extractor limits
type Config struct {
	// MaxBytes rejects larger uploads
	MaxBytes int64
	// MaxChars truncates the extracted text
	MaxChars int
}

// Extractor is the document adapter
type Extractor struct {
	cfg Config
}

// NewExtractor creates a new document extractor
func NewExtractor(cfg Config) *Extractor {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	return &Extractor{cfg: cfg}
}

// Name returns the provider identifier
func (e *Extractor) Name() dispatch.Name {
	return dispatch.Document
}

// Call extracts the text of the uploaded document
func (e *Extractor) Call(_ context.Context, in dispatch.Input) dispatch.Result {
	doc := in.Document
	if doc == nil || len(doc.Data) == 0 {
		return dispatch.Failure(fmt.Errorf("%w: no document uploaded", dispatch.ErrEmptyQuery))
	}
	if int64(len(doc.Data)) > e.cfg.MaxBytes {
		return dispatch.Failure(fmt.Errorf("%w: document is %d bytes (max %d)", dispatch.ErrSchema, len(doc.Data), e.cfg.MaxBytes))
	}

	format, err := Detect(doc.Filename, doc.ContentType, doc.Data)
	if err != nil {
		return dispatch.Failure(err)
	}

	log.Printf("[Document] Extracting %q (%s, %d bytes)", doc.Filename, format, len(doc.Data))
	pages, err := Extract(format, doc.Data)
	if err != nil {
		return dispatch.Failure(err)
	}

	text := Join(pages)
	if text == "" {
		return dispatch.Failure(fmt.Errorf("%w: %s", dispatch.ErrNotFound, NoTextMessage))
	}

	log.Printf("[Document] Extracted %d characters from %d pages", len(text), len(pages))
	return dispatch.Success(textutil.TruncateToLimit(text, e.cfg.MaxChars))
}

// Detect returns the document format from the file extension, then the
// declared content type, then the sniffed content.
func Detect(filename, contentType string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".pptx":
		return FormatPPTX, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".txt", ".text", ".md", ".markdown", ".csv":
		return FormatText, nil
	}

	if f, ok := formatFromMIME(contentType, data); ok {
		return f, nil
	}
	if f, ok := formatFromMIME(http.DetectContentType(data), data); ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: unsupported document format %q", dispatch.ErrSchema, filepath.Ext(filename))
}

func formatFromMIME(contentType string, data []byte) (Format, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	switch mediaType {
	case "application/pdf":
		return FormatPDF, true
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return FormatDOCX, true
	case "application/vnd.openxmlformats-officedocument.presentationml.presentation":
		return FormatPPTX, true
	case "text/html":
		return FormatHTML, true
	case "text/plain", "text/markdown", "text/csv":
		return FormatText, true
	case "application/zip":
		return sniffOOXML(data)
	}
	return "", false
}

// sniffOOXML tells DOCX and PPTX apart by their main part
func sniffOOXML(data []byte) (Format, bool) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", false
	}
	for _, f := range zr.File {
		switch {
		case f.Name == "word/document.xml":
			return FormatDOCX, true
		case strings.HasPrefix(f.Name, "ppt/slides/"):
			return FormatPPTX, true
		}
	}
	return "", false
}

// Extract returns the text of each page (or slide, or section). Parser
// panics on corrupt input are reported as schema errors.
func Extract(format Format, data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: corrupt %s document: %v", dispatch.ErrSchema, format, r)
		}
	}()

	switch format {
	case FormatPDF:
		pages, err = extractPDF(data)
	case FormatDOCX:
		pages, err = extractDOCX(data)
	case FormatPPTX:
		pages, err = extractPPTX(data)
	case FormatHTML:
		pages, err = extractHTML(data)
	case FormatText:
		pages = []string{string(data)}
	default:
		return nil, fmt.Errorf("%w: no parser for format %q", dispatch.ErrSchema, format)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: extract %s: %v", dispatch.ErrSchema, format, err)
	}
	return pages, nil
}

// Join concatenates non-empty pages separated by blank lines
func Join(pages []string) string {
	var parts []string
	for _, p := range pages {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}
