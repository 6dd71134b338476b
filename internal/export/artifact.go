package export

import (
	"errors"
	"fmt"
	"strings"
)

// Artifact is a downloadable file produced from result text
type Artifact struct {
	Data     []byte
	MimeType string
	Filename string
}

// Format is an export file format
type Format string

const (
	PDF  Format = "pdf"
	DOCX Format = "docx"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts "pdf" and "docx" in any case, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case PDF, DOCX:
		return f, nil
	case "word":
		return DOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// MimeType returns the fixed MIME type of the format
func (f Format) MimeType() string {
	switch f {
	case PDF:
		return MimePDF
	case DOCX:
		return MimeDOCX
	}
	return "application/octet-stream"
}

// Filename returns the suggested download name for a base name
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}
