package export

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/amityadav/deepresearch/internal/dispatch"
	docx "github.com/fumiama/go-docx"
	"github.com/go-pdf/fpdf"
)

const defaultBaseName = "result"

// documentDate is stamped into PDF metadata so identical text gives identical output
var documentDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Exporter serializes result text into downloadable documents
type Exporter struct {
	title    string
	baseName string
	font     Font
}

// NewExporter creates an exporter. title is written into document metadata.
func NewExporter(title string) *Exporter {
	if title == "" {
		title = "Research result"
	}
	return &Exporter{title: title, baseName: defaultBaseName, font: DefaultFont()}
}

// WithFont replaces the font used for PDF output
func (e *Exporter) WithFont(f Font) *Exporter {
	e.font = f
	return e
}

// Font returns the font used for PDF output
func (e *Exporter) Font() Font {
	return e.font
}

// Export renders text as a PDF or DOCX artifact. Empty text produces a
// valid document with an empty page.
func (e *Exporter) Export(text string, format Format) (Artifact, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case PDF:
		data, err = e.renderPDF(text)
	case DOCX:
		data, err = e.renderDOCX(text)
	default:
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Artifact{}, err
	}

	log.Printf("[Export] Rendered %s (%d bytes from %d chars)", format, len(data), len(text))
	return Artifact{
		Data:     data,
		MimeType: format.MimeType(),
		Filename: format.Filename(e.baseName),
	}, nil
}

// ExportResults concatenates several results, each under its provider heading
func (e *Exporter) ExportResults(results []dispatch.Result, format Format) (Artifact, error) {
	return e.Export(dispatch.Join(results), format)
}

func lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func (e *Exporter) renderPDF(text string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(e.title, true)
	pdf.SetCreator("deepresearch", true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	e.font.Apply(pdf, 11)

	for _, line := range lines(text) {
		if strings.TrimSpace(line) == "" {
			pdf.Ln(5.5)
			continue
		}
		pdf.MultiCell(0, 5.5, PDFText(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) renderDOCX(text string) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()
	for _, line := range lines(text) {
		p := doc.AddParagraph()
		if line != "" {
			p.AddText(line)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render docx: %w", err)
	}
	return buf.Bytes(), nil
}
