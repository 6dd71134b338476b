// Package diagram renders a chain of process steps as a box-and-arrow
// flowchart PDF.
package diagram

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/amityadav/deepresearch/internal/export"
	"github.com/go-pdf/fpdf"
)

// Filename is the suggested name of a rendered flowchart
const Filename = "flowchart.pdf"

var ErrNoSteps = errors.New("no steps")

// Layout in millimetres on an A4 portrait page
const (
	boxWidth   = 150.0
	minBoxH    = 15.0
	lineHeight = 5.5
	padding    = 4.75
	gap        = 8.0
	topMargin  = 20.0
	arrowHead  = 2.0
	fontSize   = 11.0
)

// box is one placed step
type box struct {
	page   int
	y      float64
	height float64
	lines  []string
	// arrowed boxes get an arrow into their top edge. On a fresh page the
	// arrow starts in the top margin to show the chain continues.
	arrowed bool
}

// ParseSteps splits "a -> b -> c" on arrows, or "a, b, c" on commas when no
// arrow is present. Blank steps are dropped.
func ParseSteps(input string) []string {
	sep := ","
	if strings.Contains(input, "->") {
		sep = "->"
	}

	var steps []string
	for _, s := range strings.Split(input, sep) {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	return steps
}

// layout wraps each label with split and stacks the boxes top to bottom,
// starting a new page when the next box does not fit above the bottom margin.
// A label taller than a page is cut to the lines that fit.
func layout(steps []string, pageH float64, split func(string) []string) []box {
	boxes := make([]box, 0, len(steps))
	page, y := 0, pageH
	maxLines := int((pageH - 2*topMargin - 2*padding) / lineHeight)

	for i, step := range steps {
		lines := split(step)
		if len(lines) == 0 {
			lines = []string{step}
		}
		if len(lines) > maxLines {
			lines = append(lines[:maxLines-1:maxLines-1], lines[maxLines-1]+" …")
		}
		h := max(minBoxH, float64(len(lines))*lineHeight+2*padding)

		if y+h > pageH-topMargin {
			page++
			y = topMargin
		}
		boxes = append(boxes, box{page: page, y: y, height: h, lines: lines, arrowed: i > 0})
		y += h + gap
	}
	return boxes
}

// Render draws one box per step, top to bottom, joined by arrows. Labels
// wider than a box wrap onto several lines and the box grows to fit.
func Render(steps []string, font export.Font) (export.Artifact, error) {
	if len(steps) == 0 {
		return export.Artifact{}, ErrNoSteps
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetTitle("Process flowchart", true)
	pdf.SetAutoPageBreak(false, 0)
	font.Apply(pdf, fontSize)
	pdf.SetLineWidth(0.8)
	pdf.SetFillColor(0, 0, 0)

	pageW, pageH := pdf.GetPageSize()
	x := (pageW - boxWidth) / 2
	split := func(s string) []string {
		return pdf.SplitText(export.PDFText(s), boxWidth-2*padding)
	}

	for _, b := range layout(steps, pageH, split) {
		if b.page > pdf.PageNo() {
			pdf.AddPage()
		}
		if b.arrowed {
			drawArrow(pdf, pageW/2, b.y-gap, b.y)
		}

		pdf.Rect(x, b.y, boxWidth, b.height, "D")
		textY := b.y + (b.height-float64(len(b.lines))*lineHeight)/2
		for i, line := range b.lines {
			pdf.SetXY(x, textY+float64(i)*lineHeight)
			pdf.CellFormat(boxWidth, lineHeight, line, "", 0, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return export.Artifact{}, fmt.Errorf("failed to render flowchart: %w", err)
	}

	log.Printf("[Diagram] Rendered %d steps on %d pages", len(steps), pdf.PageNo())
	return export.Artifact{
		Data:     buf.Bytes(),
		MimeType: export.MimePDF,
		Filename: Filename,
	}, nil
}

func drawArrow(pdf *fpdf.Fpdf, cx, y1, y2 float64) {
	pdf.Line(cx, y1, cx, y2)
	pdf.Polygon([]fpdf.PointType{
		{X: cx - arrowHead, Y: y2 - arrowHead},
		{X: cx + arrowHead, Y: y2 - arrowHead},
		{X: cx, Y: y2},
	}, "F")
}
