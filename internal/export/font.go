package export

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the UTF-8 family registered on every generated PDF
const FontFamily = "body"

// Font is a TrueType font embedded into generated PDFs. The default Go font
// covers Latin, Greek and Cyrillic; scripts such as CJK need a font file
// that carries their glyphs.
type Font struct {
	ttf []byte
}

// DefaultFont returns the bundled Go Regular font
func DefaultFont() Font {
	return Font{ttf: goregular.TTF}
}

// LoadFont reads a TrueType font file. An empty path gives the default font.
func LoadFont(path string) (Font, error) {
	if path == "" {
		return DefaultFont(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Font{}, fmt.Errorf("failed to read font %s: %w", path, err)
	}
	return Font{ttf: data}, nil
}

// Apply registers the font on pdf and selects it at size points
func (f Font) Apply(pdf *fpdf.Fpdf, size float64) {
	ttf := f.ttf
	if len(ttf) == 0 {
		ttf = goregular.TTF
	}
	pdf.AddUTF8FontFromBytes(FontFamily, "", ttf)
	pdf.SetFont(FontFamily, "", size)
}

// PDFText prepares s for a UTF-8 PDF font. The font tables only index the
// Basic Multilingual Plane, so runes beyond it become U+FFFD.
func PDFText(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return unicode.ReplacementChar
		}
		return r
	}, s)
}
