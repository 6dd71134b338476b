package document

import (
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/unicode"
)

// identityUCS is the ToUnicode body of fonts whose character codes already
// are UTF-16BE, as written by fpdf and most other UTF-8 PDF generators.
const identityUCS = "1 beginbfrange <0000> <FFFF> <0000> endbfrange"

// utf16Encoding decodes two-byte codes through the identity map. The pdf
// reader shifts only the low byte of a bfrange destination, which turns
// every code above U+00FF into a control character.
type utf16Encoding struct{}

func (utf16Encoding) Decode(raw string) string {
	s, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().String(raw)
	if err != nil {
		return ""
	}
	return s
}

type rawEncoding struct{}

func (rawEncoding) Decode(raw string) string { return raw }

func fontEncoding(f pdf.Font) pdf.TextEncoding {
	if f.V.Key("Encoding").Name() == "Identity-H" && isIdentityUCS(f.V.Key("ToUnicode")) {
		return utf16Encoding{}
	}
	return f.Encoder()
}

func isIdentityUCS(cmap pdf.Value) bool {
	if cmap.Kind() != pdf.Stream {
		return false
	}
	rc := cmap.Reader()
	defer rc.Close()
	body, err := io.ReadAll(io.LimitReader(rc, 64<<10))
	if err != nil {
		return false
	}
	return strings.Contains(strings.Join(strings.Fields(string(body)), " "), identityUCS)
}

// pageText walks the content stream of p and decodes every shown string with
// the encoding of the font in effect. Text objects and line moves become
// line breaks.
func pageText(p pdf.Page) string {
	encodings := make(map[string]pdf.TextEncoding)
	for _, name := range p.Fonts() {
		encodings[name] = fontEncoding(p.Font(name))
	}

	var (
		sb      strings.Builder
		enc     pdf.TextEncoding = rawEncoding{}
		pending bool
	)
	show := func(raw string) {
		if pending && sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		pending = false
		sb.WriteString(enc.Decode(raw))
	}

	pdf.Interpret(p.V.Key("Contents"), func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "Tf":
			if len(args) != 2 {
				return
			}
			if e, ok := encodings[args[0].Name()]; ok {
				enc = e
			} else {
				enc = rawEncoding{}
			}
		case "ET", "T*":
			pending = true
		case "Td", "TD":
			if len(args) == 2 && args[1].Float64() != 0 {
				pending = true
			}
		case "'", "\"":
			pending = true
			if len(args) > 0 {
				show(args[len(args)-1].RawString())
			}
		case "Tj":
			if len(args) == 1 {
				show(args[0].RawString())
			}
		case "TJ":
			if len(args) != 1 {
				return
			}
			for i := 0; i < args[0].Len(); i++ {
				if x := args[0].Index(i); x.Kind() == pdf.String {
					show(x.RawString())
				}
			}
		}
	})
	return sb.String()
}
