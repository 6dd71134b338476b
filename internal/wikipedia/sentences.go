package wikipedia

import (
	"strings"
	"unicode"
)

// Truncate keeps the first n sentences of text. A sentence ends at '.', '!'
// or '?' followed by whitespace or the end of the text.
func Truncate(text string, n int) string {
	text = strings.TrimSpace(text)
	if n <= 0 {
		return text
	}

	runes := []rune(text)
	count := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		count++
		if count == n {
			return string(runes[:i+1])
		}
	}
	return text
}
