// Package textutil holds text helpers shared by the provider adapters.
package textutil

import (
	"log"
	"unicode/utf8"
)

// TruncatedMarker is appended to text cut by TruncateToLimit
const TruncatedMarker = "\n...[truncated]"

// TruncateToLimit cuts content to at most maxChars bytes on a rune boundary
// and marks the cut. A non-positive limit disables truncation.
func TruncateToLimit(content string, maxChars int) string {
	if maxChars <= 0 || len(content) <= maxChars {
		return content
	}
	log.Printf("[Truncate] Cutting from %d to %d chars", len(content), maxChars)
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + TruncatedMarker
}
