package wikipedia

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// nonArticle are link prefixes that never name an article
var nonArticle = map[string]bool{
	"file": true, "image": true, "category": true, "wikt": true, "wiktionary": true,
	"special": true, "help": true, "wikipedia": true, "template": true, "portal": true,
}

// ParseCandidates lists the meanings of a disambiguation page in the order
// the page gives them: the first article link of every bullet line, up to
// the "See also" section.
func ParseCandidates(wikitext string) []string {
	var (
		titles []string
		seen   = make(map[string]bool)
	)
	for _, line := range strings.Split(wikitext, "\n") {
		line = strings.TrimSpace(line)
		if isSeeAlso(line) {
			break
		}
		if !strings.HasPrefix(line, "*") {
			continue
		}
		if t := firstArticleLink(line); t != "" && !seen[t] {
			seen[t] = true
			titles = append(titles, t)
		}
	}
	return titles
}

func isSeeAlso(line string) bool {
	if !strings.HasPrefix(line, "==") {
		return false
	}
	heading := strings.TrimSpace(strings.Trim(line, "="))
	return strings.EqualFold(heading, "see also")
}

func firstArticleLink(line string) string {
	for {
		start := strings.Index(line, "[[")
		if start < 0 {
			return ""
		}
		line = line[start+2:]
		end := strings.Index(line, "]]")
		if end < 0 {
			return ""
		}
		target, _, _ := strings.Cut(line[:end], "|")
		line = line[end+2:]
		if t := articleTitle(target); t != "" {
			return t
		}
	}
}

// articleTitle normalizes a link target, or returns "" for links outside
// the article namespace and bare section links.
func articleTitle(target string) string {
	target, _, _ = strings.Cut(target, "#")
	target = strings.TrimSpace(strings.ReplaceAll(target, "_", " "))
	if target == "" || strings.HasPrefix(target, ":") {
		return ""
	}
	if prefix, _, ok := strings.Cut(target, ":"); ok && nonArticle[strings.ToLower(strings.TrimSpace(prefix))] {
		return ""
	}
	r, size := utf8.DecodeRuneInString(target)
	return string(unicode.ToUpper(r)) + target[size:]
}
