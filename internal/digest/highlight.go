package digest

import (
	"html/template"
	"regexp"
)

// DefaultKeywords is the vocabulary highlighted inside rationale text.
var DefaultKeywords = []string{
	"RHCSA", "Linux", "Node.js", "Kubernetes", "Docker",
	"DevOps", "MongoDB", "Express", "System Admin", "SRE",
}

const highlightSpanOpen = `<span style="background-color: #e3f2fd; color: #0d47a1; font-weight: bold; padding: 0 4px; border-radius: 3px;">`

// HighlightKeywords escapes the text and wraps every keyword occurrence in a
// styled span. Matching is case-insensitive; the rendered casing comes from
// the keyword list, not the source text.
func HighlightKeywords(text string, keywords []string) template.HTML {
	escaped := template.HTMLEscapeString(text)

	for _, word := range keywords {
		pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(template.HTMLEscapeString(word)))
		escaped = pattern.ReplaceAllLiteralString(escaped, highlightSpanOpen+template.HTMLEscapeString(word)+`</span>`)
	}

	return template.HTML(escaped)
}
