package engine

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// looksLikeHTML is a cheap sniff for job descriptions saved straight from a
// browser instead of pasted as plain text.
func looksLikeHTML(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(t, "<!doctype html") ||
		strings.HasPrefix(t, "<html") ||
		strings.Contains(t, "</div>") ||
		strings.Contains(t, "</p>")
}

// IngestJobDescription prepares raw job-description input for canonicalization.
// HTML pages are converted to markdown text first; plain text passes through.
func IngestJobDescription(raw string) (string, error) {
	if !looksLikeHTML(raw) {
		return raw, nil
	}
	md, err := htmltomarkdown.ConvertString(raw)
	if err != nil {
		return "", fmt.Errorf("convert html job description: %w", err)
	}
	return md, nil
}
