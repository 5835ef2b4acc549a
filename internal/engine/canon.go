package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// Canonicalize normalizes raw job-description text so that cosmetically
// different inputs (CRLF vs LF, trailing spaces, Unicode presentation forms)
// produce identical output and therefore identical fingerprints.
// Total over any string input.
func Canonicalize(text string) string {
	t := strings.ReplaceAll(text, "\r\n", "\n")
	t = strings.ReplaceAll(t, "\r", "\n")
	t = norm.NFKC.String(t)

	lines := strings.Split(t, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	t = strings.Join(lines, "\n")

	// Collapse runs of 3+ newlines to exactly one blank line.
	t = blankRunRe.ReplaceAllString(t, "\n\n")
	return strings.TrimSpace(t)
}

// Fingerprint returns the hex sha256 of the UTF-8 encoding of text.
// Callers are expected to pass canonical text; the hash is the dedup key
// for stored evaluations.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
