package engine

import (
	"strings"
	"testing"
)

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Senior Go Developer\n\nRemote, full time.",
		"  line one  \r\n\r\n\r\n\r\nline two\r\n",
		"",
		"single line",
	}
	for _, in := range inputs {
		once := Canonicalize(in)
		twice := Canonicalize(once)
		if once != twice {
			t.Errorf("Canonicalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestCanonicalizeLineEndings(t *testing.T) {
	lf := "Backend Engineer\nAcme Corp\n\nBuild services in Go."
	crlf := "Backend Engineer\r\nAcme Corp\r\n\r\nBuild services in Go."
	cr := "Backend Engineer\rAcme Corp\r\rBuild services in Go."

	if Canonicalize(lf) != Canonicalize(crlf) {
		t.Error("LF and CRLF inputs produced different canonical text")
	}
	if Canonicalize(lf) != Canonicalize(cr) {
		t.Error("LF and CR inputs produced different canonical text")
	}
}

func TestCanonicalizeTrailingWhitespace(t *testing.T) {
	clean := "Job Title\nDescription line."
	dirty := "Job Title   \n   Description line.\t"
	if Canonicalize(clean) != Canonicalize(dirty) {
		t.Errorf("trailing whitespace changed canonical text: %q vs %q",
			Canonicalize(clean), Canonicalize(dirty))
	}
}

func TestCanonicalizeBlankLineCollapse(t *testing.T) {
	in := "first\n\n\n\n\nsecond"
	got := Canonicalize(in)
	want := "first\n\nsecond"
	if got != want {
		t.Errorf("Canonicalize(%q) = %q, want %q", in, got, want)
	}
}

func TestCanonicalizeUnicodeNFKC(t *testing.T) {
	// Fullwidth forms normalize to their ASCII equivalents.
	fullwidth := "Ｇｏ Ｄｅｖｅｌｏｐｅｒ"
	got := Canonicalize(fullwidth)
	if !strings.Contains(got, "Go Developer") {
		t.Errorf("NFKC normalization missing: got %q", got)
	}
}

func TestFingerprintStableAcrossCosmeticDifferences(t *testing.T) {
	a := Canonicalize("Role: DevOps\r\nLocation: Remote   ")
	b := Canonicalize("Role: DevOps\nLocation: Remote")
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("cosmetically equivalent texts produced different fingerprints")
	}
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	a := Fingerprint("job description one")
	b := Fingerprint("job description two")
	if a == b {
		t.Error("different texts produced identical fingerprints")
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(a))
	}
}
