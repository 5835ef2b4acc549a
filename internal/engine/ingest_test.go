package engine

import (
	"strings"
	"testing"
)

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"doctype", "<!DOCTYPE html><html><body>hi</body></html>", true},
		{"html tag", "<html lang=\"en\"><body>hi</body></html>", true},
		{"div fragment", "<div class=\"jd\">Senior Engineer</div>", true},
		{"paragraph fragment", "<p>We are hiring.</p>", true},
		{"plain text", "Senior Engineer\nRemote\nGo, Postgres", false},
		{"text with angle brackets", "salary < 100k > 50k", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksLikeHTML(tt.input); got != tt.want {
				t.Errorf("looksLikeHTML(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIngestJobDescriptionPlainText(t *testing.T) {
	raw := "Backend Engineer\n\nWrite Go services."
	got, err := IngestJobDescription(raw)
	if err != nil {
		t.Fatalf("IngestJobDescription: %v", err)
	}
	if got != raw {
		t.Errorf("plain text changed: %q", got)
	}
}

func TestIngestJobDescriptionHTML(t *testing.T) {
	raw := "<html><body><h1>Backend Engineer</h1><p>Write Go services.</p></body></html>"
	got, err := IngestJobDescription(raw)
	if err != nil {
		t.Fatalf("IngestJobDescription: %v", err)
	}
	if strings.Contains(got, "<p>") || strings.Contains(got, "</h1>") {
		t.Errorf("HTML tags survived conversion: %q", got)
	}
	if !strings.Contains(got, "Backend Engineer") {
		t.Errorf("heading text lost: %q", got)
	}
	if !strings.Contains(got, "Write Go services.") {
		t.Errorf("paragraph text lost: %q", got)
	}
}
