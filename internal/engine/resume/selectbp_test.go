package resume

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_resume/internal/engine"
)

func fixtureEvaluation() *engine.Evaluation {
	return &engine.Evaluation{
		JobTitle:       "Backend Engineer",
		Company:        "Acme",
		JDText:         "Build Go services.",
		JDSummary:      "internal summary that must stay internal",
		JDKeywords:     []string{"go"},
		JDSkills:       []string{"api design"},
		JDTasks:        []string{"ship features"},
		JDTechnologies: []string{"Go"},
	}
}

func fixtureBundle() *engine.Bundle {
	rank := 3
	return &engine.Bundle{
		LibraryVersion: engine.BundleVersion{ID: 1, VersionLabel: "v2024", IsActive: true},
		Sections: []engine.BundleSection{
			{
				ID: 10, Code: "I",
				Organization: "Acme Corp",
				Title:        "Summary",
				Introduction: "Seasoned engineer.",
			},
			{
				ID: 11, Code: "A",
				Organization: "Beta LLC",
				Title:        "Backend Engineer",
				Introduction: "Built services.",
				Bullets: []engine.BundleBullet{
					{ID: 100, Text: "Shipped payments.", SourceKey: "abc", Rank: &rank},
					{ID: 101, Text: "Cut latency 40%."},
				},
			},
		},
	}
}

func TestBuildSelectionPayloadWithholdsInternalFields(t *testing.T) {
	payload, err := BuildSelectionPayload(fixtureEvaluation(), fixtureBundle())
	if err != nil {
		t.Fatalf("BuildSelectionPayload: %v", err)
	}

	if strings.Contains(payload, "jd_summary") {
		t.Error("payload leaks jd_summary")
	}
	if strings.Contains(payload, "internal summary") {
		t.Error("payload leaks summary text")
	}
	if strings.Contains(payload, "rank") {
		t.Error("payload leaks stored bullet ranks")
	}
	if strings.Contains(payload, "is_active") {
		t.Error("payload leaks active flags")
	}
	if strings.Contains(payload, "source_key") || strings.Contains(payload, "abc") {
		t.Error("payload leaks bullet source keys")
	}
}

func TestBuildSelectionPayloadStructure(t *testing.T) {
	payload, err := BuildSelectionPayload(fixtureEvaluation(), fixtureBundle())
	if err != nil {
		t.Fatalf("BuildSelectionPayload: %v", err)
	}

	var doc struct {
		JobDescription map[string]any `json:"job_description"`
		LibraryBundle  struct {
			LibraryVersion struct {
				VersionLabel string `json:"version_label"`
			} `json:"library_version"`
			Sections []struct {
				ID      int64 `json:"id"`
				Code    string
				Bullets []struct {
					ID   int64  `json:"id"`
					Text string `json:"text"`
				} `json:"bullets"`
			} `json:"sections"`
		} `json:"library_bundle"`
	}
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if doc.JobDescription["job_title"] != "Backend Engineer" {
		t.Errorf("job_title = %v", doc.JobDescription["job_title"])
	}
	if doc.LibraryBundle.LibraryVersion.VersionLabel != "v2024" {
		t.Errorf("version_label = %q", doc.LibraryBundle.LibraryVersion.VersionLabel)
	}
	if len(doc.LibraryBundle.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(doc.LibraryBundle.Sections))
	}
	if len(doc.LibraryBundle.Sections[0].Bullets) != 0 {
		t.Errorf("first section bullets = %d, want 0", len(doc.LibraryBundle.Sections[0].Bullets))
	}
	if got := doc.LibraryBundle.Sections[1].Bullets; len(got) != 2 || got[0].ID != 100 {
		t.Errorf("second section bullets = %+v", got)
	}
}

func TestSelectionDirective(t *testing.T) {
	got := selectionDirective([]int{12, 6, 2})
	want := "- the 12 best-aligned bullets from section 2\n" +
		"- the 6 best-aligned bullets from section 3\n" +
		"- the 2 best-aligned bullets from section 4"
	if got != want {
		t.Errorf("selectionDirective = %q, want %q", got, want)
	}
}

func TestSelectionDirectiveSingleSection(t *testing.T) {
	got := selectionDirective([]int{5})
	if got != "- the 5 best-aligned bullets from section 2" {
		t.Errorf("selectionDirective = %q", got)
	}
}
