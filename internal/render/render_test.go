package render

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyenthenguyen/docx"

	"github.com/anatolykoptev/go_resume/internal/engine"
)

func testBundle() *engine.Bundle {
	r1, r2 := 1, 2
	return &engine.Bundle{
		LibraryVersion: engine.BundleVersion{VersionLabel: "v2024"},
		Sections: []engine.BundleSection{
			{
				Code: "I", Organization: "Self", Title: "Summary",
				Introduction: "Seasoned engineer.",
			},
			{
				Code: "A", Organization: "Beta LLC", Title: "Backend Engineer",
				Introduction: "Built services.",
				Bullets: []engine.BundleBullet{
					{ID: 1, Text: "Top bullet.", Rank: &r1},
					{ID: 2, Text: "Second bullet.", Rank: &r2},
				},
			},
		},
	}
}

func TestBuildContext(t *testing.T) {
	ctx := BuildContext(testBundle())

	want := map[string]string{
		"version_label":  "v2024",
		"i_organization": "Self",
		"i_title":        "Summary",
		"i_introduction": "Seasoned engineer.",
		"a_organization": "Beta LLC",
		"a_title":        "Backend Engineer",
		"a_introduction": "Built services.",
		"a_bp_1":         "Top bullet.",
		"a_bp_2":         "Second bullet.",
	}
	for k, v := range want {
		if got := ctx[k]; got != v {
			t.Errorf("ctx[%q] = %q, want %q", k, got, v)
		}
	}
	if len(ctx) != len(want) {
		t.Errorf("context has %d keys, want %d: %v", len(ctx), len(want), ctx)
	}
}

func TestBuildContextNoVersionLabel(t *testing.T) {
	b := testBundle()
	b.LibraryVersion.VersionLabel = ""
	ctx := BuildContext(b)
	if _, ok := ctx["version_label"]; ok {
		t.Error("empty version label should not produce a key")
	}
}

// writeMinimalDocx builds the smallest zip structure the docx reader accepts.
func writeMinimalDocx(t *testing.T, path, bodyText string) {
	t.Helper()

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>` + bodyText + `</w:t></w:r></w:p></w:body>
</w:document>`

	contentTypes := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

	documentRels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"[Content_Types].xml":          contentTypes,
		"_rels/.rels":                  rels,
		"word/document.xml":            document,
		"word/_rels/document.xml.rels": documentRels,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}

func TestRenderDocx(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "template.docx")
	out := filepath.Join(dir, "out.docx")
	writeMinimalDocx(t, tmpl, "{{a_organization}} / {{a_bp_1}} / {{missing_key}}")

	err := RenderDocx(tmpl, out, BuildContext(testBundle()))
	if err != nil {
		t.Fatalf("RenderDocx: %v", err)
	}

	doc, err := docx.ReadDocxFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	defer doc.Close()
	content := doc.Editable().GetContent()

	if !strings.Contains(content, "Beta LLC") {
		t.Errorf("organization not substituted: %s", content)
	}
	if !strings.Contains(content, "Top bullet.") {
		t.Errorf("bullet not substituted: %s", content)
	}
	if !strings.Contains(content, "{{missing_key}}") {
		t.Errorf("unknown placeholder should stay untouched: %s", content)
	}
	if strings.Contains(content, "{{a_organization}}") {
		t.Errorf("placeholder survived substitution: %s", content)
	}
}

func TestRenderDocxMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	err := RenderDocx(filepath.Join(dir, "nope.docx"), filepath.Join(dir, "out.docx"), nil)
	if err == nil {
		t.Fatal("expected error for missing template")
	}
}
