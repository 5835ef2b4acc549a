// Package render turns a persisted decision bundle into a docx document by
// substituting placeholders in a binary template. The placeholder set is a
// contract defined by the template file, not validated here.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/anatolykoptev/go_resume/internal/engine"
)

// BuildContext flattens a decision bundle into the key→value map the
// template substitutes. Per section (code lowercased):
//
//	<code>_organization, <code>_title, <code>_introduction
//	<code>_bp_1 .. <code>_bp_n  (bullets in stored order)
//
// plus version_label for the whole document.
func BuildContext(bundle *engine.Bundle) map[string]string {
	ctx := make(map[string]string)
	if bundle.LibraryVersion.VersionLabel != "" {
		ctx["version_label"] = bundle.LibraryVersion.VersionLabel
	}
	for _, sec := range bundle.Sections {
		code := strings.ToLower(sec.Code)
		ctx[code+"_organization"] = sec.Organization
		ctx[code+"_title"] = sec.Title
		ctx[code+"_introduction"] = sec.Introduction
		for i, b := range sec.Bullets {
			ctx[fmt.Sprintf("%s_bp_%d", code, i+1)] = b.Text
		}
	}
	return ctx
}

// RenderDocx loads the template, replaces every {{key}} placeholder with its
// context value and writes the result. Placeholders without a context entry
// are left untouched.
func RenderDocx(templatePath, outputPath string, context map[string]string) error {
	if _, err := os.Stat(templatePath); err != nil {
		return fmt.Errorf("template %s: %w", templatePath, err)
	}

	doc, err := docx.ReadDocxFile(templatePath)
	if err != nil {
		return fmt.Errorf("read template %s: %w", templatePath, err)
	}
	defer doc.Close()

	editable := doc.Editable()

	// Deterministic replacement order keeps runs reproducible.
	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := editable.Replace("{{"+k+"}}", context[k], -1); err != nil {
			return fmt.Errorf("replace %q: %w", k, err)
		}
	}

	if err := editable.WriteToFile(outputPath); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}

	engine.IncrRenders()
	slog.Info("document rendered",
		slog.String("template", templatePath),
		slog.String("output", outputPath),
		slog.Int("keys", len(keys)),
	)
	return nil
}
