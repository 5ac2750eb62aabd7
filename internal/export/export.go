// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders generated past papers as downloadable documents.
//
// Papers are exported as a minimal HTML document wrapped for the legacy
// word-processor MIME type, which every common office suite opens as a
// formatted document.
package export

import (
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/sankofalabs/bece-tui/internal/subjects"
	"github.com/sankofalabs/bece-tui/internal/util"
)

// MimeType is the legacy word-processor type the bundle is served as.
const MimeType = "application/msword"

// =============================================================================
// DOC EXPORTER
// =============================================================================

// DocExporter renders past-paper text into a .doc bundle.
type DocExporter struct {
	// OutputDir receives exported files. Empty means the working directory.
	OutputDir string
}

// NewDocExporter creates an exporter writing into dir.
func NewDocExporter(dir string) *DocExporter {
	return &DocExporter{OutputDir: dir}
}

// Filename returns the bundle filename for a subject and year, e.g.
// "BECE_2019_Mathematics_Full_Bundle.doc".
func (e *DocExporter) Filename(subject, year string) string {
	title := subjects.DisplayTitle(subject)
	title = strings.ReplaceAll(title, " ", "_")
	return fmt.Sprintf("BECE_%s_%s_Full_Bundle.doc", year, title)
}

// Export renders the paper text as a complete document.
func (e *DocExporter) Export(subject, year, paperText string) []byte {
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"UTF-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>BECE %s %s Past Paper</title>\n",
		html.EscapeString(year), html.EscapeString(subjects.DisplayTitle(subject))))
	sb.WriteString(documentCSS)
	sb.WriteString("</head>\n<body>\n")

	sb.WriteString("<div class=\"header\">\n")
	sb.WriteString("<h1>Basic Education Certificate Examination</h1>\n")
	sb.WriteString(fmt.Sprintf("<h2>%s &mdash; %s</h2>\n",
		html.EscapeString(subjects.DisplayTitle(subject)), html.EscapeString(year)))
	sb.WriteString("</div>\n")

	sb.WriteString("<div class=\"paper\">\n")
	for _, line := range strings.Split(paperText, "\n") {
		if strings.TrimSpace(line) == "" {
			sb.WriteString("<br>\n")
			continue
		}
		sb.WriteString("<p>" + html.EscapeString(line) + "</p>\n")
	}
	sb.WriteString("</div>\n")

	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String())
}

// ExportToFile renders the paper and writes it atomically. Returns the full
// path of the written file.
func (e *DocExporter) ExportToFile(subject, year, paperText string) (string, error) {
	dir := e.OutputDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, e.Filename(subject, year))
	if err := util.AtomicWriteFile(path, e.Export(subject, year, paperText), 0644); err != nil {
		return "", fmt.Errorf("failed to export paper: %w", err)
	}
	return path, nil
}

// Fixed styling; office suites read the embedded CSS when opening the
// msword-typed HTML.
const documentCSS = `<style>
body { font-family: "Times New Roman", serif; font-size: 12pt; margin: 2cm; }
.header { text-align: center; border-bottom: 2px solid #000; padding-bottom: 8px; margin-bottom: 16px; }
.header h1 { font-size: 16pt; margin: 0; }
.header h2 { font-size: 13pt; font-weight: normal; margin: 4px 0 0 0; }
.paper p { margin: 0 0 4px 0; line-height: 1.4; }
</style>
`
