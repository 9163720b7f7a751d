package render

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
)

//go:embed templates/report.html
var templatesFS embed.FS

var htmlTemplate = template.Must(template.ParseFS(templatesFS, "templates/report.html"))

// WriteHTML writes the issues as a standalone HTML report with collapsible
// per-issue sections.
func WriteHTML(fileSet *core.FileSet, cfg *contract.Config) error {
	data, err := buildCompileData(fileSet, time.Now())
	if err != nil {
		return err
	}
	return WriteWithFile(cfg.OutputFile, func(w io.Writer) error {
		return htmlTemplate.Execute(w, data)
	}, "Wrote HTML report")
}
