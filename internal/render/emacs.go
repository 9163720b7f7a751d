package render

import (
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/schema"
)

// compileTemplate renders issues in the file:line format that emacs
// compilation mode (and most editors' error parsers) can jump through.
var compileTemplate = template.Must(template.New("compile").Parse(
	`-*- mode: compilation -*-

Static analysis results for {{.ReportType}}
Generated on {{.ReportDate}}
Severities: {{.Severities}}
Total number of distinct issue types: {{.Total}}
{{range .Problems}}
{{.Severity}}: {{.TypeCount}} distinct issue types
{{- range .Groups}}

{{.Key}} ({{len .Records}}):
{{- range .Records}}
{{.Location}}:{{.Line}}: {{.Description}}
{{- end}}
{{- end}}
{{end}}
{{- if .Filtered}}
{{.Filtered}}
{{end}}`))

// compileSection is one severity bucket of the compile report.
type compileSection struct {
	Severity  schema.Severity
	TypeCount int
	Groups    []*core.IssueGroup
}

type compileData struct {
	ReportType string
	ReportDate string
	Severities string
	Total      int
	Problems   []compileSection
	Filtered   string
}

// WriteCompileText writes the issues as an emacs-compatible compile report.
func WriteCompileText(fileSet *core.FileSet, cfg *contract.Config) error {
	data, err := buildCompileData(fileSet, time.Now())
	if err != nil {
		return err
	}
	return WriteWithFile(cfg.OutputFile, func(w io.Writer) error {
		return compileTemplate.Execute(w, data)
	}, "Wrote compile report")
}

func buildCompileData(fileSet *core.FileSet, at time.Time) (*compileData, error) {
	report, err := fileSet.Report()
	if err != nil {
		return nil, err
	}

	severities := report.Severities()
	severityNames := make([]string, 0, len(severities))
	total := 0
	var problems []compileSection
	for _, severity := range severities {
		severityNames = append(severityNames, string(severity))
		typeCount := report.IssueTypeCountForSeverity(severity)
		total += typeCount
		problems = append(problems, compileSection{
			Severity:  severity,
			TypeCount: typeCount,
			Groups:    report.GroupsForSeverity(severity),
		})
	}

	filtered := ""
	if stats := fileSet.FilterStats(); stats != nil {
		filtered = "Results were filtered by " + stats.String() + "."
	}

	return &compileData{
		ReportType: strings.Join(fileSet.DistinctToolNames(), ", "),
		ReportDate: at.Format(time.ANSIC),
		Severities: strings.Join(severityNames, ", "),
		Total:      total,
		Problems:   problems,
		Filtered:   filtered,
	}, nil
}
