package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/schema"
)

// SummaryLines generates the plain text summary: for each severity level in
// priority order, the issue count followed by the per-issue-type breakdown.
func SummaryLines(fileSet *core.FileSet) ([]string, error) {
	report, err := fileSet.Report()
	if err != nil {
		return nil, err
	}
	var ret []string
	for _, severity := range report.Severities() {
		ret = append(ret, fmt.Sprintf("\n%s: %d", severity, report.IssueCountForSeverity(severity)))
		for _, group := range report.GroupsForSeverity(severity) {
			ret = append(ret, fmt.Sprintf(" - %s: %d", group.Key, len(group.Records)))
		}
	}
	if stats := fileSet.FilterStats(); stats != nil {
		ret = append(ret, fmt.Sprintf("\nResults were filtered by %s", stats))
	}
	return ret, nil
}

// WriteSummary writes the issue summary in the configured output mode.
func WriteSummary(fileSet *core.FileSet, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return WriteWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryJSON(w, fileSet)
		}, "Wrote JSON summary")
	default:
		return WriteWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, fileSet, cfg)
		}, "Wrote summary")
	}
}

// SummaryEntry is one issue type in the JSON summary.
type SummaryEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// SummarySeverity is one severity bucket in the JSON summary.
type SummarySeverity struct {
	Severity   schema.Severity `json:"severity"`
	IssueCount int             `json:"issue_count"`
	TypeCount  int             `json:"type_count"`
	Issues     []SummaryEntry  `json:"issues"`
}

// SummaryJSON builds the structured summary used by the JSON output mode
// and the MCP server.
func SummaryJSON(fileSet *core.FileSet) ([]SummarySeverity, error) {
	report, err := fileSet.Report()
	if err != nil {
		return nil, err
	}
	var output []SummarySeverity
	for _, severity := range report.Severities() {
		entry := SummarySeverity{
			Severity:   severity,
			IssueCount: report.IssueCountForSeverity(severity),
			TypeCount:  report.IssueTypeCountForSeverity(severity),
			Issues:     []SummaryEntry{},
		}
		for _, group := range report.GroupsForSeverity(severity) {
			entry.Issues = append(entry.Issues, SummaryEntry{Key: group.Key, Count: len(group.Records)})
		}
		output = append(output, entry)
	}
	return output, nil
}

func writeSummaryJSON(w io.Writer, fileSet *core.FileSet) error {
	output, err := SummaryJSON(fileSet)
	if err != nil {
		return err
	}
	return writeJSON(w, output)
}

func writeSummaryTable(w io.Writer, fileSet *core.FileSet, cfg *contract.Config) error {
	report, err := fileSet.Report()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Severity", "Issue", "Count"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxKeyWidth := getMaxTableKeyWidth(cfg)
	var data [][]string
	for _, severity := range report.Severities() {
		label := contract.GetPlainSeverityLabel(severity)
		if cfg.UseColors {
			label = contract.GetColorSeverityLabel(severity)
		}
		for _, group := range report.GroupsForSeverity(severity) {
			data = append(data, []string{
				label,
				truncateKey(group.Key, maxKeyWidth),
				fmt.Sprintf("%d", len(group.Records)),
			})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, severity := range report.Severities() {
		if _, err := fmt.Fprintf(w, "%s: %d\n", severity, report.IssueCountForSeverity(severity)); err != nil {
			return err
		}
	}
	if stats := fileSet.FilterStats(); stats != nil {
		if _, err := fmt.Fprintf(w, "Results were filtered by %s\n", stats); err != nil {
			return err
		}
	}
	return nil
}
