package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
	"github.com/statice-dev/sarq/schema"
)

// summaryCmd summarizes issues by severity and issue type.
var summaryCmd = &cobra.Command{
	Use:   "summary [file_or_dir ...]",
	Short: "Summarize issues by severity and issue type.",
	Long: `Read one or more SARIF files and print a summary of the issues they
contain, grouped by severity level and issue type.

Examples:
  # Summarize all SARIF files in the current directory
  sarq summary

  # Summarize one file as JSON
  sarq summary devskim.sarif --output json

  # Fail CI when any warnings (or worse) remain
  sarq summary build/ --check warning

  # Apply a filter file before summarizing
  sarq summary build/ --filter filters/exclude-generated.yaml`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		fileSet, err := loadInputFiles(cfg)
		if err != nil {
			contract.LogFatal("Cannot load SARIF files", err)
		}
		if err := render.WriteSummary(fileSet, cfg); err != nil {
			contract.LogFatal("Cannot write summary", err)
		}
		if ret := summaryCheckValue(fileSet, cfg.Check); ret > 0 {
			fmt.Fprintf(os.Stderr,
				"Check: exiting with return code %d due to issues at or above %s severity\n",
				ret, cfg.Check)
			os.Exit(ret)
		}
	},
}

// summaryCheckValue counts the issues at or above the check severity, which
// becomes the command's exit code. A zero check severity disables the check.
func summaryCheckValue(fileSet *core.FileSet, check schema.Severity) int {
	if check == "" {
		return 0
	}
	report, err := fileSet.Report()
	if err != nil {
		contract.LogFatal("Cannot read issue report", err)
	}
	ret := 0
	for _, severity := range schema.SeveritiesWithNone {
		ret += report.IssueCountForSeverity(severity)
		if severity == check {
			break
		}
	}
	return ret
}
