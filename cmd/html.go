package cmd

import (
	"github.com/spf13/cobra"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
)

// htmlCmd writes a self-contained HTML report.
var htmlCmd = &cobra.Command{
	Use:   "html [file_or_dir ...]",
	Short: "Write a self-contained HTML issue report.",
	Long: `Read one or more SARIF files and write a single HTML page with the
issues grouped by severity and issue type. Each issue type expands to the
list of locations where it occurs.

Examples:
  # Write the report for a scan directory
  sarq html build/ --output-file report.html`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		fileSet, err := loadInputFiles(cfg)
		if err != nil {
			contract.LogFatal("Cannot load SARIF files", err)
		}
		if err := render.WriteHTML(fileSet, cfg); err != nil {
			contract.LogFatal("Cannot write HTML report", err)
		}
	},
}
