package cmd

import (
	"github.com/spf13/cobra"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
)

// codeclimateCmd converts issues to Code Climate JSON.
var codeclimateCmd = &cobra.Command{
	Use:   "codeclimate [file_or_dir ...]",
	Short: "Convert issues to Code Climate JSON for GitLab.",
	Long: `Read one or more SARIF files and write the issues as a Code Climate
JSON report, the format GitLab CI consumes for merge request code quality
widgets. SARIF severities map to Code Climate severities (error becomes
major, warning becomes minor, note and none become info).

Examples:
  # Write the Code Climate report for a GitLab job artifact
  sarq codeclimate build/ --output-file gl-code-quality-report.json`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		fileSet, err := loadInputFiles(cfg)
		if err != nil {
			contract.LogFatal("Cannot load SARIF files", err)
		}
		if err := render.WriteCodeClimate(fileSet, cfg); err != nil {
			contract.LogFatal("Cannot write Code Climate report", err)
		}
	},
}
