package cmd

import (
	"github.com/spf13/cobra"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
)

// infoCmd describes the structure of SARIF files.
var infoCmd = &cobra.Command{
	Use:   "info [file_or_dir ...]",
	Short: "Describe the structure of SARIF files.",
	Long: `Read one or more SARIF files and print what is in them: file size and
modification time, the runs and the tools that produced them, result
counts, and which property bag keys the results carry.

Examples:
  # Inspect an unfamiliar SARIF file
  sarq info mobsf.sarif`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		fileSet, err := loadInputFiles(cfg)
		if err != nil {
			contract.LogFatal("Cannot load SARIF files", err)
		}
		if err := render.WriteInfo(fileSet, cfg); err != nil {
			contract.LogFatal("Cannot write info", err)
		}
	},
}
