package cmd

import (
	"github.com/spf13/cobra"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
)

// emacsCmd writes issues in Emacs compilation mode format.
var emacsCmd = &cobra.Command{
	Use:   "emacs [file_or_dir ...]",
	Short: "Write issues in Emacs compilation mode format.",
	Long: `Read one or more SARIF files and write the issues as a compilation
buffer: a "location:line: description" line per issue, grouped by severity,
so Emacs (or any editor that understands compilation output) can jump
straight to each finding.

Examples:
  # Write the compilation view of a scan
  sarq emacs build/ --output-file issues.txt`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		fileSet, err := loadInputFiles(cfg)
		if err != nil {
			contract.LogFatal("Cannot load SARIF files", err)
		}
		if err := render.WriteCompileText(fileSet, cfg); err != nil {
			contract.LogFatal("Cannot write compilation text", err)
		}
	},
}
