package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
)

// diffCmd compares the issues in two SARIF sets.
var diffCmd = &cobra.Command{
	Use:   "diff <old_file_or_dir> <new_file_or_dir>",
	Short: "Compare two sets of SARIF files.",
	Long: `Compare the issues in an older and a newer set of SARIF files and
report, per severity level, which issue types are new, which were
eliminated, and where new occurrences appeared.

Examples:
  # Compare two scans of the same code base
  sarq diff main.sarif branch.sarif

  # Fail CI when the branch introduces new errors
  sarq diff main.sarif branch.sarif --check error

  # Write the diff as JSON
  sarq diff before/ after/ --output-file diff.json`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		oldSet, err := loadPathInput(cfg, cfg.Paths[:1])
		if err != nil {
			contract.LogFatal("Cannot load old SARIF files", err)
		}
		newSet, err := loadPathInput(cfg, cfg.Paths[1:])
		if err != nil {
			contract.LogFatal("Cannot load new SARIF files", err)
		}
		ret, err := render.WriteDiff(oldSet, newSet, cfg)
		if err != nil {
			contract.LogFatal("Cannot write diff", err)
		}
		if ret > 0 {
			os.Exit(ret)
		}
	},
}
