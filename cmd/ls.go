package cmd

import (
	"github.com/spf13/cobra"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
)

// lsCmd lists the SARIF files in the given paths.
var lsCmd = &cobra.Command{
	Use:   "ls [file_or_dir ...]",
	Short: "List the SARIF files in the given paths.",
	Long: `List the SARIF files found at each given path, without reading their
contents. Useful for checking which files the other commands would pick up.

Examples:
  # List SARIF files in the current directory
  sarq ls

  # List SARIF files in a build tree, including subdirectories
  sarq ls build/ --recurse`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := render.WriteLs(cfg.Paths, cfg); err != nil {
			contract.LogFatal("Cannot list SARIF files", err)
		}
	},
}
