package cmd

import (
	"github.com/spf13/cobra"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
)

// upgradeFilterCmd converts a legacy blame filter file to YAML form.
var upgradeFilterCmd = &cobra.Command{
	Use:   "upgrade-filter <old_filter_file> <new_filter_file>",
	Short: "Convert a legacy blame filter file to the YAML filter format.",
	Long: `Convert a legacy line-oriented blame filter file (one author-mail
pattern per line, with optional "+: " and "-: " prefixes) into a YAML
filter file usable with --filter.

Examples:
  # Convert a legacy filter
  sarq upgrade-filter old-filter.txt filter.yaml`,
	Args: cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		if err := render.UpgradeFilterFile(args[0], args[1]); err != nil {
			contract.LogFatal("Cannot upgrade filter file", err)
		}
	},
}
