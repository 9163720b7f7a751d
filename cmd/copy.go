package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
)

// copyCmd combines SARIF files into one output file.
var copyCmd = &cobra.Command{
	Use:   "copy [file_or_dir ...]",
	Short: "Combine SARIF files into a single output file.",
	Long: `Read one or more SARIF files and write their runs into one combined
SARIF file, recording the conversion in each run. Any active filter is
applied first, so this is also the way to materialize a filtered SARIF
file for downstream tools.

Examples:
  # Combine a directory of scans into out.sarif
  sarq copy build/

  # Write a timestamped snapshot for trend analysis
  sarq copy build/ --output-file nightly/scan.sarif --timestamp

  # Materialize a filtered copy
  sarq copy build/ --filter filters/exclude-generated.yaml --output-file filtered.sarif`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		fileSet, err := loadInputFiles(cfg)
		if err != nil {
			contract.LogFatal("Cannot load SARIF files", err)
		}
		cmdline := strings.Join(os.Args, " ")
		if _, err := render.CopySarif(fileSet, cfg, version, cmdline, viper.GetBool("timestamp")); err != nil {
			contract.LogFatal("Cannot copy SARIF files", err)
		}
	},
}
