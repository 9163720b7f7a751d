package cmd

import (
	"github.com/spf13/cobra"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
	"github.com/statice-dev/sarq/schema"
)

// csvCmd writes one row per issue in CSV form.
var csvCmd = &cobra.Command{
	Use:   "csv [file_or_dir ...]",
	Short: "Write one row per issue in CSV format.",
	Long: `Read one or more SARIF files and write every issue as a CSV row with
tool, location, line, severity, code, and description columns. Issues that
carry blame information get an extra author column.

Examples:
  # Write all issues to stdout
  sarq csv build/

  # Write all issues to a file
  sarq csv build/ --output-file issues.csv

  # Trim a path prefix from the location column
  sarq csv build/ --trim /home/ci/checkout

  # Export the same rows as a Parquet file instead
  sarq csv build/ --output parquet --output-file issues.parquet`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		fileSet, err := loadInputFiles(cfg)
		if err != nil {
			contract.LogFatal("Cannot load SARIF files", err)
		}
		if cfg.Output == schema.ParquetOut {
			if err := render.WriteParquet(fileSet, cfg); err != nil {
				contract.LogFatal("Cannot write Parquet", err)
			}
			return
		}
		if err := render.WriteCSV(fileSet, cfg); err != nil {
			contract.LogFatal("Cannot write CSV", err)
		}
	},
}
