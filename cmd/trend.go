package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
)

// trendCmd writes issue counts over time in CSV format.
var trendCmd = &cobra.Command{
	Use:   "trend [file_or_dir ...]",
	Short: "Write issue counts over time in CSV format.",
	Long: `Read a series of timestamped SARIF files and write one CSV row per
scan with the issue count at each severity level, ordered by scan time.
File names must contain a yyyymmddThhmmssZ timestamp, as produced by
"sarq copy --timestamp".

Examples:
  # Chart the nightly scan history
  sarq trend nightly/ --output-file trend.csv

  # Use month-first dates for spreadsheets with US locale
  sarq trend nightly/ --dateformat mdy`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		fileSet, err := loadInputFiles(cfg)
		if err != nil {
			contract.LogFatal("Cannot load SARIF files", err)
		}
		if err := render.WriteTrend(fileSet, cfg, viper.GetString("dateformat")); err != nil {
			contract.LogFatal("Cannot write trend", err)
		}
	},
}
