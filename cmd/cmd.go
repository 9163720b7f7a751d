// Package cmd defines the command-line interface for sarq.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(csvCmd)
	rootCmd.AddCommand(codeclimateCmd)
	rootCmd.AddCommand(emacsCmd)
	rootCmd.AddCommand(htmlCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(blameCmd)
	rootCmd.AddCommand(upgradeFilterCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().StringP("output-file", "o", "", "Optional path to write output to")
	rootCmd.PersistentFlags().StringP("filter", "f", "", "Path to a YAML filter file applied to all loaded results")
	rootCmd.PersistentFlags().String("trim", "", "Comma-separated list of path prefixes to strip from issue locations")
	rootCmd.PersistentFlags().Bool("autotrim", false, "Strip the longest common prefix from issue locations")
	rootCmd.PersistentFlags().BoolP("recurse", "r", false, "Look for SARIF files in subdirectories too")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Blame cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of summaryCmd to Viper
	summaryCmd.Flags().String("check", "", "Exit with error code if issues at or above this severity are found: error or warning or note")
	if err := viper.BindPFlags(summaryCmd.Flags()); err != nil {
		contract.LogFatal("Error binding summary flags", err)
	}

	// Bind all flags of diffCmd to Viper
	diffCmd.Flags().String("check", "", "Exit with error code if new issues at or above this severity appear: error or warning or note")
	if err := viper.BindPFlags(diffCmd.Flags()); err != nil {
		contract.LogFatal("Error binding diff flags", err)
	}

	// Bind all flags of trendCmd to Viper
	trendCmd.Flags().String("dateformat", "dmy", "Date component order for trend rows: dmy or mdy or ymd")
	if err := viper.BindPFlags(trendCmd.Flags()); err != nil {
		contract.LogFatal("Error binding trend flags", err)
	}

	// Bind all flags of copyCmd to Viper
	copyCmd.Flags().Bool("timestamp", false, "Append a timestamp to the output file name")
	if err := viper.BindPFlags(copyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding copy flags", err)
	}

	// Bind all flags of blameCmd to Viper
	blameCmd.Flags().String("repo", ".", "Path to the Git repository the issues were reported against")
	if err := viper.BindPFlags(blameCmd.Flags()); err != nil {
		contract.LogFatal("Error binding blame flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
