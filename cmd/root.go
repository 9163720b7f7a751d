package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/core/filtering"
	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "sarq",
	Short:              "Process SARIF static analysis output from the command line.",
	Long:               `Sarq reads SARIF files from one or more static analysis tools and summarizes, converts, filters, and compares the issues they report.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".sarq") // Name of config file (without extension)
		viper.SetConfigType("yaml")  // We'll use YAML format
		viper.AddConfigPath(".")     // Look in the current directory
		viper.AddConfigPath("$HOME") // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("SARQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("output-file", "")
	viper.SetDefault("filter", "")
	viper.SetDefault("trim", "")
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("width", 0)
}

// readConfigFile loads the config file if present, tolerating its absence.
func readConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := readConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) > 0 {
		input.PathArgs = args
	} else {
		input.PathArgs = []string{"."}
	}
	input.RepoPathStr = viper.GetString("repo")
	if input.RepoPathStr == "" {
		input.RepoPathStr = "."
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	return contract.ProcessAndValidate(cfg, input)
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadInputFiles loads the SARIF files named by the validated config and
// applies the configured filter, path trimming, and line number defaults.
func loadInputFiles(cfg *contract.Config) (*core.FileSet, error) {
	return loadPathInput(cfg, cfg.Paths)
}

// loadPathInput is loadInputFiles for an explicit path list, used by
// commands that take more than one input set.
func loadPathInput(cfg *contract.Config, paths []string) (*core.FileSet, error) {
	fileSet, err := core.LoadFiles(paths, cfg.Recurse)
	if err != nil {
		return nil, err
	}
	if fileSet.FileCount() == 0 {
		return nil, fmt.Errorf("no SARIF files found in %s", strings.Join(paths, ", "))
	}
	if cfg.FilterFile != "" {
		definition, err := filtering.LoadFilterFile(cfg.FilterFile)
		if err != nil {
			return nil, err
		}
		if err := fileSet.InitGeneralFilter(definition); err != nil {
			return nil, err
		}
	}
	if err := fileSet.InitPathPrefixStripping(cfg.Autotrim, cfg.Trim); err != nil {
		return nil, err
	}
	fileSet.InitDefaultLineNumber()
	return fileSet, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
