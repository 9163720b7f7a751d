package contract

import (
	"fmt"
	"strings"

	"github.com/statice-dev/sarq/schema"
)

// Config holds the runtime configuration for a command.
// This struct remains the "final, validated" config.
type Config struct {
	Paths []string

	Output     schema.OutputMode
	OutputFile string

	FilterFile string
	Trim       []string
	Autotrim   bool
	Recurse    bool

	// Check is the severity at or above which issues fail the command, or
	// "" when no check is requested.
	Check schema.Severity

	UseColors bool
	Width     int // Terminal width override (0 = auto-detect)

	RepoPath       string // blame enrichment target repository
	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	PathArgs    []string
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Filter         string `mapstructure:"filter"`
	Trim           string `mapstructure:"trim"`
	Autotrim       bool   `mapstructure:"autotrim"`
	Recurse        bool   `mapstructure:"recurse"`
	Color          string `mapstructure:"color"`
	Width          int    `mapstructure:"width"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`

	// --- Fields from summaryCmd and diffCmd Flags() ---
	Check string `mapstructure:"check"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateCacheBackend(cfg, input); err != nil {
		return err
	}
	cfg.Paths = input.PathArgs
	cfg.RepoPath = input.RepoPathStr
	cfg.OutputFile = input.OutputFile
	cfg.FilterFile = input.Filter
	cfg.Autotrim = input.Autotrim
	cfg.Recurse = input.Recurse
	cfg.Width = input.Width
	if input.Trim != "" {
		for _, prefix := range strings.Split(input.Trim, ",") {
			if prefix = strings.TrimSpace(prefix); prefix != "" {
				cfg.Trim = append(cfg.Trim, prefix)
			}
		}
	}
	return nil
}

func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output mode: %s", input.Output)
	}

	cfg.Check = ""
	if input.Check != "" {
		check := schema.Severity(strings.ToLower(input.Check))
		if !schema.ValidSeverity(check) {
			return fmt.Errorf("invalid check severity: %s", input.Check)
		}
		cfg.Check = check
	}

	useColors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color setting: %w", err)
	}
	cfg.UseColors = useColors

	if input.Width < 0 {
		return fmt.Errorf("width must be non-negative, got %d", input.Width)
	}
	return nil
}

func validateCacheBackend(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend: %s", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
