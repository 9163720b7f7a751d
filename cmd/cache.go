package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/statice-dev/sarq/internal/blamecache"
	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/schema"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on blame cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by SARIF commands. This avoids loading input
// files and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the git blame cache (improves performance)",
	Long: `Manage the cache of git blame output used by the blame command.

Sarq caches git blame --porcelain output per repository revision to avoid
re-running git on every invocation. This dramatically improves performance
when annotating the same repository multiple times.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Run cache schema migrations

Examples:
  # Check cache status
  sarq cache status

  # Clear cache after rewriting repository history
  sarq cache clear`,
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the git blame cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  sarq cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		mgr, err := blamecache.NewBlameStoreManager(cfg.CacheBackend, cfg.CacheDBConnect)
		if err != nil {
			contract.LogFatal("Failed to open blame cache", err)
		}
		defer func() { _ = mgr.Close() }()
		status, err := mgr.GetBlameStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		blamecache.PrintCacheStatus(status)
	},
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached git blame data",
	Long: `Delete all cached git blame data from the configured backend.

Use this when:
- Repository history was rewritten (rebase, force push)
- Cache may be stale or corrupted
- Testing performance without cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  sarq cache clear

  # Clear MySQL cache (set connection string via env variable)
  SARQ_CACHE_BACKEND=mysql SARQ_CACHE_DB_CONNECT="..." sarq cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := blamecache.ClearCache(cfg.CacheBackend, contract.GetBlameDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheMigrateCmd runs cache schema migrations.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run blame cache schema migrations",
	Long: `Apply versioned schema migrations to the blame cache database.

By default migrates to the latest schema version. Use --target-version to
migrate to a specific version, or 0 to roll back to the initial state.

Examples:
  # Migrate to the latest schema
  sarq cache migrate

  # Roll back everything
  sarq cache migrate --target-version 0`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := blamecache.MigrateBlameCache(cfg.CacheBackend, cfg.CacheDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to migrate cache", err)
		}
		fmt.Println("Cache migration complete.")
	},
}
