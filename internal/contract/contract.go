// Package contract provides interfaces and shared utilities for the sarq
// CLI's internal architecture.
package contract

import (
	"context"

	"github.com/statice-dev/sarq/schema"
)

// GitClient defines the necessary Git operations for blame enrichment.
// This allows the enrichment logic to be tested without a real git
// executable.
type GitClient interface {
	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git
	// repository containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// GetBlamePorcelain returns the output of git blame --porcelain for one
	// file in the repository.
	GetBlamePorcelain(ctx context.Context, repoPath string, filePath string) ([]byte, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetBlameStore() BlameStore
}

// BlameStore defines the interface for cached blame data storage.
// This allows mocking the store for testing.
type BlameStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Clear() error
	Close() error
}
