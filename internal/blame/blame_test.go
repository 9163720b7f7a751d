package blame

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/blamecache"
)

const porcelainSample = `8338e0a54a018a4dceff5a74a15255a079fd2dd5 1 1 2
author Alice Dev
author-mail <alice@example.com>
author-time 1661678400
author-tz +0100
committer Bob Merge
committer-mail <bob@example.com>
summary Add parser
filename src/main.c
	#include <stdio.h>
8338e0a54a018a4dceff5a74a15255a079fd2dd5 2 2
	int main(void) {
c0ffee0000000000000000000000000000000000 3 3 1
author Carol Fix
author-mail <carol@example.com>
boundary
filename src/main.c
	return 0;
`

func TestParsePorcelain(t *testing.T) {
	info := parsePorcelain([]byte(porcelainSample))

	require.Len(t, info.Commits, 2)
	first := info.Commits["8338e0a54a018a4dceff5a74a15255a079fd2dd5"]
	require.NotNil(t, first)
	assert.Equal(t, "Alice Dev", first["author"])
	assert.Equal(t, "<alice@example.com>", first["author-mail"])
	assert.Equal(t, "<bob@example.com>", first["committer-mail"])
	assert.Equal(t, "Add parser", first["summary"])

	second := info.Commits["c0ffee0000000000000000000000000000000000"]
	require.NotNil(t, second)
	assert.Equal(t, "Carol Fix", second["author"])
	// Valueless headers are recorded as flags.
	assert.Equal(t, true, second["boundary"])

	assert.Equal(t, map[string]string{
		"1": "8338e0a54a018a4dceff5a74a15255a079fd2dd5",
		"2": "8338e0a54a018a4dceff5a74a15255a079fd2dd5",
		"3": "c0ffee0000000000000000000000000000000000",
	}, info.LineToCommit)
}

func TestParsePorcelainEmpty(t *testing.T) {
	info := parsePorcelain(nil)
	assert.Empty(t, info.Commits)
	assert.Empty(t, info.LineToCommit)
}

// fakeGitClient serves canned blame output without running git.
type fakeGitClient struct {
	blameCalls int
}

func (c *fakeGitClient) Run(_ context.Context, repoPath string, args ...string) ([]byte, error) {
	return nil, nil
}

func (c *fakeGitClient) GetRepoRoot(_ context.Context, repoPath string) (string, error) {
	return repoPath, nil
}

func (c *fakeGitClient) GetRepoHash(_ context.Context, _ string) (string, error) {
	return "deadbeef", nil
}

func (c *fakeGitClient) GetBlamePorcelain(_ context.Context, _, _ string) ([]byte, error) {
	c.blameCalls++
	return []byte(porcelainSample), nil
}

func testSarifSet(t *testing.T) *core.FileSet {
	t.Helper()
	data := map[string]any{
		"runs": []any{
			map[string]any{
				"tool": map[string]any{"driver": map[string]any{"name": "tool"}},
				"results": []any{
					map[string]any{
						"ruleId":  "R1",
						"message": map[string]any{"text": "x"},
						"locations": []any{
							map[string]any{
								"physicalLocation": map[string]any{
									"artifactLocation": map[string]any{"uri": "src/main.c"},
									"region":           map[string]any{"startLine": float64(3)},
								},
							},
						},
					},
				},
			},
		},
	}
	fileSet := core.NewFileSet("")
	fileSet.AddFile(core.NewFile("scan.sarif", time.Now(), data))
	return fileSet
}

func TestEnhanceWithBlame(t *testing.T) {
	client := &fakeGitClient{}
	enricher := NewEnricher(client, blamecache.NewMockBlameStore())

	fileSet := testSarifSet(t)
	enriched, total, err := enricher.EnhanceWithBlame(context.Background(), fileSet, ".")
	require.NoError(t, err)
	assert.Equal(t, 1, enriched)
	assert.Equal(t, 1, total)

	results := fileSet.Runs()[0].Results()
	require.Len(t, results, 1)
	blame, ok := results[0]["properties"].(map[string]any)["blame"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "<carol@example.com>", blame["author-mail"])
	assert.True(t, fileSet.HasBlameInfo())
}

func TestBlameFileUsesCache(t *testing.T) {
	client := &fakeGitClient{}
	enricher := NewEnricher(client, blamecache.NewMockBlameStore())
	ctx := context.Background()

	_, err := enricher.blameFile(ctx, ".", "deadbeef", "src/main.c")
	require.NoError(t, err)
	_, err = enricher.blameFile(ctx, ".", "deadbeef", "src/main.c")
	require.NoError(t, err)
	assert.Equal(t, 1, client.blameCalls)

	// A different repository revision misses the cache.
	_, err = enricher.blameFile(ctx, ".", "0ddba11", "src/main.c")
	require.NoError(t, err)
	assert.Equal(t, 2, client.blameCalls)
}
