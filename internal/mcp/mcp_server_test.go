package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statice-dev/sarq/internal/contract"
	mcp_internal "github.com/statice-dev/sarq/internal/mcp"
)

// writeTestSarif writes a one-run SARIF file and returns its path.
func writeTestSarif(t *testing.T) string {
	t.Helper()
	doc := map[string]any{
		"version": "2.1.0",
		"runs": []any{
			map[string]any{
				"tool": map[string]any{"driver": map[string]any{"name": "devskim"}},
				"results": []any{
					map[string]any{
						"ruleId":  "DS1",
						"level":   "error",
						"message": map[string]any{"text": "an issue"},
						"locations": []any{
							map[string]any{
								"physicalLocation": map[string]any{
									"artifactLocation": map[string]any{"uri": "a.c"},
									"region":           map[string]any{"startLine": float64(3)},
								},
							},
						},
					},
				},
			},
		},
	}
	content, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "scan.sarif")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)
	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func TestMCPServerHandlers(t *testing.T) {
	baseCfg := &contract.Config{}
	s := mcp_internal.NewMCPServer(baseCfg)
	sarifPath := writeTestSarif(t)

	t.Run("get_issue_summary missing path", func(t *testing.T) {
		res := callTool(t, s, "get_issue_summary", map[string]any{"path": ""})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "cannot load SARIF files")
	})

	t.Run("get_issue_summary success", func(t *testing.T) {
		res := callTool(t, s, "get_issue_summary", map[string]any{"path": sarifPath})
		assert.False(t, res.IsError)
		text := res.Content[0].(mcp.TextContent).Text
		assert.Contains(t, text, "DS1 an issue")
		assert.Contains(t, text, `"severity": "error"`)
	})

	t.Run("list_issues with severity filter", func(t *testing.T) {
		res := callTool(t, s, "list_issues", map[string]any{
			"path":     sarifPath,
			"severity": "warning",
		})
		assert.False(t, res.IsError)
		assert.Equal(t, "[]", res.Content[0].(mcp.TextContent).Text)
	})

	t.Run("diff_issues missing old path", func(t *testing.T) {
		res := callTool(t, s, "diff_issues", map[string]any{
			"old_path": "",
			"new_path": sarifPath,
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "cannot load old SARIF files")
	})

	t.Run("diff_issues success", func(t *testing.T) {
		res := callTool(t, s, "diff_issues", map[string]any{
			"old_path": sarifPath,
			"new_path": sarifPath,
		})
		assert.False(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, `"all"`)
	})
}
