// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/statice-dev/sarq/internal/contract"
)

// NewMCPServer initializes and configures the sarq MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"SARIF Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg}

	// --- 1. Tool: get_issue_summary ---
	s.AddTool(mcp.NewTool("get_issue_summary",
		mcp.WithDescription("Summarize the issues in one or more SARIF files, grouped by severity and issue type."),
		mcp.WithString("path", mcp.Description("Path to a SARIF file or a directory of SARIF files."), mcp.Required()),
		mcp.WithString("filter", mcp.Description("Path to a YAML filter file to apply before summarizing.")),
	), h.handleGetIssueSummary)

	// --- 2. Tool: list_issues ---
	s.AddTool(mcp.NewTool("list_issues",
		mcp.WithDescription("List individual issue records from one or more SARIF files."),
		mcp.WithString("path", mcp.Description("Path to a SARIF file or a directory of SARIF files."), mcp.Required()),
		mcp.WithString("severity", mcp.Description("Only return issues of this severity."), mcp.Enum("error", "warning", "note", "none")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of records returned.")),
	), h.handleListIssues)

	// --- 3. Tool: diff_issues ---
	s.AddTool(mcp.NewTool("diff_issues",
		mcp.WithDescription("Compare the issues in two SARIF files or directories and report new and eliminated issue types."),
		mcp.WithString("old_path", mcp.Description("Path to the older SARIF file or directory."), mcp.Required()),
		mcp.WithString("new_path", mcp.Description("Path to the newer SARIF file or directory."), mcp.Required()),
	), h.handleDiffIssues)

	return s
}

// StartMCPServer starts the sarq MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
