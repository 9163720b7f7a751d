package cmd

import (
	"github.com/spf13/cobra"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/mcp"
)

// mcpCmd starts the MCP server over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server.",
	Long: `Start an MCP server on stdio that exposes SARIF analysis to MCP
clients such as coding assistants.

Tools:
  get_issue_summary - Summarize issues by severity and issue type
  list_issues       - List individual issue records
  diff_issues       - Compare two SARIF sets

Examples:
  # Run the server (usually launched by an MCP client)
  sarq mcp`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := mcp.StartMCPServer(rootCtx, cfg); err != nil {
			contract.LogFatal("MCP server failed", err)
		}
	},
}
