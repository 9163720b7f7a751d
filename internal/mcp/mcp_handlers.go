package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/core/filtering"
	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
	"github.com/statice-dev/sarq/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// loadFileSet loads the SARIF set for one path argument and applies the
// filter file, if any.
func (h *toolHandler) loadFileSet(path, filterFile string) (*core.FileSet, error) {
	fileSet, err := core.LoadFiles([]string{path}, h.baseCfg.Recurse)
	if err != nil {
		return nil, err
	}
	if filterFile == "" {
		filterFile = h.baseCfg.FilterFile
	}
	if filterFile != "" {
		definition, err := filtering.LoadFilterFile(filterFile)
		if err != nil {
			return nil, err
		}
		if err := fileSet.InitGeneralFilter(definition); err != nil {
			return nil, err
		}
	}
	return fileSet, nil
}

func (h *toolHandler) handleGetIssueSummary(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	fileSet, err := h.loadFileSet(path, request.GetString("filter", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot load SARIF files: %v", err)), nil
	}

	summary, err := render.SummaryJSON(fileSet)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListIssues(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	fileSet, err := h.loadFileSet(path, "")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot load SARIF files: %v", err)), nil
	}

	records, err := fileSet.Records()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read records: %v", err)), nil
	}
	if s := request.GetString("severity", ""); s != "" {
		severity := schema.Severity(s)
		filtered := records[:0:0]
		for _, record := range records {
			if record.Severity == severity {
				filtered = append(filtered, record)
			}
		}
		records = filtered
	}
	if limit := request.GetInt("limit", 0); limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDiffIssues(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	oldSet, err := h.loadFileSet(request.GetString("old_path", ""), "")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot load old SARIF files: %v", err)), nil
	}
	newSet, err := h.loadFileSet(request.GetString("new_path", ""), "")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot load new SARIF files: %v", err)), nil
	}

	diff, err := render.CalcDiff(oldSet, newSet)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("diff failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(diff.JSON(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
