package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/schema"
)

// sarifResult builds one result object with the given severity level.
func sarifResult(code, message, uri string, line float64, level string) map[string]any {
	result := map[string]any{
		"ruleId":  code,
		"message": map[string]any{"text": message},
		"locations": []any{
			map[string]any{
				"physicalLocation": map[string]any{
					"artifactLocation": map[string]any{"uri": uri},
					"region":           map[string]any{"startLine": line},
				},
			},
		},
	}
	if level != "" {
		result["level"] = level
	}
	return result
}

// sarifFileSet builds an in-memory file set with one file of one run.
func sarifFileSet(t *testing.T, fileName, toolName string, results []any) *core.FileSet {
	t.Helper()
	data := map[string]any{
		"version": "2.1.0",
		"runs": []any{
			map[string]any{
				"tool":    map[string]any{"driver": map[string]any{"name": toolName}},
				"results": results,
			},
		},
	}
	file := core.NewFile(fileName, time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC), data)
	fileSet := core.NewFileSet("")
	fileSet.AddFile(file)
	return fileSet
}

func testConfig() *contract.Config {
	return &contract.Config{
		Output:    schema.TextOut,
		UseColors: false,
		Width:     100,
	}
}

func testRecords(t *testing.T, fileSet *core.FileSet) []*schema.Record {
	t.Helper()
	records, err := fileSet.Records()
	require.NoError(t, err)
	return records
}
