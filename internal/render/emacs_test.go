package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCompileData(t *testing.T) {
	fileSet := sarifFileSet(t, "scan.sarif", "devskim", []any{
		sarifResult("E1", "bad thing", "a.c", 3, "error"),
		sarifResult("W1", "iffy thing", "b.c", 7, "warning"),
	})

	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	data, err := buildCompileData(fileSet, at)
	require.NoError(t, err)

	assert.Equal(t, "devskim", data.ReportType)
	assert.Equal(t, at.Format(time.ANSIC), data.ReportDate)
	assert.Equal(t, "error, warning, note", data.Severities)
	assert.Equal(t, 2, data.Total)
	assert.Empty(t, data.Filtered)
	require.Len(t, data.Problems, 3)
	assert.Equal(t, 1, data.Problems[0].TypeCount)
}

func TestCompileTemplateOutput(t *testing.T) {
	fileSet := sarifFileSet(t, "scan.sarif", "devskim", []any{
		sarifResult("E1", "bad thing", "a.c", 3, "error"),
	})

	data, err := buildCompileData(fileSet, time.Now())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, compileTemplate.Execute(&buf, data))
	output := buf.String()
	assert.Contains(t, output, "-*- mode: compilation -*-")
	assert.Contains(t, output, "a.c:3: bad thing")
	assert.Contains(t, output, "E1 bad thing (1):")
}
