package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statice-dev/sarq/schema"
)

func record(severity schema.Severity, code, description, location, line string) *schema.Record {
	return &schema.Record{
		Tool:     "tool",
		Severity: severity,
		Code:     code, Description: description,
		Location: location, Line: line,
	}
}

func TestReportSeverities(t *testing.T) {
	report := NewIssuesReport()
	report.AddRecord(record(schema.SeverityError, "E1", "err", "a.c", "1"))
	assert.Equal(t, schema.SeveritiesWithoutNone, report.Severities())
	assert.False(t, report.AnyNone())

	report.AddRecord(record(schema.SeverityNone, "N1", "info", "a.c", "2"))
	assert.Equal(t, schema.SeveritiesWithNone, report.Severities())
	assert.True(t, report.AnyNone())
}

func TestReportCounts(t *testing.T) {
	report := NewIssuesReport()
	report.AddRecord(record(schema.SeverityWarning, "W1", "one", "a.c", "1"))
	report.AddRecord(record(schema.SeverityWarning, "W1", "one", "b.c", "2"))
	report.AddRecord(record(schema.SeverityWarning, "W2", "two", "c.c", "3"))
	report.AddRecord(record(schema.SeverityError, "E1", "err", "d.c", "4"))

	assert.Equal(t, 3, report.IssueCountForSeverity(schema.SeverityWarning))
	assert.Equal(t, 1, report.IssueCountForSeverity(schema.SeverityError))
	assert.Equal(t, 0, report.IssueCountForSeverity(schema.SeverityNote))
	assert.Equal(t, 4, report.TotalIssueCount())
	assert.Equal(t, 2, report.IssueTypeCountForSeverity(schema.SeverityWarning))
}

func TestGroupingByCode(t *testing.T) {
	report := NewIssuesReport()
	report.AddRecord(record(schema.SeverityWarning, "W1", "same text", "a.c", "1"))
	report.AddRecord(record(schema.SeverityWarning, "W1", "same text", "b.c", "2"))

	groups := report.GroupsForSeverity(schema.SeverityWarning)
	require.Len(t, groups, 1)
	assert.Equal(t, "W1 same text", groups[0].Key)
	assert.Len(t, groups[0].Records, 2)
}

func TestGroupingShrinksToCommonStem(t *testing.T) {
	report := NewIssuesReport()
	report.AddRecord(record(schema.SeverityWarning, "W1", "Variable x is unused", "a.c", "1"))
	report.AddRecord(record(schema.SeverityWarning, "W1", "Variable y is unused", "b.c", "2"))

	groups := report.GroupsForSeverity(schema.SeverityWarning)
	require.Len(t, groups, 1)
	// The shared stem "Variable " keeps its trailing space before the
	// ellipsis marker.
	assert.Equal(t, "W1 Variable  ...", groups[0].Key)
}

func TestGroupingLargestFirst(t *testing.T) {
	report := NewIssuesReport()
	report.AddRecord(record(schema.SeverityWarning, "W1", "one", "a.c", "1"))
	report.AddRecord(record(schema.SeverityWarning, "W2", "two", "b.c", "1"))
	report.AddRecord(record(schema.SeverityWarning, "W2", "two", "c.c", "2"))

	groups := report.GroupsForSeverity(schema.SeverityWarning)
	require.Len(t, groups, 2)
	assert.Equal(t, "W2 two", groups[0].Key)
	assert.Equal(t, "W1 one", groups[1].Key)
}

func TestGroupRecordsSorted(t *testing.T) {
	report := NewIssuesReport()
	report.AddRecord(record(schema.SeverityWarning, "W1", "text", "b.c", "10"))
	report.AddRecord(record(schema.SeverityWarning, "W1", "text", "a.c", "100"))
	report.AddRecord(record(schema.SeverityWarning, "W1", "text", "a.c", "9"))

	groups := report.GroupsForSeverity(schema.SeverityWarning)
	require.Len(t, groups, 1)
	records := groups[0].Records
	require.Len(t, records, 3)
	assert.Equal(t, "a.c", records[0].Location)
	assert.Equal(t, "9", records[0].Line)
	assert.Equal(t, "a.c", records[1].Location)
	assert.Equal(t, "100", records[1].Line)
	assert.Equal(t, "b.c", records[2].Location)
}

func TestRecordsForSeverityFollowsGroupOrder(t *testing.T) {
	report := NewIssuesReport()
	report.AddRecord(record(schema.SeverityWarning, "W1", "one", "a.c", "1"))
	report.AddRecord(record(schema.SeverityWarning, "W2", "two", "c.c", "2"))
	report.AddRecord(record(schema.SeverityWarning, "W2", "two", "b.c", "1"))

	flat := report.RecordsForSeverity(schema.SeverityWarning)
	require.Len(t, flat, 3)
	// The larger W2 group comes first, its records sorted by location.
	assert.Equal(t, "W2", flat[0].Code)
	assert.Equal(t, "b.c", flat[0].Location)
	assert.Equal(t, "c.c", flat[1].Location)
	assert.Equal(t, "W1", flat[2].Code)

	assert.Empty(t, report.RecordsForSeverity(schema.SeverityError))
}

func TestGroupingOrderIndependent(t *testing.T) {
	records := []*schema.Record{
		record(schema.SeverityWarning, "W1", "Variable x is unused", "a.c", "1"),
		record(schema.SeverityWarning, "W1", "Variable y is unused", "b.c", "2"),
		record(schema.SeverityWarning, "W2", "other", "c.c", "3"),
	}

	forward := NewIssuesReport()
	for _, r := range records {
		forward.AddRecord(r)
	}
	backward := NewIssuesReport()
	for i := len(records) - 1; i >= 0; i-- {
		backward.AddRecord(records[i])
	}

	assert.Equal(t,
		forward.HistogramForSeverity(schema.SeverityWarning),
		backward.HistogramForSeverity(schema.SeverityWarning))
}

func TestAddRecordInvalidatesGroups(t *testing.T) {
	report := NewIssuesReport()
	report.AddRecord(record(schema.SeverityWarning, "W1", "one", "a.c", "1"))
	assert.Len(t, report.GroupsForSeverity(schema.SeverityWarning), 1)

	report.AddRecord(record(schema.SeverityWarning, "W2", "two", "b.c", "2"))
	assert.Len(t, report.GroupsForSeverity(schema.SeverityWarning), 2)
}

func TestHistogramForSeverity(t *testing.T) {
	report := NewIssuesReport()
	report.AddRecord(record(schema.SeverityNote, "N1", "n", "a.c", "1"))
	report.AddRecord(record(schema.SeverityNote, "N1", "n", "b.c", "2"))

	hist := report.HistogramForSeverity(schema.SeverityNote)
	assert.Equal(t, map[string]int{"N1 n": 2}, hist)
}
