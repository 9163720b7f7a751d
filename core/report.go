package core

import (
	"sort"
	"strings"

	"github.com/statice-dev/sarq/schema"
)

// IssueGroup is one display group of an issues report: all the records of a
// severity sharing an issue code, labelled by a key combining the code with
// the records' common description.
type IssueGroup struct {
	Key     string
	Records []*schema.Record
}

// groupAccumulator tracks the running grouping state for one issue code.
type groupAccumulator struct {
	code    string
	key     string
	stem    string
	isStem  bool
	records []*schema.Record
}

// IssuesReport groups records by severity and issue code for display.
// Records can be appended in any order; grouping and sorting happen lazily
// on first read and are invalidated by further appends, so the same report
// produces the same output regardless of the order files were loaded in.
type IssuesReport struct {
	sevToRecords map[schema.Severity][]*schema.Record
	sevToGroups  map[schema.Severity][]*IssueGroup
}

func NewIssuesReport() *IssuesReport {
	return &IssuesReport{sevToRecords: map[schema.Severity][]*schema.Record{}}
}

// AddRecord appends one record to the report.
func (rep *IssuesReport) AddRecord(record *schema.Record) {
	rep.sevToRecords[record.Severity] = append(rep.sevToRecords[record.Severity], record)
	rep.sevToGroups = nil
}

// Severities returns the severity buckets to render, in descending order.
// The "none" severity only appears when the report contains such records.
func (rep *IssuesReport) Severities() []schema.Severity {
	if rep.AnyNone() {
		return schema.SeveritiesWithNone
	}
	return schema.SeveritiesWithoutNone
}

// AnyNone reports whether the report contains informational ("none") records.
func (rep *IssuesReport) AnyNone() bool {
	return len(rep.sevToRecords[schema.SeverityNone]) > 0
}

// IssueCountForSeverity returns the number of records of one severity.
func (rep *IssuesReport) IssueCountForSeverity(severity schema.Severity) int {
	return len(rep.sevToRecords[severity])
}

// TotalIssueCount returns the number of records across all severities.
func (rep *IssuesReport) TotalIssueCount() int {
	total := 0
	for _, records := range rep.sevToRecords {
		total += len(records)
	}
	return total
}

// IssueTypeCountForSeverity returns the number of issue groups of one
// severity.
func (rep *IssuesReport) IssueTypeCountForSeverity(severity schema.Severity) int {
	return len(rep.GroupsForSeverity(severity))
}

// GroupsForSeverity returns the issue groups of one severity, ordered by
// descending record count with ties broken by first occurrence, each group's
// records sorted by code, location and line.
func (rep *IssuesReport) GroupsForSeverity(severity schema.Severity) []*IssueGroup {
	if rep.sevToGroups == nil {
		rep.groupRecords()
	}
	return rep.sevToGroups[severity]
}

// RecordsForSeverity returns the records of one severity as a flat list, in
// the order the groups render them.
func (rep *IssuesReport) RecordsForSeverity(severity schema.Severity) []*schema.Record {
	var ret []*schema.Record
	for _, group := range rep.GroupsForSeverity(severity) {
		ret = append(ret, group.Records...)
	}
	return ret
}

// HistogramForSeverity returns group key to record count for one severity.
func (rep *IssuesReport) HistogramForSeverity(severity schema.Severity) map[string]int {
	groups := rep.GroupsForSeverity(severity)
	ret := make(map[string]int, len(groups))
	for _, group := range groups {
		ret[group.Key] = len(group.Records)
	}
	return ret
}

func (rep *IssuesReport) groupRecords() {
	rep.sevToGroups = map[schema.Severity][]*IssueGroup{}
	for severity, records := range rep.sevToRecords {
		rep.sevToGroups[severity] = groupBySimilarity(records)
	}
}

// groupBySimilarity groups records sharing a code under one key. The key is
// the code combined with the records' description, shortened to the longest
// common description prefix plus an ellipsis when the descriptions differ.
func groupBySimilarity(records []*schema.Record) []*IssueGroup {
	codeToGroup := map[string]*groupAccumulator{}
	var order []*groupAccumulator
	for _, record := range records {
		acc, ok := codeToGroup[record.Code]
		if !ok {
			acc = &groupAccumulator{
				code: record.Code,
				key:  schema.CombineRecordCodeAndDescription(record),
				stem: record.Description,
			}
			codeToGroup[record.Code] = acc
			order = append(order, acc)
		} else if !strings.HasPrefix(record.Description, acc.stem) {
			acc.stem = commonPrefix(acc.stem, record.Description)
			acc.isStem = true
			acc.key = schema.CombineCodeAndDescription(acc.code, acc.stem+" ...")
		}
		acc.records = append(acc.records, record)
	}

	// Largest groups first; insertion order breaks ties.
	sort.SliceStable(order, func(i, j int) bool {
		return len(order[i].records) > len(order[j].records)
	})

	keyToGroup := map[string]*IssueGroup{}
	var groups []*IssueGroup
	for _, acc := range order {
		group, ok := keyToGroup[acc.key]
		if !ok {
			group = &IssueGroup{Key: acc.key}
			keyToGroup[acc.key] = group
			groups = append(groups, group)
		}
		group.Records = append(group.Records, acc.records...)
	}
	for _, group := range groups {
		sort.SliceStable(group.Records, func(i, j int) bool {
			return schema.RecordSortKey(group.Records[i]) < schema.RecordSortKey(group.Records[j])
		})
	}
	return groups
}
