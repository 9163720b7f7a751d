package core

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/statice-dev/sarq/core/filtering"
	"github.com/statice-dev/sarq/schema"
)

// filenameTimestampRegex matches the compact UTC timestamp convention in
// file names, e.g. "devskim_myapp_20260827T120000Z.sarif".
var filenameTimestampRegex = regexp.MustCompile(`\d{8}T\d{6}Z`)

// File wraps one parsed SARIF file and its runs.
type File struct {
	absPath string
	mtime   time.Time
	data    map[string]any
	runs    []*Run
}

// NewFile wraps a decoded SARIF document. The path is made absolute for
// stable identity across a file set.
func NewFile(path string, mtime time.Time, data map[string]any) *File {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	ret := &File{absPath: abs, mtime: mtime, data: data}
	for index, rawRun := range getSlice(data, "runs") {
		if runData := asMap(rawRun); runData != nil {
			ret.runs = append(ret.runs, NewRun(ret, index, runData))
		}
	}
	return ret
}

// Data returns the raw document, e.g. for writing the file back out.
func (f *File) Data() map[string]any {
	return f.data
}

// AbsPath returns the absolute path of the file.
func (f *File) AbsPath() string {
	return f.absPath
}

// FileName returns the base name of the file.
func (f *File) FileName() string {
	return filepath.Base(f.absPath)
}

// FileNameWithoutExtension returns the base name without its extension.
func (f *File) FileNameWithoutExtension() string {
	name := f.FileName()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ModifiedTime returns the file's modification time.
func (f *File) ModifiedTime() time.Time {
	return f.mtime
}

// FilenameTimestamp returns the compact UTC timestamp embedded in the file
// name, or "" when the name carries none.
func (f *File) FilenameTimestamp() string {
	return filenameTimestampRegex.FindString(f.FileName())
}

// Timestamp returns the best timestamp for trend purposes: the one embedded
// in the file name if present, otherwise the file's modification time.
func (f *File) Timestamp() (time.Time, bool) {
	if stamp := f.FilenameTimestamp(); stamp != "" {
		if at, err := time.Parse(TimestampFormat, stamp); err == nil {
			return at, true
		}
	}
	if f.mtime.IsZero() {
		return time.Time{}, false
	}
	return f.mtime, false
}

// Runs returns the file's runs.
func (f *File) Runs() []*Run {
	return f.runs
}

// HasRuns reports whether the file contains any runs at all.
func (f *File) HasRuns() bool {
	return len(f.runs) > 0
}

// DistinctToolNames returns the tool names of the file's runs, first
// occurrence order, without duplicates.
func (f *File) DistinctToolNames() []string {
	var ret []string
	seen := map[string]bool{}
	for _, run := range f.runs {
		name := run.ToolName()
		if !seen[name] {
			seen[name] = true
			ret = append(ret, name)
		}
	}
	return ret
}

// InitPathPrefixStripping configures path prefix removal on every run.
func (f *File) InitPathPrefixStripping(autotrim bool, pathPrefixes []string) error {
	for _, run := range f.runs {
		if err := run.InitPathPrefixStripping(autotrim, pathPrefixes); err != nil {
			return err
		}
	}
	return nil
}

// InitDefaultLineNumber configures line number defaulting on every run.
func (f *File) InitDefaultLineNumber() {
	for _, run := range f.runs {
		run.InitDefaultLineNumber()
	}
}

// InitGeneralFilter installs a filter definition on every run.
func (f *File) InitGeneralFilter(definition *filtering.Definition) error {
	for _, run := range f.runs {
		if err := run.InitGeneralFilter(definition); err != nil {
			return err
		}
	}
	return nil
}

// Results returns the surviving results across all runs.
func (f *File) Results() []map[string]any {
	var ret []map[string]any
	for _, run := range f.runs {
		ret = append(ret, run.Results()...)
	}
	return ret
}

// Records returns the flattened records across all runs.
func (f *File) Records() ([]*schema.Record, error) {
	var ret []*schema.Record
	for _, run := range f.runs {
		records, err := run.Records()
		if err != nil {
			return nil, err
		}
		ret = append(ret, records...)
	}
	return ret, nil
}

// Report builds a grouped issues report across all runs.
func (f *File) Report() (*IssuesReport, error) {
	report := NewIssuesReport()
	if err := addRecordsToReport(report, f); err != nil {
		return nil, err
	}
	return report, nil
}

// ResultCount returns the number of results across all runs, after
// filtering.
func (f *File) ResultCount() int {
	total := 0
	for _, run := range f.runs {
		total += run.ResultCount()
	}
	return total
}

// FilterStats aggregates filter stats across the file's runs, or nil when no
// run has a filter.
func (f *File) FilterStats() *filtering.FilterStats {
	var ret *filtering.FilterStats
	for _, run := range f.runs {
		stats := run.FilterStats()
		if stats == nil {
			continue
		}
		if ret == nil {
			ret = stats.Copy()
		} else {
			ret.Add(stats)
		}
	}
	return ret
}

// HasBlameInfo reports whether any run carries blame information.
func (f *File) HasBlameInfo() bool {
	for _, run := range f.runs {
		if run.HasBlameInfo() {
			return true
		}
	}
	return false
}

// recordSource is anything that can produce flattened records.
type recordSource interface {
	Records() ([]*schema.Record, error)
}

func addRecordsToReport(report *IssuesReport, source recordSource) error {
	records, err := source.Records()
	if err != nil {
		return err
	}
	for _, record := range records {
		report.AddRecord(record)
	}
	return nil
}
