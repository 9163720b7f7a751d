package core

import (
	"sort"
	"strings"
	"time"

	"github.com/statice-dev/sarq/core/filtering"
	"github.com/statice-dev/sarq/schema"
)

// ConversionToolName is the driver name written into the conversion object
// of files produced by `sarq copy`, and recognized on load to rehydrate
// filter statistics.
const ConversionToolName = "sarq"

// TimestampFormat is the compact UTC timestamp used in conversion records
// and recognized in file names for trend analysis.
const TimestampFormat = "20060102T150405Z"

// Run wraps one run object from a SARIF file. It owns the filter installed
// on its results and caches the flattened records derived from them.
type Run struct {
	file  *File
	index int
	data  map[string]any

	filter            *filtering.GeneralFilter
	pathPrefixesUpper []string
	defaultLineNumber string

	cachedResults []map[string]any
	cachedRecords []*schema.Record
}

// NewRun wraps a decoded run object. When the run was written by a previous
// `sarq copy` with a filter installed, the recorded filter statistics are
// rehydrated from the conversion object.
func NewRun(file *File, index int, data map[string]any) *Run {
	ret := &Run{file: file, index: index, data: data, filter: filtering.NewGeneralFilter()}
	conversion := getMap(data, "conversion")
	if getString(getMap(getMap(conversion, "tool"), "driver"), "name") == ConversionToolName {
		invocation := getMap(conversion, "invocation")
		if bag := getMap(getMap(invocation, "properties"), "filtered"); bag != nil {
			at := time.Time{}
			if stamp := getString(invocation, "endTimeUtc"); stamp != "" {
				at, _ = time.Parse(TimestampFormat, stamp)
			}
			ret.filter.RehydrateStats(bag, at)
		}
	}
	return ret
}

// Data returns the raw run object, e.g. for writing the run back out.
func (r *Run) Data() map[string]any {
	return r.data
}

// ToolName returns the name of the tool that generated this run.
func (r *Run) ToolName() string {
	return getString(getMap(getMap(r.data, "tool"), "driver"), "name")
}

// ConversionToolName returns the name of the tool that converted this run
// into SARIF format, or "" if the run was not converted.
func (r *Run) ConversionToolName() string {
	return getString(getMap(getMap(getMap(r.data, "conversion"), "tool"), "driver"), "name")
}

// InitPathPrefixStripping sets up path prefix removal from record locations.
// With autotrim, the longest common prefix of the current records is added to
// the explicitly given prefixes. Prefixes are matched case-insensitively.
func (r *Run) InitPathPrefixStripping(autotrim bool, pathPrefixes []string) error {
	prefixes := make([]string, 0, len(pathPrefixes)+1)
	for _, prefix := range pathPrefixes {
		prefixes = append(prefixes, strings.ToUpper(prefix))
	}
	if autotrim {
		records, err := r.Records()
		if err != nil {
			return err
		}
		if prefix := autotrimPrefix(records); prefix != "" {
			prefixes = append(prefixes, strings.ToUpper(prefix))
		}
	}
	r.pathPrefixesUpper = prefixes
	r.cachedRecords = nil
	return nil
}

// autotrimPrefix finds the prefix to strip from a record set: the directory
// part for a single record, the longest common location prefix otherwise.
func autotrimPrefix(records []*schema.Record) string {
	switch len(records) {
	case 0:
		return ""
	case 1:
		loc := strings.TrimSpace(records[0].Location)
		if cut := strings.LastIndexAny(loc, "/\\"); cut > 0 {
			return loc[:cut]
		}
		return ""
	}
	prefix := strings.TrimSpace(records[0].Location)
	for _, record := range records[1:] {
		prefix = commonPrefix(prefix, strings.TrimSpace(record.Location))
		if prefix == "" {
			break
		}
	}
	return prefix
}

func commonPrefix(a, b string) string {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	i := 0
	for i < max && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// InitDefaultLineNumber makes records default to line "1" when the result
// has no line number, which keeps downstream consumers that require a line
// number (such as the CSV output) happy.
func (r *Run) InitDefaultLineNumber() {
	r.defaultLineNumber = "1"
	r.cachedRecords = nil
}

// InitGeneralFilter installs a filter definition on this run. Compile errors
// leave the previous filter in place.
func (r *Run) InitGeneralFilter(definition *filtering.Definition) error {
	err := r.filter.Init(definition.Description, definition.Configuration,
		definition.Include, definition.Exclude)
	if err != nil {
		return err
	}
	r.cachedResults = nil
	r.cachedRecords = nil
	return nil
}

// Results returns the run's result objects, after filtering if a filter is
// installed. The returned maps alias the underlying run data.
func (r *Run) Results() []map[string]any {
	if r.cachedResults == nil {
		raw := getSlice(r.data, "results")
		results := make([]map[string]any, 0, len(raw))
		for _, result := range raw {
			if m := asMap(result); m != nil {
				results = append(results, m)
			}
		}
		r.cachedResults = r.filter.FilterResults(results)
	}
	return r.cachedResults
}

// Records returns the flattened records for the run's surviving results.
func (r *Run) Records() ([]*schema.Record, error) {
	if r.cachedRecords == nil {
		includeBlame := r.HasBlameInfo()
		results := r.Results()
		records := make([]*schema.Record, 0, len(results))
		for _, result := range results {
			record, err := r.resultToRecord(result, includeBlame)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
		r.cachedRecords = records
	}
	return r.cachedRecords, nil
}

// Report builds a grouped issues report over the run's records.
func (r *Run) Report() (*IssuesReport, error) {
	records, err := r.Records()
	if err != nil {
		return nil, err
	}
	report := NewIssuesReport()
	for _, record := range records {
		report.AddRecord(record)
	}
	return report, nil
}

// ResultCount returns the number of results, after filtering.
func (r *Run) ResultCount() int {
	return len(r.Results())
}

// FilterStats returns the statistics of the installed or rehydrated filter,
// or nil.
func (r *Run) FilterStats() *filtering.FilterStats {
	return r.filter.Stats()
}

// HasBlameInfo reports whether any result carries blame information in its
// property bag.
func (r *Run) HasBlameInfo() bool {
	for _, result := range r.Results() {
		if getMap(getMap(result, "properties"), "blame") != nil {
			return true
		}
	}
	return false
}

// Severities returns the distinct severities occurring in this run, sorted.
func (r *Run) Severities() ([]schema.Severity, error) {
	records, err := r.Records()
	if err != nil {
		return nil, err
	}
	seen := map[schema.Severity]bool{}
	for _, record := range records {
		seen[record.Severity] = true
	}
	ret := make([]schema.Severity, 0, len(seen))
	for severity := range seen {
		ret = append(ret, severity)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret, nil
}
