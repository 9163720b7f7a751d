// Package schema has models, constants and shared helpers for all parts of sarq.
package schema

// Record is the flattened view of a single SARIF result, suitable for
// spreadsheets, grouping and reports. Line is kept as a string because some
// tools omit it and the substituted default is the sentinel "1".
type Record struct {
	Tool        string   `json:"tool"`
	Location    string   `json:"location"`
	Line        string   `json:"line"`
	Severity    Severity `json:"severity"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Author      string   `json:"author,omitempty"`
}

// BasicRecordHeadings are the column headings for records without blame info.
var BasicRecordHeadings = []string{"Tool", "Location", "Line", "Severity", "Code", "Description"}

// BlameRecordHeadings extends BasicRecordHeadings with the blame author column.
var BlameRecordHeadings = append(append([]string{}, BasicRecordHeadings...), "Author")

// RecordHeadings returns the column headings for a record listing,
// including the Author column only when blame info is present.
func RecordHeadings(withBlame bool) []string {
	if withBlame {
		return BlameRecordHeadings
	}
	return BasicRecordHeadings
}

// Values returns the record fields in heading order.
func (r *Record) Values(withBlame bool) []string {
	ret := []string{r.Tool, r.Location, r.Line, string(r.Severity), r.Code, r.Description}
	if withBlame {
		ret = append(ret, r.Author)
	}
	return ret
}
