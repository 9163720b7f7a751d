package render

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/schema"
)

// locationRef identifies one issue occurrence in diff output.
type locationRef struct {
	Location string `json:"Location"`
	Line     string `json:"Line"`
}

// CodeDiff is the before/after occurrence count for one issue type, plus the
// locations that are new in the "after" set.
type CodeDiff struct {
	OldCount     int           `json:"<"`
	NewCount     int           `json:">"`
	NewLocations []locationRef `json:"+@,omitempty"`
}

// SeverityDiff is the diff for one severity bucket.
type SeverityDiff struct {
	New        int                  `json:"+"`
	Eliminated int                  `json:"-"`
	Codes      map[string]*CodeDiff `json:"codes"`

	codeOrder []string
}

// Diff is the result of comparing an old and a new SARIF set.
type Diff struct {
	severities []schema.Severity
	bySeverity map[schema.Severity]*SeverityDiff

	AllNew        int
	AllEliminated int
}

// CalcDiff compares the grouped issue reports of two SARIF sets.
func CalcDiff(oldSet, newSet *core.FileSet) (*Diff, error) {
	oldReport, err := oldSet.Report()
	if err != nil {
		return nil, err
	}
	newReport, err := newSet.Report()
	if err != nil {
		return nil, err
	}

	// Include "none" in the severity list if either side has such records.
	severities := newReport.Severities()
	if oldReport.AnyNone() {
		severities = oldReport.Severities()
	}

	diff := &Diff{severities: severities, bySeverity: map[schema.Severity]*SeverityDiff{}}
	for _, severity := range severities {
		sd := &SeverityDiff{Codes: map[string]*CodeDiff{}}
		diff.bySeverity[severity] = sd

		oldHist := oldReport.HistogramForSeverity(severity)
		for _, group := range newReport.GroupsForSeverity(severity) {
			count := len(group.Records)
			oldCount := oldHist[group.Key]
			delete(oldHist, group.Key)
			if oldCount == count {
				continue
			}
			cd := &CodeDiff{OldCount: oldCount, NewCount: count}
			if oldCount == 0 {
				sd.New++
			}
			cd.NewLocations = findNewOccurrences(group.Records, groupRecords(oldReport, severity, group.Key))
			sd.Codes[group.Key] = cd
			sd.codeOrder = append(sd.codeOrder, group.Key)
		}
		// Issue types only present in the old set have been eliminated.
		for _, group := range oldReport.GroupsForSeverity(severity) {
			if oldCount, ok := oldHist[group.Key]; ok {
				sd.Codes[group.Key] = &CodeDiff{OldCount: oldCount, NewCount: 0}
				sd.Eliminated++
				sd.codeOrder = append(sd.codeOrder, group.Key)
			}
		}
		diff.AllNew += sd.New
		diff.AllEliminated += sd.Eliminated
	}
	return diff, nil
}

func groupRecords(report *core.IssuesReport, severity schema.Severity, key string) []*schema.Record {
	for _, group := range report.GroupsForSeverity(severity) {
		if group.Key == key {
			return group.Records
		}
	}
	return nil
}

// findNewOccurrences lists occurrences of an issue at locations (or lines)
// not present in the old records: new locations first, then new lines at
// known locations, each sorted by location and line.
//
// Note: this is O(n²) in the number of occurrences of this issue type, so
// could be slow when there are a large number of occurrences.
func findNewOccurrences(newRecords, oldRecords []*schema.Record) []locationRef {
	var newLocations, newLines []locationRef
	for _, newRecord := range newRecords {
		newLocation, newLine := true, true
		for _, oldRecord := range oldRecords {
			if oldRecord.Location == newRecord.Location {
				newLocation = false
				if oldRecord.Line == newRecord.Line {
					newLine = false
					break
				}
			}
		}
		ref := locationRef{Location: newRecord.Location, Line: newRecord.Line}
		if newLocation {
			newLocations = appendUniqueRef(newLocations, ref)
		} else if newLine {
			newLines = appendUniqueRef(newLines, ref)
		}
	}
	sortRefs(newLocations)
	sortRefs(newLines)
	return append(newLocations, newLines...)
}

func appendUniqueRef(refs []locationRef, ref locationRef) []locationRef {
	for _, existing := range refs {
		if existing == ref {
			return refs
		}
	}
	return append(refs, ref)
}

func sortRefs(refs []locationRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Location != refs[j].Location {
			return refs[i].Location < refs[j].Location
		}
		return refs[i].Line < refs[j].Line
	})
}

// CheckValue returns the number of new issue types at or above the check
// severity, which becomes the command's exit code.
func (d *Diff) CheckValue(check schema.Severity) int {
	if check == "" {
		return 0
	}
	ret := 0
	for _, severity := range schema.SeveritiesWithNone {
		if sd := d.bySeverity[severity]; sd != nil {
			ret += sd.New
		}
		if severity == check {
			break
		}
	}
	return ret
}

// JSON builds the serializable form: severity keys plus an "all" total.
func (d *Diff) JSON() map[string]any {
	ret := map[string]any{
		"all": map[string]int{"+": d.AllNew, "-": d.AllEliminated},
	}
	for severity, sd := range d.bySeverity {
		ret[string(severity)] = sd
	}
	return ret
}

func signedChange(difference int) string {
	if difference < 0 {
		return fmt.Sprintf("%d", difference)
	}
	return fmt.Sprintf("+%d", difference)
}

func occurrences(count int) string {
	if count == 1 {
		return "1 occurrence"
	}
	return fmt.Sprintf("%d occurrences", count)
}

// WriteDiff writes the diff as JSON when an output file is set, or as
// human-readable text to stdout otherwise. Returns the check value for exit
// code gating.
func WriteDiff(oldSet, newSet *core.FileSet, cfg *contract.Config) (int, error) {
	diff, err := CalcDiff(oldSet, newSet)
	if err != nil {
		return 0, err
	}
	if cfg.OutputFile != "" {
		err = WriteWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, diff.JSON())
		}, "Wrote diff")
	} else {
		err = printDiff(os.Stdout, diff)
	}
	if err != nil {
		return 0, err
	}

	if stats := oldSet.FilterStats(); stats != nil {
		fmt.Printf("  'Before' results were filtered by %s\n", stats)
	}
	if stats := newSet.FilterStats(); stats != nil {
		fmt.Printf("  'After' results were filtered by %s\n", stats)
	}

	ret := diff.CheckValue(cfg.Check)
	if ret > 0 {
		fmt.Fprintf(os.Stderr,
			"Check: exiting with return code %d due to increase in issues at or above %s severity\n",
			ret, cfg.Check)
	}
	return ret, nil
}

func printDiff(w io.Writer, diff *Diff) error {
	for _, severity := range diff.severities {
		sd := diff.bySeverity[severity]
		if sd == nil {
			continue
		}
		if len(sd.Codes) == 0 {
			fmt.Fprintf(w, "%s level: +0 -0 no changes\n", severity)
			continue
		}
		fmt.Fprintf(w, "%s level: %s %s\n", severity, signedChange(sd.New), signedChange(-sd.Eliminated))
		for _, key := range sd.codeOrder {
			cd := sd.Codes[key]
			switch {
			case cd.OldCount == 0:
				fmt.Fprintf(w, "  New issue %q (%s)\n", key, occurrences(cd.NewCount))
			case cd.NewCount == 0:
				fmt.Fprintf(w, "  Eliminated issue %q\n", key)
			default:
				fmt.Fprintf(w, "  Number of occurrences %d -> %d (%s) for issue %q\n",
					cd.OldCount, cd.NewCount, signedChange(cd.NewCount-cd.OldCount), key)
			}
			if len(cd.NewLocations) > 0 {
				// Print the top 3 new locations
				for i, ref := range cd.NewLocations {
					if i == 3 {
						fmt.Fprintln(w, "    ...")
						break
					}
					fmt.Fprintf(w, "    %s:%s\n", ref.Location, ref.Line)
				}
			}
		}
	}
	_, err := fmt.Fprintf(w, "all levels: %s %s\n", signedChange(diff.AllNew), signedChange(-diff.AllEliminated))
	return err
}
