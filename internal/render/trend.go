package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/schema"
)

// trendRow is one file's severity counts on the timeline.
type trendRow struct {
	stamp  string // compact timestamp, used for sorting
	date   string // spreadsheet-friendly date in the requested format
	tool   string
	counts map[schema.Severity]int
}

// WriteTrend writes a timeline CSV of severity counts. Each file must carry
// a compact UTC timestamp such as 20211012T110000Z in its name. When the
// timeline has two or more points, a per-severity linear trend is reported
// as well.
func WriteTrend(fileSet *core.FileSet, cfg *contract.Config, dateFormat string) error {
	var rows []trendRow
	for _, file := range fileSet.Files() {
		stamp := file.FilenameTimestamp()
		if stamp == "" {
			return fmt.Errorf("unable to parse date from filename: %s", file.FileName())
		}
		records, err := file.Records()
		if err != nil {
			return err
		}
		row := trendRow{
			stamp:  stamp,
			date:   formatTrendDate(stamp, dateFormat),
			tool:   joinToolNames(file.DistinctToolNames()),
			counts: map[schema.Severity]int{},
		}
		for _, record := range records {
			row.counts[record.Severity]++
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].stamp < rows[j].stamp })

	if err := WriteWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeTrendCSV(w, rows)
	}, "Wrote trend CSV"); err != nil {
		return err
	}

	printTrendSlopes(rows)
	if stats := fileSet.FilterStats(); stats != nil {
		fmt.Printf("  Results are filtered by %s\n", stats)
	}
	return nil
}

func writeTrendCSV(w io.Writer, rows []trendRow) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	header := []string{"Date", "Tool"}
	for _, severity := range schema.SeveritiesWithNone {
		header = append(header, string(severity))
	}
	if err := csvWriter.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		out := []string{row.date, row.tool}
		for _, severity := range schema.SeveritiesWithNone {
			out = append(out, strconv.Itoa(row.counts[severity]))
		}
		if err := csvWriter.Write(out); err != nil {
			return err
		}
	}
	return nil
}

// formatTrendDate turns a compact timestamp into something that looks nice
// in a spreadsheet, in dmy, mdy or ymd order.
func formatTrendDate(stamp, dateFormat string) string {
	year, month, day := stamp[0:4], stamp[4:6], stamp[6:8]
	hour, minute := stamp[9:11], stamp[11:13]
	switch dateFormat {
	case "ymd":
		return fmt.Sprintf("%s-%s-%s %s:%s", year, month, day, hour, minute)
	case "mdy":
		return fmt.Sprintf("%s/%s/%s %s:%s", month, day, year, hour, minute)
	default: // dmy
		return fmt.Sprintf("%s/%s/%s %s:%s", day, month, year, hour, minute)
	}
}

func joinToolNames(names []string) string {
	ret := ""
	for i, name := range names {
		if i > 0 {
			ret += "/"
		}
		ret += name
	}
	return ret
}

// printTrendSlopes fits a least-squares line per severity over the timeline
// and reports the slope in issues per day.
func printTrendSlopes(rows []trendRow) {
	if len(rows) < 2 {
		return
	}
	times := make([]time.Time, len(rows))
	for i, row := range rows {
		at, err := time.Parse(core.TimestampFormat, row.stamp)
		if err != nil {
			return
		}
		times[i] = at
	}
	xs := make([]float64, len(rows))
	for i, at := range times {
		xs[i] = at.Sub(times[0]).Hours() / 24
	}
	if xs[len(xs)-1] == 0 {
		return
	}
	for _, severity := range schema.SeveritiesWithNone {
		ys := make([]float64, len(rows))
		any := false
		for i, row := range rows {
			ys[i] = float64(row.counts[severity])
			if ys[i] > 0 {
				any = true
			}
		}
		if !any {
			continue
		}
		_, slope := stat.LinearRegression(xs, ys, nil, false)
		fmt.Printf("  %s trend: %+.2f issues/day\n", severity, slope)
	}
}
