package render

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/schema"
)

// WriteCSV writes the record list as a CSV spreadsheet, severity buckets in
// priority order and rows sorted by code within each bucket.
func WriteCSV(fileSet *core.FileSet, cfg *contract.Config) error {
	records, err := fileSet.Records()
	if err != nil {
		return err
	}
	withBlame := fileSet.HasBlameInfo()
	return WriteWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeRecordsCSV(w, records, withBlame)
	}, "Wrote CSV")
}

func writeRecordsCSV(w io.Writer, records []*schema.Record, withBlame bool) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(schema.RecordHeadings(withBlame)); err != nil {
		return err
	}
	for _, severity := range schema.SeveritiesWithNone {
		bucket := make([]*schema.Record, 0, len(records))
		for _, record := range records {
			if record.Severity == severity {
				bucket = append(bucket, record)
			}
		}
		sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].Code < bucket[j].Code })
		for _, record := range bucket {
			if err := csvWriter.Write(record.Values(withBlame)); err != nil {
				return err
			}
		}
	}
	return nil
}
