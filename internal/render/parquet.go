package render

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
)

// ParquetRecord is the columnar form of a flattened issue record.
// The schema is automatically derived from the struct tags.
type ParquetRecord struct {
	Tool        string `parquet:"tool,snappy"`
	Location    string `parquet:"location,snappy"`
	Line        string `parquet:"line,snappy"`
	Severity    string `parquet:"severity,snappy"`
	Code        string `parquet:"code,snappy"`
	Description string `parquet:"description,snappy"`

	// Author is empty unless blame enrichment has run on the input.
	Author string `parquet:"author,optional,snappy"`
}

// WriteParquet exports the record list to a Parquet file for downstream
// analytics. Parquet is a binary format, so an output file is always
// written; without -o a default name is used.
func WriteParquet(fileSet *core.FileSet, cfg *contract.Config) error {
	records, err := fileSet.Records()
	if err != nil {
		return err
	}

	outputPath := cfg.OutputFile
	if outputPath == "" {
		outputPath = "sarq_records.parquet"
	}

	rows := make([]ParquetRecord, len(records))
	for i, record := range records {
		rows[i] = ParquetRecord{
			Tool:        record.Tool,
			Location:    record.Location,
			Line:        record.Line,
			Severity:    string(record.Severity),
			Code:        record.Code,
			Description: record.Description,
			Author:      record.Author,
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[ParquetRecord](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %d records to %s\n", len(rows), outputPath)
	return nil
}
