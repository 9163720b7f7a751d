package render

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
)

// sarifSchemaURI is the JSON schema written into generated SARIF files.
const sarifSchemaURI = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"

// CopySarif generates a new SARIF file combining the runs of the input
// files. Installed filters are baked in: filtered results are dropped from
// the output and the filter statistics are recorded in each run's
// conversion object, so later commands can report them. Returns the path of
// the file written.
func CopySarif(fileSet *core.FileSet, cfg *contract.Config, version, cmdline string, appendTimestamp bool) (string, error) {
	output := cfg.OutputFile
	if output == "" {
		output = "out.sarif"
	}
	outputAbs, err := filepath.Abs(output)
	if err != nil {
		outputAbs = output
	}

	now := time.Now().UTC()
	dataOut := map[string]any{
		"$schema": sarifSchemaURI,
		"version": "2.1.0",
	}
	var runsOut []any

	runCount := 0
	inputFileCount := 0
	for _, inputFile := range fileSet.Files() {
		if inputFile.AbsPath() == outputAbs {
			fmt.Printf("Auto-excluding output file %s from input file list\n", output)
			continue
		}
		inputFileCount++
		for _, run := range inputFile.Runs() {
			runCount++
			// Shallow copy, so the conversion and results of the output
			// are rewritten without touching the loaded input.
			runCopy := maps.Clone(run.Data())

			conversionProperties := map[string]any{
				"file":      inputFile.AbsPath(),
				"modified":  inputFile.ModifiedTime().Format(time.RFC3339),
				"processed": now.Format(time.RFC3339),
			}
			invocation := map[string]any{
				"commandLine": cmdline,
				"endTimeUtc":  now.Format(core.TimestampFormat),
			}
			runCopy["conversion"] = map[string]any{
				"tool": map[string]any{
					"driver": map[string]any{
						"name":       core.ConversionToolName,
						"version":    version,
						"properties": conversionProperties,
					},
				},
				"invocation": invocation,
			}
			if _, ok := runCopy["automationDetails"]; !ok {
				runCopy["automationDetails"] = map[string]any{"guid": uuid.NewString()}
			}
			if stats := run.FilterStats(); stats != nil {
				results := run.Results()
				resultsOut := make([]any, 0, len(results))
				for _, result := range results {
					resultsOut = append(resultsOut, result)
				}
				runCopy["results"] = resultsOut
				invocation["properties"] = map[string]any{"filtered": stats.ToPropertyBag()}
			}
			runsOut = append(runsOut, runCopy)
		}
	}
	dataOut["runs"] = runsOut

	outputPath := output
	if appendTimestamp {
		ext := filepath.Ext(output)
		if ext == "" {
			ext = ".sarif"
		}
		outputPath = strings.TrimSuffix(output, filepath.Ext(output)) +
			"_" + now.Format(core.TimestampFormat) + ext
	}
	if err := WriteSarifFile(outputPath, dataOut); err != nil {
		return "", err
	}

	fmt.Printf("Wrote %s with %s from %s\n", outputPath,
		pluralize(runCount, "run", "runs"), pluralize(inputFileCount, "SARIF file", "SARIF files"))
	if stats := fileSet.FilterStats(); stats != nil {
		fmt.Println(stats)
	}
	return outputPath, nil
}

// WriteSarifFile serializes a SARIF document to a file.
func WriteSarifFile(path string, data map[string]any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot write SARIF file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()
	return writeJSON(file, data)
}
