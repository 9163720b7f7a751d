package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
)

// WriteBlameOutputs writes each enriched input file back out with a
// "_with_blame" suffix, or to the configured output file when there is a
// single input. Files with no blame information at all are skipped with a
// warning instead of being copied unchanged. Returns the paths written.
func WriteBlameOutputs(fileSet *core.FileSet, cfg *contract.Config) ([]string, error) {
	multiple := fileSet.FileCount() > 1
	var written []string
	for _, file := range fileSet.Files() {
		if !file.HasBlameInfo() {
			fmt.Fprintf(os.Stderr,
				"WARNING: did not find any git blame information for %s\n", file.FileName())
			continue
		}
		outputFile := cfg.OutputFile
		if multiple || outputFile == "" {
			name := file.FileNameWithoutExtension() + "_with_blame.sarif"
			outputFile = filepath.Join(cfg.OutputFile, name)
		}
		if err := WriteSarifFile(outputFile, file.Data()); err != nil {
			return written, err
		}
		written = append(written, outputFile)
	}
	return written, nil
}
