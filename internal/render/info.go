package render

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
)

const (
	bytesPerMiB = 1024 * 1024
	bytesPerKiB = 1024
)

// WriteInfo writes per-file metadata: size, modification time, runs, tools
// and result property bag statistics.
func WriteInfo(fileSet *core.FileSet, cfg *contract.Config) error {
	return WriteWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeInfo(w, fileSet)
	}, "Wrote info")
}

func writeInfo(w io.Writer, fileSet *core.FileSet) error {
	for _, file := range fileSet.Files() {
		fmt.Fprintln(w, file.AbsPath())
		if info, err := os.Stat(file.AbsPath()); err == nil {
			fmt.Fprintf(w, "  %d bytes (%s)\n", info.Size(), readableSize(info.Size()))
			fmt.Fprintf(w, "  modified: %s\n", info.ModTime())
		}
		runs := file.Runs()
		fmt.Fprintf(w, "  %s\n", pluralize(len(runs), "run", "runs"))
		for runIndex, run := range runs {
			if len(runs) != 1 {
				fmt.Fprintf(w, "  Run #%d:\n", runIndex+1)
			}
			fmt.Fprintf(w, "    Tool: %s\n", run.ToolName())
			if conversionTool := run.ConversionToolName(); conversionTool != "" {
				fmt.Fprintf(w, "    Conversion tool: %s\n", conversionTool)
			}
			results := run.Results()
			fmt.Fprintf(w, "    %s\n", pluralize(len(results), "result", "results"))
			writePropertyBagStats(w, results)
		}
	}
	return nil
}

func readableSize(sizeInBytes int64) string {
	if sizeInBytes > bytesPerMiB {
		return fmt.Sprintf("%.1f MiB", float64(sizeInBytes)/bytesPerMiB)
	}
	return fmt.Sprintf("%d KiB", (sizeInBytes+bytesPerKiB-1)/bytesPerKiB)
}

func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// writePropertyBagStats summarizes which property bag keys the results
// carry: keys present on every result, and keys present on only some.
func writePropertyBagStats(w io.Writer, results []map[string]any) {
	if len(results) == 0 {
		return
	}
	tally := map[string]int{}
	for _, result := range results {
		if properties, ok := result["properties"].(map[string]any); ok {
			for key := range properties {
				tally[key]++
			}
		}
	}
	if len(tally) == 0 {
		return
	}

	var universal []string
	type partial struct {
		key   string
		count int
	}
	var partials []partial
	for key, count := range tally {
		if count == len(results) {
			universal = append(universal, key)
		} else {
			partials = append(partials, partial{key, count})
		}
	}
	sort.Strings(universal)
	// Sort by descending tally then alphabetically
	sort.Slice(partials, func(i, j int) bool {
		if partials[i].count != partials[j].count {
			return partials[i].count > partials[j].count
		}
		return partials[i].key < partials[j].key
	})

	partialStrings := ""
	for i, p := range partials {
		if i > 0 {
			partialStrings += ", "
		}
		partialStrings += fmt.Sprintf("%s %d/%d (%.1f %%)", p.key, p.count, len(results),
			100*float64(p.count)/float64(len(results)))
	}

	switch {
	case len(universal) > 0 && len(partials) > 0:
		fmt.Fprintf(w, "    Result properties: all results have properties: %s; some results have properties: %s\n",
			strings.Join(universal, ", "), partialStrings)
	case len(universal) > 0:
		fmt.Fprintf(w, "    All results have properties: %s\n", strings.Join(universal, ", "))
	default:
		fmt.Fprintf(w, "    Some results have properties: %s\n", partialStrings)
	}
}
