package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
)

// WriteLs writes a SARIF file listing for each of the input files or
// directories.
func WriteLs(paths []string, cfg *contract.Config) error {
	var lines []string
	for _, path := range paths {
		lines = append(lines, path+":")
		fileSet, err := core.LoadFiles([]string{path}, cfg.Recurse)
		if err != nil {
			return err
		}
		files := fileSet.Files()
		if len(files) == 0 {
			lines = append(lines, "  (None)")
			continue
		}
		names := make([]string, 0, len(files))
		for _, file := range files {
			names = append(names, file.FileName())
		}
		sort.Strings(names)
		for _, name := range names {
			lines = append(lines, "  "+name)
		}
	}
	return WriteWithFile(cfg.OutputFile, func(w io.Writer) error {
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote file listing")
}
