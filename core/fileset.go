package core

import (
	"fmt"
	"path/filepath"

	"github.com/statice-dev/sarq/core/filtering"
	"github.com/statice-dev/sarq/schema"
)

// FileSet is a composite over SARIF files and subdirectories of SARIF
// files, presenting the same aggregate accessors as a single file.
type FileSet struct {
	dirPath string
	subdirs []*FileSet
	files   []*File
}

// NewFileSet returns an empty file set. dirPath is the directory this set
// was loaded from, or "" for the top-level set assembled from command line
// arguments.
func NewFileSet(dirPath string) *FileSet {
	return &FileSet{dirPath: dirPath}
}

// AddFile adds one parsed file to the set.
func (s *FileSet) AddFile(file *File) {
	s.files = append(s.files, file)
}

// AddSubdir adds a nested file set loaded from a subdirectory.
func (s *FileSet) AddSubdir(subdir *FileSet) {
	s.subdirs = append(s.subdirs, subdir)
}

// Files returns every file in the set, depth first.
func (s *FileSet) Files() []*File {
	var ret []*File
	for _, subdir := range s.subdirs {
		ret = append(ret, subdir.Files()...)
	}
	ret = append(ret, s.files...)
	return ret
}

// FileCount returns the number of files in the set.
func (s *FileSet) FileCount() int {
	return len(s.Files())
}

// Runs returns every run in the set.
func (s *FileSet) Runs() []*Run {
	var ret []*Run
	for _, file := range s.Files() {
		ret = append(ret, file.Runs()...)
	}
	return ret
}

// Describe summarizes what was loaded, for log messages.
func (s *FileSet) Describe() string {
	files := s.Files()
	switch len(files) {
	case 0:
		return "no SARIF files"
	case 1:
		return filepath.Base(files[0].AbsPath())
	}
	return fmt.Sprintf("%d SARIF files", len(files))
}

// DistinctToolNames returns the tool names across the set, first occurrence
// order, without duplicates.
func (s *FileSet) DistinctToolNames() []string {
	var ret []string
	seen := map[string]bool{}
	for _, file := range s.Files() {
		for _, name := range file.DistinctToolNames() {
			if !seen[name] {
				seen[name] = true
				ret = append(ret, name)
			}
		}
	}
	return ret
}

// InitPathPrefixStripping configures path prefix removal on every run in the
// set.
func (s *FileSet) InitPathPrefixStripping(autotrim bool, pathPrefixes []string) error {
	for _, file := range s.Files() {
		if err := file.InitPathPrefixStripping(autotrim, pathPrefixes); err != nil {
			return err
		}
	}
	return nil
}

// InitDefaultLineNumber configures line number defaulting on every run in
// the set.
func (s *FileSet) InitDefaultLineNumber() {
	for _, file := range s.Files() {
		file.InitDefaultLineNumber()
	}
}

// InitGeneralFilter installs a filter definition on every run in the set.
func (s *FileSet) InitGeneralFilter(definition *filtering.Definition) error {
	for _, file := range s.Files() {
		if err := file.InitGeneralFilter(definition); err != nil {
			return err
		}
	}
	return nil
}

// Records returns the flattened records across the whole set.
func (s *FileSet) Records() ([]*schema.Record, error) {
	var ret []*schema.Record
	for _, file := range s.Files() {
		records, err := file.Records()
		if err != nil {
			return nil, err
		}
		ret = append(ret, records...)
	}
	return ret, nil
}

// Report builds a grouped issues report across the whole set.
func (s *FileSet) Report() (*IssuesReport, error) {
	report := NewIssuesReport()
	if err := addRecordsToReport(report, s); err != nil {
		return nil, err
	}
	return report, nil
}

// ResultCount returns the number of results across the set, after filtering.
func (s *FileSet) ResultCount() int {
	total := 0
	for _, file := range s.Files() {
		total += file.ResultCount()
	}
	return total
}

// FilterStats aggregates filter stats across the set, or nil when no run has
// a filter.
func (s *FileSet) FilterStats() *filtering.FilterStats {
	var ret *filtering.FilterStats
	for _, file := range s.Files() {
		stats := file.FilterStats()
		if stats == nil {
			continue
		}
		if ret == nil {
			ret = stats.Copy()
		} else {
			ret.Add(stats)
		}
	}
	return ret
}

// HasBlameInfo reports whether any run in the set carries blame information.
func (s *FileSet) HasBlameInfo() bool {
	for _, file := range s.Files() {
		if file.HasBlameInfo() {
			return true
		}
	}
	return false
}
