package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// hasSarifExtension accepts the conventional SARIF file extensions.
func hasSarifExtension(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".sarif") || strings.HasSuffix(lower, ".sarif.json")
}

// LoadFiles assembles a file set from path arguments. Each argument may be a
// SARIF file, a directory of SARIF files, or a glob pattern. Directories are
// scanned for *.sarif and *.sarif.json entries, recursively when recurse is
// set. An argument matching nothing is an error.
func LoadFiles(paths []string, recurse bool) (*FileSet, error) {
	ret := NewFileSet("")
	for _, path := range paths {
		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir():
			subdir, err := loadDir(path, recurse)
			if err != nil {
				return nil, err
			}
			ret.AddSubdir(subdir)
		case err == nil:
			file, err := LoadFile(path)
			if err != nil {
				return nil, err
			}
			ret.AddFile(file)
		default:
			matches, globErr := filepath.Glob(path)
			if globErr != nil || len(matches) == 0 {
				return nil, fmt.Errorf("path %s does not exist", path)
			}
			sort.Strings(matches)
			for _, match := range matches {
				file, err := LoadFile(match)
				if err != nil {
					return nil, err
				}
				ret.AddFile(file)
			}
		}
	}
	return ret, nil
}

func loadDir(path string, recurse bool) (*FileSet, error) {
	ret := NewFileSet(path)
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", path, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		entryPath := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			if recurse {
				subdir, err := loadDir(entryPath, true)
				if err != nil {
					return nil, err
				}
				ret.AddSubdir(subdir)
			}
			continue
		}
		if !hasSarifExtension(entry.Name()) {
			continue
		}
		file, err := LoadFile(entryPath)
		if err != nil {
			return nil, err
		}
		ret.AddFile(file)
	}
	return ret, nil
}

// LoadFile parses one SARIF file.
func LoadFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read SARIF file %s: %w", path, err)
	}
	var data map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("cannot parse SARIF file %s: %w", path, err)
	}
	mtime := time.Time{}
	if info, statErr := os.Stat(path); statErr == nil {
		mtime = info.ModTime()
	}
	return NewFile(path, mtime, data), nil
}
