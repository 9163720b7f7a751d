package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/statice-dev/sarq/schema"
)

// Color variables for console output.
var (
	ErrorColor   = color.New(color.FgRed, color.Bold)    // errors are the headline numbers.
	WarningColor = color.New(color.FgYellow)             // warnings are standard caution, not bold.
	NoteColor    = color.New(color.FgCyan)               // notes are informational.
	NoneColor    = color.New(color.Faint)                // "none" results are de-emphasized.
)

// GetPlainSeverityLabel returns the plain text label for a severity. This is
// the core logic used for CSV, JSON, and table printing.
func GetPlainSeverityLabel(severity schema.Severity) string {
	return string(severity)
}

// GetColorSeverityLabel returns a colored severity label for console output
// (table). It uses GetPlainSeverityLabel to determine the string, and then
// applies the appropriate color.
func GetColorSeverityLabel(severity schema.Severity) string {
	text := GetPlainSeverityLabel(severity)

	switch severity {
	case schema.SeverityError:
		return ErrorColor.Sprint(text)
	case schema.SeverityWarning:
		return WarningColor.Sprint(text)
	case schema.SeverityNote:
		return NoteColor.Sprint(text)
	default: // "none" and anything non-standard
		return NoneColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetBlameDBFilePath returns the path to the SQLite DB file for blame cache
// storage.
func GetBlameDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sarq_blame_cache.db"
	}
	return filepath.Join(homeDir, ".sarq_blame_cache.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
