package schema

// Custom string types for type safety.
type (
	// Severity is a SARIF result level as per section 3.27.10 of the standard.
	Severity string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the blame cache.
	DatabaseBackend string
)

// SARIF severity levels, highest first.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning" // default when a result carries no level information
	SeverityNote    Severity = "note"
	SeverityNone    Severity = "none" // informational results with kind != "fail"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All blame cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// SeveritiesWithoutNone is the standard severity order for code issues.
var SeveritiesWithoutNone = []Severity{SeverityError, SeverityWarning, SeverityNote}

// SeveritiesWithNone appends the unusual "none" level, which is only shown
// when at least one record carries it.
var SeveritiesWithNone = []Severity{SeverityError, SeverityWarning, SeverityNote, SeverityNone}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidCacheBackends lists all valid blame cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSeverity reports whether s is one of the four fixed levels.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityNote, SeverityNone:
		return true
	}
	return false
}
