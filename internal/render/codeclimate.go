package render

import (
	"crypto/md5"
	"fmt"
	"io"
	"strings"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/schema"
)

// codeClimateSeverities maps SARIF severities to the Code Climate scale.
var codeClimateSeverities = map[schema.Severity]string{
	schema.SeverityNone:    "info",
	schema.SeverityNote:    "info",
	schema.SeverityWarning: "minor",
	schema.SeverityError:   "major",
}

// CodeClimateIssue is one entry of a Code Climate report. See the Code
// Climate spec and the GitLab code quality usage guide.
type CodeClimateIssue struct {
	Type        string              `json:"type"`
	CheckName   string              `json:"check_name"`
	Description string              `json:"description"`
	Categories  []string            `json:"categories"`
	Location    CodeClimateLocation `json:"location"`
	Severity    string              `json:"severity"`
	Fingerprint string              `json:"fingerprint"`
}

// CodeClimateLocation points at the file and line an issue occurs on.
type CodeClimateLocation struct {
	Path  string           `json:"path"`
	Lines CodeClimateLines `json:"lines"`
}

type CodeClimateLines struct {
	Begin string `json:"begin"`
}

// WriteCodeClimate writes the record list as a Code Climate JSON report.
func WriteCodeClimate(fileSet *core.FileSet, cfg *contract.Config) error {
	records, err := fileSet.Records()
	if err != nil {
		return err
	}
	return WriteWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, recordsToCodeClimate(records))
	}, "Wrote Code Climate JSON")
}

func recordsToCodeClimate(records []*schema.Record) []CodeClimateIssue {
	content := make([]CodeClimateIssue, 0, len(records))
	for _, record := range records {
		severity, ok := codeClimateSeverities[record.Severity]
		if !ok {
			severity = "minor"
		}

		// Split the code to extract the rule ID and trailing description
		rule := strings.SplitN(record.Code, " ", 2)[0]
		description := ""
		if len(record.Code) > len(rule)+1 {
			description = record.Code[len(rule)+1:]
		}

		// Fingerprints must stay stable across runs, so they hash only
		// fields that identify the issue occurrence.
		fingerprint := md5.Sum([]byte(fmt.Sprintf("%s %s $%s`]", description, record.Location, record.Line)))

		// "categories" is not used in GitLab but marked as "required" in the
		// Code Climate spec. There is no easy way to determine a category so
		// a fixed value is set.
		content = append(content, CodeClimateIssue{
			Type:        "issue",
			CheckName:   rule,
			Description: description,
			Categories:  []string{"Bug Risk"},
			Location: CodeClimateLocation{
				Path:  record.Location,
				Lines: CodeClimateLines{Begin: record.Line},
			},
			Severity:    severity,
			Fingerprint: fmt.Sprintf("%x", fingerprint),
		})
	}
	return content
}
