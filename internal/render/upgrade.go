package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// upgradedFilter is the YAML layout of a converted filter file.
type upgradedFilter struct {
	Description   string              `yaml:"description"`
	Configuration map[string]bool     `yaml:"configuration"`
	Include       []map[string]string `yaml:"include,omitempty"`
	Exclude       []map[string]string `yaml:"exclude,omitempty"`
}

// UpgradeFilterFile converts a legacy blame filter file (one author-mail
// pattern per line, with optional "+: " and "-: " prefixes) into a general
// filter file in YAML form.
func UpgradeFilterFile(oldFilterFile, outputFile string) error {
	description, includePatterns, excludePatterns, err := loadBlameFilterFile(oldFilterFile)
	if err != nil {
		return err
	}

	definition := upgradedFilter{
		Description: description,
		Configuration: map[string]bool{
			"default-include":   true,
			"check-line-number": true,
		},
	}
	for _, pattern := range includePatterns {
		definition.Include = append(definition.Include, map[string]string{"author-mail": pattern})
	}
	for _, pattern := range excludePatterns {
		definition.Exclude = append(definition.Exclude, map[string]string{"author-mail": pattern})
	}

	encoded, err := yaml.Marshal(definition)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputFile, encoded, 0o644); err != nil {
		return fmt.Errorf("cannot write filter file %s: %w", outputFile, err)
	}
	fmt.Println("Wrote", outputFile)
	return nil
}

func loadBlameFilterFile(filePath string) (string, []string, []string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", nil, nil, fmt.Errorf("cannot read blame filter file %s: %w", filePath, err)
	}

	description := filepath.Base(filePath)
	var includePatterns, excludePatterns []string
	for _, line := range strings.Split(string(content), "\n") {
		// Strip byte order mark
		line = strings.TrimPrefix(line, "\uFEFF")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			// Ignore blank and comment lines
			continue
		}
		switch {
		case strings.HasPrefix(line, "description:"):
			description = strings.TrimSpace(line[len("description:"):])
		case strings.HasPrefix(line, "+: "):
			includePatterns = append(includePatterns, strings.TrimSpace(line[3:]))
		case strings.HasPrefix(line, "-: "):
			excludePatterns = append(excludePatterns, strings.TrimSpace(line[3:]))
		default:
			includePatterns = append(includePatterns, line)
		}
	}
	return description, includePatterns, excludePatterns, nil
}
