package filtering

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// filterFile is the on-disk YAML form of a filter definition.
type filterFile struct {
	Description   string        `yaml:"description"`
	Configuration Configuration `yaml:"configuration"`
	Include       []RuleSpec    `yaml:"include"`
	Exclude       []RuleSpec    `yaml:"exclude"`
}

// Definition is a parsed filter definition ready to install on a run, file
// or file set.
type Definition struct {
	Description   string
	Configuration Configuration
	Include       []RuleSpec
	Exclude       []RuleSpec
}

// LoadFilterFile loads a YAML filter file. An unparsable file fails the
// whole load; no partial filter is returned. A missing description defaults
// to the file name.
func LoadFilterFile(path string) (*Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read filter file %s: %w", path, err)
	}
	var parsed filterFile
	if err := yaml.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("cannot read filter file %s: %w", path, err)
	}
	description := parsed.Description
	if description == "" {
		description = filepath.Base(path)
	}
	return &Definition{
		Description:   description,
		Configuration: parsed.Configuration,
		Include:       parsed.Include,
		Exclude:       parsed.Exclude,
	}, nil
}
