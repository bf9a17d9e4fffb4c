package scrape

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/targets.yaml
var targetsYAML embed.FS

// Target is one postal code processed as an isolated unit of work. Status
// and Limit, when set, override the run defaults for that area only.
type Target struct {
	PostalCode string   `yaml:"postal_code"`
	Status     []string `yaml:"status,omitempty"`
	Limit      int      `yaml:"limit,omitempty"`
}

// Registry holds the configured area targets.
type Registry struct {
	Targets []Target `yaml:"targets"`
}

// LoadTargets reads the embedded targets.yaml, or the file at path when one
// is given. Environment variables in the YAML content are expanded before
// parsing.
func LoadTargets(path string) ([]Target, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = targetsYAML.ReadFile("config/targets.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("loading targets: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, fmt.Errorf("parsing targets: %w", err)
	}

	if len(reg.Targets) == 0 {
		return nil, fmt.Errorf("no targets configured")
	}
	for i, t := range reg.Targets {
		if t.PostalCode == "" {
			return nil, fmt.Errorf("target %d has no postal_code", i)
		}
	}

	return reg.Targets, nil
}
