package harness

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/roach88/criteria/internal/dialect"
)

// Scenario renders one query document and checks the output.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is a .yaml/.yml/.cue schema path, relative to the scenario
	// file. Empty means no schema: every reference is taken literally.
	Schema string `yaml:"schema,omitempty"`

	// Dialect is an adapter name (sqlite, pgsql, mysql). Defaults to sqlite.
	Dialect string `yaml:"dialect,omitempty"`

	// Statement selects the builder. Defaults to select.
	Statement Statement `yaml:"statement,omitempty"`

	Query  Query  `yaml:"query"`
	Expect Expect `yaml:"expect"`
}

// Expect is the expected render.
type Expect struct {
	// SQL is compared verbatim, before placeholder rewriting.
	SQL string `yaml:"sql,omitempty"`

	// Params are the bound values in placeholder order.
	Params []any `yaml:"params,omitempty"`

	// Error, when set, expects rendering to fail with a message
	// containing this text.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and validates a scenario file. The schema path is
// resolved relative to the file.
func LoadScenario(fs afero.Fs, path string) (*Scenario, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) {
		scenario.Schema = filepath.Join(filepath.Dir(path), scenario.Schema)
	}
	if scenario.Dialect == "" {
		scenario.Dialect = dialect.SQLite{}.Name()
	}
	if scenario.Statement == "" {
		scenario.Statement = StatementSelect
	}

	if err := validateScenario(fs, &scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml and .yml file in dir, sorted by file
// name. The first invalid file stops the load.
func LoadScenarios(fs afero.Fs, dir string) ([]*Scenario, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(fs, filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(fs afero.Fs, s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := dialect.Lookup(s.Dialect); err != nil {
		return err
	}
	if _, err := ParseStatement(string(s.Statement)); err != nil {
		return err
	}

	if s.Schema != "" {
		if ok, _ := afero.Exists(fs, s.Schema); !ok {
			return fmt.Errorf("schema file not found: %s", s.Schema)
		}
	}

	if s.Query.Table == "" && len(s.Query.Subqueries) == 0 {
		return fmt.Errorf("query.table is required")
	}
	if s.Expect.SQL == "" && s.Expect.Error == "" {
		return fmt.Errorf("expect.sql or expect.error is required")
	}
	if s.Expect.SQL != "" && s.Expect.Error != "" {
		return fmt.Errorf("expect.sql and expect.error are mutually exclusive")
	}
	return nil
}
