package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"

	"github.com/roach88/criteria/internal/bind"
)

// Snapshot is the golden record of one render.
type Snapshot struct {
	Scenario    string       `json:"scenario"`
	Dialect     string       `json:"dialect"`
	SQL         string       `json:"sql"`
	Params      []bind.Param `json:"params"`
	Fingerprint string       `json:"fingerprint"`
}

func (s *Snapshot) toCanonicalMap() map[string]any {
	params := s.Params
	if params == nil {
		params = []bind.Param{}
	}
	return map[string]any{
		"scenario":    s.Scenario,
		"dialect":     s.Dialect,
		"sql":         s.SQL,
		"params":      params,
		"fingerprint": s.Fingerprint,
	}
}

// RunWithGolden runs a scenario and compares its render against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, fs afero.Fs, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(fs, scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, scenario.Dialect, result); err != nil {
		return nil, err
	}
	return result, nil
}

// NewSnapshot captures result for the named scenario.
func NewSnapshot(name, dialectName string, result *Result) Snapshot {
	return Snapshot{
		Scenario:    name,
		Dialect:     dialectName,
		SQL:         result.SQL,
		Params:      result.Params,
		Fingerprint: result.Fingerprint,
	}
}

// Marshal encodes the snapshot as canonical JSON, the golden file format.
func (s *Snapshot) Marshal() ([]byte, error) {
	return bind.MarshalCanonical(s.toCanonicalMap())
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name, dialectName string, result *Result) error {
	t.Helper()

	snapshot := NewSnapshot(name, dialectName, result)
	data, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
