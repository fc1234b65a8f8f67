package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/roach88/criteria/internal/testutil"
)

func init() {
	// Plain labels so output assertions see "✓ name", not escape codes.
	color.NoColor = true
}

const testTraceID = "0190a5c4-0000-7000-8000-000000000001"

const itemSchema = `database: shop
tables:
  - name: item
    id_method: native
    columns:
      - {name: id, type: INTEGER, primary_key: true, required: true}
      - {name: name, type: VARCHAR(64)}
      - {name: price, type: FLOAT}
`

const itemQuery = `table: item
select: [item.name]
filters:
  - {column: item.price, op: ">", value: 10}
order_by: ["item.price desc"]
`

// memFs returns a filesystem holding the item schema and query.
func memFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/schema.yaml", []byte(itemSchema), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/query.yaml", []byte(itemQuery), 0o644))
	return fs
}

// runCLI executes the root command with args and returns stdout, stderr
// and the error.
func runCLI(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := NewRootCommandWithOptions(&RootOptions{
		Fs:       fs,
		TraceIDs: testutil.NewFixedTraceGenerator(testTraceID),
	})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeResponse parses a JSON CLI response with a typed Data payload.
func decodeResponse[T any](t *testing.T, out string) (CLIResponse, T) {
	t.Helper()
	var raw struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), "output: %s", out)

	var data T
	if len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, &data))
	}
	return raw.CLIResponse, data
}
