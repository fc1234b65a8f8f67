package schema

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Load reads a schema, choosing the format from the file extension.
func Load(fs afero.Fs, path string) (*DatabaseMap, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(fs, path)
	case ".cue":
		return LoadCUE(fs, path)
	default:
		return nil, fmt.Errorf("schema %s: unsupported extension %q (want .yaml, .yml or .cue)", path, filepath.Ext(path))
	}
}
