package dialect

import (
	"fmt"
	"strings"
)

// Lookup returns the adapter registered under name.
func Lookup(name string) (Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	case "pgsql", "postgres", "postgresql":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	}
	return nil, fmt.Errorf("unknown dialect %q (want sqlite, pgsql or mysql)", name)
}

// Names lists the canonical dialect names.
func Names() []string {
	return []string{"sqlite", "pgsql", "mysql"}
}
