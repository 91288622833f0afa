package store

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"             // registers the "sqlite" database/sql driver

	"github.com/mesh-intelligence/crate/pkg/types"
)

// DatabaseFile is the sqlite file created inside Config.DataDir.
const DatabaseFile = "crate.db"

// dialect captures what differs between the supported SQL engines.
type dialect struct {
	name        string
	driver      string
	placeholder sq.PlaceholderFormat
	// idColumn is the column definition for surrogate integer keys.
	idColumn string
	// intType is the type used for integer foreign keys.
	intType string
}

var (
	sqliteDialect = dialect{
		name:        types.BackendSQLite,
		driver:      "sqlite",
		placeholder: sq.Question,
		idColumn:    "INTEGER PRIMARY KEY AUTOINCREMENT",
		intType:     "INTEGER",
	}
	postgresDialect = dialect{
		name:        types.BackendPostgres,
		driver:      "pgx",
		placeholder: sq.Dollar,
		idColumn:    "BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY",
		intType:     "BIGINT",
	}
)

func dialectFor(backend string) (dialect, error) {
	switch backend {
	case types.BackendSQLite:
		return sqliteDialect, nil
	case types.BackendPostgres:
		return postgresDialect, nil
	default:
		return dialect{}, fmt.Errorf("%w: %q", types.ErrBackendUnknown, backend)
	}
}

// dataSource builds the driver DSN for cfg. For sqlite it creates DataDir
// when missing. Every sqlite transaction starts with BEGIN IMMEDIATE so
// concurrent writers queue on the busy timeout instead of failing on upgrade.
func (d dialect) dataSource(cfg types.Config) (string, error) {
	if d.name == types.BackendPostgres {
		return cfg.DSN, nil
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.GetBusyTimeout().Milliseconds()))
	params.Add("_pragma", "journal_mode(WAL)")
	params.Set("_txlock", "immediate")

	path := filepath.Join(dataDir, DatabaseFile)
	return "file:" + path + "?" + params.Encode(), nil
}

// render substitutes the dialect's column types into a DDL template.
func (d dialect) render(ddl string) string {
	return strings.NewReplacer("{{id}}", d.idColumn, "{{int}}", d.intType).Replace(ddl)
}
