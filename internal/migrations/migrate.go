package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var files embed.FS

const (
	sqliteDialect = "sqlite3"
	migrationsDir = "sql"
)

// Up runs all pending SQL migrations bundled with the binary.
func Up(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}

// Version reports the schema version currently applied to db.
func Version(db *sql.DB) (int64, error) {
	if err := setup(); err != nil {
		return 0, err
	}

	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("read goose version: %w", err)
	}
	return v, nil
}

func setup() error {
	goose.SetBaseFS(files)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}
