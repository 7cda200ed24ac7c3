// Package store persists typed transcripts to SQLite.
//
// The database lives next to the config by default. Schema changes are
// embedded migrations run by golang-migrate; the application connection
// uses the wasm-based ncruces driver so no cgo is required.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"tapboard/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the transcript database connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens (creating if needed) the transcript database at path and
// brings the schema up to date. An existing file is backed up to
// path.bak before migrations run.
func NewDB(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	if err := backupExisting(path); err != nil {
		return nil, err
	}

	if err := runMigrations(path); err != nil {
		return nil, err
	}

	// Pragmas ride along on the DSN so every pooled connection gets them.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log.Debug(log.CatStore, "transcript database ready", "path", path)
	return &DB{conn: conn}, nil
}

// Conn exposes the underlying connection for repositories.
func (d *DB) Conn() *sql.DB { return d.conn }

// Close closes the database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// backupExisting copies an existing database file to path.bak so a bad
// migration never eats the only copy.
func backupExisting(path string) error {
	src, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening database for backup: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(path+".bak", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("creating backup file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing backup: %w", err)
	}
	return nil
}

// runMigrations applies the embedded migrations. The migration step uses
// migrate's own sqlite driver on a short-lived connection; the file is
// shared with the application connection opened afterwards.
func runMigrations(path string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+path)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.ErrorErr(log.CatStore, "closing migration source", srcErr)
		}
		if dbErr != nil {
			log.ErrorErr(log.CatStore, "closing migration connection", dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
