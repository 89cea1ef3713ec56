// Package pkgdb is the local registry of built packages. It records for each
// package reference and package ID the configuration it was built with and
// the libraries in link order.
package pkgdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("package not found")

// Package is a registered binary package.
type Package struct {
	Ref      string // name/version
	ID       string
	Session  string
	Settings map[string]string
	Options  map[string]string
	Libs     []string // in link order
	Created  time.Time
}

type DB struct {
	conn *sql.DB
	log  *slog.Logger
}

// Open opens or creates the registry database at path.
func Open(path string, log *slog.Logger) (*DB, error) {
	if log == nil {
		log = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return nil, fmt.Errorf("create registry dir: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open registry %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create registry schema: %w", err)
	}
	log.Debug("opened package registry", "path", path)
	return &DB{conn: conn, log: log}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS packages (
	ref      TEXT NOT NULL,
	pkg_id   TEXT NOT NULL,
	session  TEXT NOT NULL DEFAULT '',
	settings TEXT NOT NULL,
	options  TEXT NOT NULL,
	created  INTEGER NOT NULL,
	PRIMARY KEY (ref, pkg_id)
);
CREATE INDEX IF NOT EXISTS idx_packages_created ON packages(ref, created DESC);

CREATE TABLE IF NOT EXISTS package_libs (
	ref    TEXT NOT NULL,
	pkg_id TEXT NOT NULL,
	pos    INTEGER NOT NULL,
	lib    TEXT NOT NULL,
	PRIMARY KEY (ref, pkg_id, pos),
	FOREIGN KEY (ref, pkg_id) REFERENCES packages(ref, pkg_id) ON DELETE CASCADE
);
`

func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Record registers pkg. An existing package with the same Ref and ID is
// replaced including its libraries. A zero Created is set to now.
func (db *DB) Record(ctx context.Context, pkg *Package) (err error) {
	if pkg.Ref == "" || pkg.ID == "" {
		return fmt.Errorf("record package: empty ref '%s' or id '%s'", pkg.Ref, pkg.ID)
	}
	if pkg.Created.IsZero() {
		pkg.Created = time.Now()
	}
	settings, err := json.Marshal(nonNil(pkg.Settings))
	if err != nil {
		return err
	}
	options, err := json.Marshal(nonNil(pkg.Options))
	if err != nil {
		return err
	}
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO packages (ref, pkg_id, session, settings, options, created)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (ref, pkg_id) DO UPDATE SET
			session = excluded.session,
			settings = excluded.settings,
			options = excluded.options,
			created = excluded.created`,
		pkg.Ref, pkg.ID, pkg.Session, string(settings), string(options),
		pkg.Created.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record package %s:%s: %w", pkg.Ref, pkg.ID, err)
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM package_libs WHERE ref = ? AND pkg_id = ?`,
		pkg.Ref, pkg.ID,
	)
	if err != nil {
		return err
	}
	for i, lib := range pkg.Libs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO package_libs (ref, pkg_id, pos, lib) VALUES (?, ?, ?, ?)`,
			pkg.Ref, pkg.ID, i, lib,
		)
		if err != nil {
			return fmt.Errorf("record lib %s of %s:%s: %w", lib, pkg.Ref, pkg.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	db.log.Info("registered package",
		"ref", pkg.Ref,
		"id", pkg.ID,
		"libs", len(pkg.Libs),
	)
	return nil
}

// Lookup returns the package with ref and pkgID or [ErrNotFound].
func (db *DB) Lookup(ctx context.Context, ref, pkgID string) (*Package, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT ref, pkg_id, session, settings, options, created
		FROM packages WHERE ref = ? AND pkg_id = ?`,
		ref, pkgID,
	)
	pkg, err := scanPackage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s:%s", ErrNotFound, ref, pkgID)
	} else if err != nil {
		return nil, err
	}
	if pkg.Libs, err = db.libs(ctx, ref, pkgID); err != nil {
		return nil, err
	}
	return pkg, nil
}

// List returns all packages of ref, newest first.
func (db *DB) List(ctx context.Context, ref string) ([]*Package, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT ref, pkg_id, session, settings, options, created
		FROM packages WHERE ref = ?
		ORDER BY created DESC, pkg_id`,
		ref,
	)
	if err != nil {
		return nil, err
	}
	var pkgs []*Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	for _, pkg := range pkgs {
		if pkg.Libs, err = db.libs(ctx, pkg.Ref, pkg.ID); err != nil {
			return nil, err
		}
	}
	return pkgs, nil
}

func (db *DB) libs(ctx context.Context, ref, pkgID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT lib FROM package_libs WHERE ref = ? AND pkg_id = ? ORDER BY pos`,
		ref, pkgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	libs := []string{}
	for rows.Next() {
		var lib string
		if err := rows.Scan(&lib); err != nil {
			return nil, err
		}
		libs = append(libs, lib)
	}
	return libs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPackage(s scanner) (*Package, error) {
	var (
		pkg               Package
		settings, options string
		created           int64
	)
	err := s.Scan(&pkg.Ref, &pkg.ID, &pkg.Session, &settings, &options, &created)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(settings), &pkg.Settings); err != nil {
		return nil, fmt.Errorf("settings of %s:%s: %w", pkg.Ref, pkg.ID, err)
	}
	if err := json.Unmarshal([]byte(options), &pkg.Options); err != nil {
		return nil, fmt.Errorf("options of %s:%s: %w", pkg.Ref, pkg.ID, err)
	}
	pkg.Created = time.Unix(0, created)
	return &pkg, nil
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
