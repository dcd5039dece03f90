package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"sync"

	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/pressly/goose/v3"
)

// DefaultDir is the on-disk location of the migrations, relative to the repo root.
const DefaultDir = "pkg/migrate/migrations"

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

const embeddedDir = "migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// goose keeps its dialect and filesystem in package state.
var gooseMu sync.Mutex

// DialectFor maps the configured DB driver to the goose dialect name.
func DialectFor(cfg config.DBConfig) string {
	if cfg.IsSQLite() {
		return DialectSQLite
	}
	return DialectPostgres
}

// Migrator applies the storefront schema migrations to one database.
type Migrator struct {
	db      *sql.DB
	dialect string
	fsys    fs.FS
	dir     string
}

// New returns a Migrator over the migrations compiled into the binary.
func New(db *sql.DB, dialect string) *Migrator {
	return &Migrator{db: db, dialect: dialect, fsys: embedded, dir: embeddedDir}
}

// NewFromDir returns a Migrator over the migrations found in dir on disk.
func NewFromDir(db *sql.DB, dialect, dir string) *Migrator {
	return &Migrator{db: db, dialect: dialect, dir: dir}
}

func (m *Migrator) run(fn func() error) error {
	if m.db == nil {
		return fmt.Errorf("db is required")
	}
	dialect := m.dialect
	if dialect == "" {
		dialect = DialectPostgres
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(m.fsys)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return fn()
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(func() error {
		if err := goose.UpContext(ctx, m.db, m.dir); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	})
}

// Down rolls back the latest migration.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(func() error {
		if err := goose.DownContext(ctx, m.db, m.dir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		return nil
	})
}

// Status prints the applied and pending migrations.
func (m *Migrator) Status(ctx context.Context) error {
	return m.run(func() error {
		if err := goose.StatusContext(ctx, m.db, m.dir); err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		return nil
	})
}

// Version returns the latest applied migration version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	var version int64
	err := m.run(func() error {
		v, err := goose.GetDBVersionContext(ctx, m.db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

// To migrates up or down until target (YYYYMMDDHHMMSS) is the current version.
func (m *Migrator) To(ctx context.Context, target string) error {
	version, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", target, err)
	}

	return m.run(func() error {
		current, err := goose.GetDBVersionContext(ctx, m.db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}
		switch {
		case current < version:
			err = goose.UpToContext(ctx, m.db, m.dir, version)
		case current > version:
			err = goose.DownToContext(ctx, m.db, m.dir, version)
		}
		if err != nil {
			return fmt.Errorf("goose migrate to %d: %w", version, err)
		}
		return nil
	})
}
