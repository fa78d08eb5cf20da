package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sync"

	"blog_app/internal/logger"
	"blog_app/internal/repository/db/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Supported driver names, as registered with database/sql.
const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA foreign_keys = ON;",
	"PRAGMA busy_timeout = 5000;",
}

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

// Open connects to the database, applies pending migrations and pings it.
func Open(ctx context.Context, driver, dsn string, log *logger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s at %q: %w", driver, dsn, err)
	}

	if driver == DriverSQLite {
		// single writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		for _, p := range sqlitePragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("set %s: %w", p, err)
			}
		}
	}

	if err := Migrate(ctx, db.DB, driver, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, nil
}

// Migrate runs the embedded goose migrations for driver.
func Migrate(ctx context.Context, db *sql.DB, driver string, log *logger.Logger) error {
	var (
		fsys    fs.FS
		dialect string
		dir     string
	)
	switch driver {
	case DriverSQLite:
		fsys, dialect, dir = migrations.SQLite, "sqlite3", "sqlite3"
	case DriverPgx:
		fsys, dialect, dir = migrations.Postgres, "postgres", "postgres"
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if log != nil {
		goose.SetLogger(gooseLogger{log})
	} else {
		goose.SetLogger(goose.NopLogger())
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect %q: %w", dialect, err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) Printf(format string, v ...any) { g.log.Infof(format, v...) }
func (g gooseLogger) Fatalf(format string, v ...any) { g.log.Fatalf(format, v...) }
