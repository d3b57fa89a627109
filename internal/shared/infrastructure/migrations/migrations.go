// Package migrations applies the embedded schema with goose.
package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedded embed.FS

// Status describes one migration.
type Status struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Runner applies migrations for the connection's dialect.
type Runner struct {
	conn   database.Connection
	source database.SQLDB
	logger *slog.Logger
}

// NewRunner creates a Runner. The connection must expose a database/sql
// handle through database.SQLDB.
func NewRunner(conn database.Connection, logger *slog.Logger) (*Runner, error) {
	if conn == nil {
		return nil, errors.New("nil database connection")
	}
	source, ok := conn.(database.SQLDB)
	if !ok {
		return nil, fmt.Errorf("%s connection does not support migrations", conn.Driver())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{conn: conn, source: source, logger: logger}, nil
}

// Up applies all pending migrations and returns how many ran.
func (r *Runner) Up(ctx context.Context) (int, error) {
	var applied int
	err := r.withProvider(func(p *goose.Provider) error {
		results, err := p.Up(ctx)
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		for _, res := range results {
			r.logger.InfoContext(ctx, "migration applied",
				"version", res.Source.Version,
				"file", path.Base(res.Source.Path),
				"duration", res.Duration)
		}
		applied = len(results)
		return nil
	})
	return applied, err
}

// Down rolls back the most recent migration.
func (r *Runner) Down(ctx context.Context) error {
	return r.withProvider(func(p *goose.Provider) error {
		res, err := p.Down(ctx)
		if err != nil {
			return fmt.Errorf("rollback migration: %w", err)
		}
		r.logger.InfoContext(ctx, "migration rolled back",
			"version", res.Source.Version,
			"file", path.Base(res.Source.Path))
		return nil
	})
}

// Status reports every known migration in version order.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	var statuses []Status
	err := r.withProvider(func(p *goose.Provider) error {
		results, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		statuses = make([]Status, 0, len(results))
		for _, s := range results {
			statuses = append(statuses, Status{
				Version:   s.Source.Version,
				Name:      path.Base(s.Source.Path),
				Applied:   s.State == goose.StateApplied,
				AppliedAt: s.AppliedAt,
			})
		}
		return nil
	})
	return statuses, err
}

// Version returns the highest applied migration version.
func (r *Runner) Version(ctx context.Context) (int64, error) {
	var version int64
	err := r.withProvider(func(p *goose.Provider) error {
		v, err := p.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("database version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

func (r *Runner) withProvider(fn func(*goose.Provider) error) error {
	dialect, dir, err := dialectFor(r.conn.Driver())
	if err != nil {
		return err
	}

	fsys, err := fs.Sub(embedded, dir)
	if err != nil {
		return fmt.Errorf("open %s migrations: %w", dir, err)
	}

	db, release, err := r.source.SQLDB()
	if err != nil {
		return fmt.Errorf("open sql handle: %w", err)
	}
	defer func() { _ = release() }()

	// Provider.Close would close db, which belongs to the connection.
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}
	return fn(provider)
}

func dialectFor(driver database.Driver) (goose.Dialect, string, error) {
	switch driver {
	case database.DriverSQLite:
		return goose.DialectSQLite3, "sqlite", nil
	case database.DriverPostgres:
		return goose.DialectPostgres, "postgres", nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %s", driver)
	}
}

// Apply opens a runner on conn and applies pending migrations.
func Apply(ctx context.Context, conn database.Connection, logger *slog.Logger) error {
	runner, err := NewRunner(conn, logger)
	if err != nil {
		return err
	}
	_, err = runner.Up(ctx)
	return err
}
