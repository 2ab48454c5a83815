// Package mysql is the relational credential store: connection setup,
// schema migrations and the account repository.
package mysql

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout  = 5 * time.Second
	migrationsTable = "users_schema_migrations"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Config captures the settings for opening the MySQL pool.
type Config struct {
	DSN     string
	Timeout time.Duration
}

// Connect opens a pool and verifies it with a ping. parseTime is forced on so
// DATETIME columns scan into time.Time.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	dsnCfg, err := gomysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	dsnCfg.ParseTime = true
	dsnCfg.MultiStatements = true
	dsnCfg.Loc = time.UTC

	db, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}

// Migrate applies pending migrations. When dir is empty the migrations
// embedded in the binary are used.
func Migrate(db *sql.DB, dir string, log zerolog.Logger) error {
	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	var m *migrate.Migrate
	if dir != "" {
		m, err = migrate.NewWithDatabaseInstance("file://"+dir, "mysql", driver)
	} else {
		src, srcErr := iofs.New(migrationFiles, "migrations")
		if srcErr != nil {
			return fmt.Errorf("migration source: %w", srcErr)
		}
		m, err = migrate.NewWithInstance("iofs", src, "mysql", driver)
	}
	if err != nil {
		return fmt.Errorf("migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("mysql migrations applied")
	return nil
}

// Pinger reports MySQL reachability for readiness probes.
type Pinger struct {
	db *sql.DB
}

func NewPinger(db *sql.DB) *Pinger { return &Pinger{db: db} }

func (p *Pinger) Name() string { return "mysql" }

func (p *Pinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }
