package datastores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/oaiiae/huma-contacts/datastores/migrations"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var ErrUnknownDriver = errors.New("store: unknown database driver")

type Options struct {
	DatabaseDriver          string        `doc:"database driver: sqlite, postgres or memory"  default:"sqlite"`
	DatabaseURL             string        `doc:"database file or connection URL"              default:"contacts.db"`
	DatabaseConnectRetries  int           `doc:"attempts to reach the database before giving up" default:"5"`
	DatabaseConnectInterval time.Duration `doc:"pause between database connection attempts"  default:"2s"`
	DatabaseMigrate         bool          `doc:"apply pending migrations at startup"         default:"true"`
}

// Database is an open relational database with its ORM handle.
type Database struct {
	*gorm.DB

	sql     *sql.DB
	dialect string
	logger  *slog.Logger
}

// Open connects to the database described by options and waits until it answers.
func Open(ctx context.Context, options *Options, logger *slog.Logger) (*Database, error) {
	var (
		dialector gorm.Dialector
		dialect   string
		conn      *sql.DB
	)
	switch strings.ToLower(options.DatabaseDriver) {
	case DriverSqlite:
		dialector, dialect = sqlite.Open(options.DatabaseURL), "sqlite3"
	case DriverPostgres:
		config, err := pgx.ParseConfig(options.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse database url: %w", err)
		}
		conn, err = sql.Open("pgx", stdlib.RegisterConnConfig(config))
		if err != nil {
			return nil, err
		}
		dialector, dialect = postgres.New(postgres.Config{Conn: conn}), "postgres"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, options.DatabaseDriver)
	}

	// The connection is checked by the retry loop below.
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               newGormLogger(logger.WithGroup("gorm")),
		DisableAutomaticPing: true,
	})
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, err
	}

	if dialect == "sqlite3" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetConnMaxLifetime(3 * time.Minute) //nolint: mnd // arbitrary
		sqlDB.SetMaxIdleConns(2)                  //nolint: mnd // arbitrary
		sqlDB.SetMaxOpenConns(10)                 //nolint: mnd // arbitrary
	}

	d := &Database{DB: db, sql: sqlDB, dialect: dialect, logger: logger}

	backoff := retry.WithMaxRetries(uint64(max(options.DatabaseConnectRetries, 0)), //nolint: gosec // not negative
		retry.NewConstant(options.DatabaseConnectInterval))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := d.Ping(ctx)
		if err != nil {
			logger.Warn("could not reach database", "err", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	logger.Info("connected to database", "driver", options.DatabaseDriver)
	return d, nil
}

func (d *Database) Ping(ctx context.Context) error { return d.sql.PingContext(ctx) }

func (d *Database) Close() error { return d.sql.Close() }

// Migrate applies the pending migrations of the database dialect.
func (d *Database) Migrate(ctx context.Context) error {
	if !d.logger.Enabled(ctx, slog.LevelDebug) {
		goose.SetLogger(goose.NopLogger())
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(d.dialect); err != nil {
		return err
	}

	dir := migrations.Dir(d.dialect)
	if err := goose.UpContext(ctx, d.sql, dir); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, d.sql)
	if err != nil {
		return err
	}
	d.logger.Info("database migrated", "version", version)
	return nil
}
