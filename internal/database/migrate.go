package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"quizia/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationsTable = "SCHEMA_MIGRATIONS"

// Oracle DDL is not transactional, so a file that failed partway leaves its
// earlier statements in place without a SCHEMA_MIGRATIONS row. On the rerun
// these errors mean the statement already took effect and are skipped.
var alreadyAppliedCodes = []string{
	"ORA-00955", // name is already used by an existing object
	"ORA-01408", // such column list already indexed
	"ORA-01430", // column being added already exists in table
	"ORA-02260", // table can have only one primary key
	"ORA-02275", // such a referential constraint already exists
}

func alreadyApplied(err error) bool {
	msg := err.Error()
	for _, code := range alreadyAppliedCodes {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

// EmbeddedMigrations returns the schema migrations compiled into the binary.
func EmbeddedMigrations() (source.Driver, error) {
	return iofs.New(migrationFS, "migrations")
}

// RunMigrations applies every embedded up migration not yet recorded in
// SCHEMA_MIGRATIONS and returns how many were applied.
func RunMigrations(ctx context.Context, db *sqlx.DB) (int, error) {
	src, err := EmbeddedMigrations()
	if err != nil {
		return 0, fmt.Errorf("could not open embedded migrations: %w", err)
	}
	defer src.Close()
	return Migrate(ctx, db, src)
}

// Migrate walks src in version order. golang-migrate has no Oracle database
// driver, so versions are tracked here and each file is split into single
// statements for go-ora.
func Migrate(ctx context.Context, db *sqlx.DB, src source.Driver) (int, error) {
	l := logger.Get()

	if err := ensureMigrationsTable(ctx, db); err != nil {
		return 0, err
	}

	var done []uint
	if err := db.SelectContext(ctx, &done, "SELECT VERSION FROM "+migrationsTable); err != nil {
		return 0, fmt.Errorf("could not read applied migrations: %w", err)
	}
	appliedVersions := make(map[uint]bool, len(done))
	for _, v := range done {
		appliedVersions[v] = true
	}

	applied := 0
	version, err := src.First()
	for err == nil {
		if !appliedVersions[version] {
			ran, err := applyVersion(ctx, db, src, version)
			if err != nil {
				return applied, err
			}
			if ran {
				applied++
			}
		}
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return applied, fmt.Errorf("could not list migrations: %w", err)
	}

	l.Info("Migrations completed successfully", zap.Int("applied", applied))
	return applied, nil
}

func ensureMigrationsTable(ctx context.Context, db *sqlx.DB) error {
	var count int
	err := db.GetContext(ctx, &count,
		db.Rebind("SELECT COUNT(*) FROM USER_TABLES WHERE TABLE_NAME = ?"), migrationsTable)
	if err != nil {
		return fmt.Errorf("could not check migrations table: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err = db.ExecContext(ctx, "CREATE TABLE "+migrationsTable+" (VERSION NUMBER(19) PRIMARY KEY, APPLIED_AT TIMESTAMP NOT NULL)")
	if err != nil {
		return fmt.Errorf("could not create migrations table: %w", err)
	}
	return nil
}

// applyVersion reports false for a version that has no up file.
func applyVersion(ctx context.Context, db *sqlx.DB, src source.Driver, version uint) (bool, error) {
	r, identifier, err := src.ReadUp(version)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not read migration %d: %w", version, err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return false, fmt.Errorf("could not read migration %d: %w", version, err)
	}

	for _, stmt := range SplitStatements(string(body)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if alreadyApplied(err) {
				logger.Get().Warn("Skipping migration statement that already took effect",
					zap.Uint("version", version), zap.String("name", identifier), zap.Error(err))
				continue
			}
			return false, fmt.Errorf("could not execute migration %d_%s: %w", version, identifier, err)
		}
	}

	_, err = db.ExecContext(ctx,
		db.Rebind("INSERT INTO "+migrationsTable+" (VERSION, APPLIED_AT) VALUES (?, ?)"),
		version, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("could not record migration %d: %w", version, err)
	}

	logger.Get().Info("Executed migration", zap.Uint("version", version), zap.String("name", identifier))
	return true, nil
}

// SplitStatements breaks a migration file on statement-terminating
// semicolons. Oracle rejects a trailing ";" on a single statement.
func SplitStatements(body string) []string {
	var stmts []string
	for _, part := range strings.Split(body, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
