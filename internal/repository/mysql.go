package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the MySQL server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NULL,
		photo         TEXT         NOT NULL,
		created_at    DATETIME(6)  NOT NULL,
		updated_at    DATETIME(6)  NOT NULL,
		UNIQUE KEY uq_users_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id          CHAR(36)     NOT NULL PRIMARY KEY,
		user_id     CHAR(36)     NOT NULL,
		title       VARCHAR(255) NOT NULL,
		company     VARCHAR(255) NOT NULL,
		description TEXT         NOT NULL,
		last_date   DATE         NOT NULL,
		drive_type  VARCHAR(64)  NOT NULL,
		created_at  DATETIME(6)  NOT NULL,
		updated_at  DATETIME(6)  NOT NULL,
		KEY idx_jobs_created (created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id                CHAR(36)     NOT NULL PRIMARY KEY,
		job_id            CHAR(36)     NOT NULL,
		user_id           CHAR(36)     NOT NULL,
		name              VARCHAR(255) NOT NULL,
		email             VARCHAR(255) NOT NULL,
		location          VARCHAR(255) NOT NULL,
		college_name      VARCHAR(255) NOT NULL,
		tenth_percentage  DOUBLE       NOT NULL,
		degree_percentage DOUBLE       NOT NULL,
		prog_java         INT          NOT NULL,
		prog_python       INT          NOT NULL,
		prog_mern         INT          NOT NULL,
		prog_testing      INT          NOT NULL,
		communication     DOUBLE       NOT NULL,
		resume_key        VARCHAR(512) NOT NULL,
		status            VARCHAR(32)  NOT NULL,
		created_at        DATETIME(6)  NOT NULL,
		updated_at        DATETIME(6)  NOT NULL,
		KEY idx_applications_user (user_id, created_at),
		KEY idx_applications_job (job_id)
	)`,
}

// NewDB creates a new MySQL connection pool with the given DSN. parseTime is
// forced on so DATETIME columns scan into time.Time, and clientFoundRows so
// RowsAffected counts matched rows.
func NewDB(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}

	return db, nil
}

// Migrate creates the tables the MySQL repositories use if they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
