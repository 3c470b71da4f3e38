package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobportal/jobportal-go/internal/model"
)

const jobColumns = `id, user_id, title, company, description, last_date, drive_type, created_at, updated_at`

// JobRepository handles job persistence in MySQL.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job and sets the generated ID and timestamps on it.
func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	query := `INSERT INTO jobs (` + jobColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		id, job.UserID, job.Title, job.Company, job.Description, job.LastDate, string(job.DriveType), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	job.ID = id
	job.CreatedAt = now
	job.UpdatedAt = now
	return nil
}

// GetByID retrieves a job by its ID.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*model.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return job, nil
}

// List returns all jobs, newest first.
func (r *JobRepository) List(ctx context.Context) ([]model.Job, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Update writes the mutable fields of a job. The owner is never written.
func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	query := `UPDATE jobs SET title = ?, company = ?, description = ?, last_date = ?, drive_type = ?, updated_at = ? WHERE id = ?`

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		job.Title, job.Company, job.Description, job.LastDate, string(job.DriveType), now, job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if err := requireAffected(res, ErrJobNotFound); err != nil {
		return err
	}

	job.UpdatedAt = now
	return nil
}

// Delete removes a job.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return requireAffected(res, ErrJobNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*model.Job, error) {
	job := &model.Job{}
	var drive string
	err := s.Scan(
		&job.ID, &job.UserID, &job.Title, &job.Company, &job.Description,
		&job.LastDate, &drive, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.DriveType = model.DriveType(drive)
	return job, nil
}

// requireAffected maps a write that matched no rows to notFound. NewDB turns
// on clientFoundRows, so an UPDATE that changes nothing still counts its row.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
