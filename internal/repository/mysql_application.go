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

const applicationColumns = `id, job_id, user_id, name, email, location, college_name,
	tenth_percentage, degree_percentage, prog_java, prog_python, prog_mern, prog_testing,
	communication, resume_key, status, created_at, updated_at`

// ApplicationRepository handles application persistence in MySQL.
type ApplicationRepository struct {
	db *sql.DB
}

// NewApplicationRepository creates a new ApplicationRepository.
func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new application and sets the generated ID and timestamps on it.
func (r *ApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	query := `INSERT INTO applications (` + applicationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		id, app.JobID, app.UserID, app.Name, app.Email, app.Location, app.CollegeName,
		app.TenthPercentage, app.DegreePercentage,
		app.Programming.Java, app.Programming.Python, app.Programming.MERN, app.Programming.Testing,
		app.Communication, app.ResumeKey, string(app.Status), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	app.ID = id
	app.CreatedAt = now
	app.UpdatedAt = now
	return nil
}

// GetByID retrieves an application by its ID.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*model.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

// ListByUser returns the applications submitted by a user, newest first.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]model.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

// ListByJob returns the applications made to a job, newest first.
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID string) ([]model.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = ? ORDER BY created_at DESC`, jobID)
}

// UpdateStatus sets the review status of an application.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return requireAffected(res, ErrApplicationNotFound)
}

// Delete removes an application.
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return requireAffected(res, ErrApplicationNotFound)
}

func (r *ApplicationRepository) list(ctx context.Context, query string, arg any) ([]model.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps := []model.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func scanApplication(s scanner) (*model.Application, error) {
	app := &model.Application{}
	var status string
	err := s.Scan(
		&app.ID, &app.JobID, &app.UserID, &app.Name, &app.Email, &app.Location, &app.CollegeName,
		&app.TenthPercentage, &app.DegreePercentage,
		&app.Programming.Java, &app.Programming.Python, &app.Programming.MERN, &app.Programming.Testing,
		&app.Communication, &app.ResumeKey, &status, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	app.Status = model.ApplicationStatus(status)
	return app, nil
}
