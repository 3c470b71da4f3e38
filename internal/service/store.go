package service

import (
	"context"

	"github.com/jobportal/jobportal-go/internal/model"
)

// UserStore persists user accounts. Create fails with
// repository.ErrDuplicateEmail when the email is already taken.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// JobStore persists job postings.
type JobStore interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context) ([]model.Job, error)
	Update(ctx context.Context, job *model.Job) error
	Delete(ctx context.Context, id string) error
}

// ApplicationStore persists job applications.
type ApplicationStore interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id string) (*model.Application, error)
	ListByUser(ctx context.Context, userID string) ([]model.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]model.Application, error)
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) error
	Delete(ctx context.Context, id string) error
}

// FileStore keeps uploaded resume files.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}
