package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jobportal/jobportal-go/internal/authz"
	"github.com/jobportal/jobportal-go/internal/model"
	"github.com/jobportal/jobportal-go/internal/repository"
	"github.com/jobportal/jobportal-go/internal/storage"
)

// MaxResumeSize is the largest accepted resume upload.
const MaxResumeSize = 5 << 20

var resumeTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// ApplicationService handles job applications and their resume files.
type ApplicationService struct {
	apps   ApplicationStore
	jobs   JobStore
	files  FileStore
	logger *slog.Logger
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(apps ApplicationStore, jobs JobStore, files FileStore, logger *slog.Logger) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, files: files, logger: logger}
}

// Submit records an application by actor to an existing job. resume is
// optional.
func (s *ApplicationService) Submit(ctx context.Context, actor *model.User, req model.ApplicationRequest, resume *model.Resume) (model.ApplicationResponse, error) {
	if actor == nil {
		return model.ApplicationResponse{}, ErrUnauthenticated
	}

	jobID := strings.TrimSpace(req.JobID)
	if jobID == "" {
		return model.ApplicationResponse{}, ErrJobIDRequired
	}
	if !validPercentage(req.TenthPercentage) || !validPercentage(req.DegreePercentage) {
		return model.ApplicationResponse{}, ErrInvalidPercentage
	}
	if resume != nil {
		if err := validateResume(resume); err != nil {
			return model.ApplicationResponse{}, err
		}
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return model.ApplicationResponse{}, ErrJobNotFound
		}
		return model.ApplicationResponse{}, fmt.Errorf("get job: %w", err)
	}

	app := &model.Application{
		JobID:            job.ID,
		UserID:           actor.ID,
		Name:             strings.TrimSpace(req.Name),
		Email:            strings.TrimSpace(req.Email),
		Location:         strings.TrimSpace(req.Location),
		CollegeName:      strings.TrimSpace(req.CollegeName),
		TenthPercentage:  req.TenthPercentage,
		DegreePercentage: req.DegreePercentage,
		Programming:      model.ProgrammingFor(req.SelectedLanguage),
		Communication:    req.Communication,
		Status:           model.StatusPending,
	}

	if resume != nil {
		key := resumeKey(actor.ID, resume)
		if err := s.files.Upload(ctx, key, resume.Data, resume.ContentType); err != nil {
			return model.ApplicationResponse{}, fmt.Errorf("upload resume: %w", err)
		}
		app.ResumeKey = key
	}

	if err := s.apps.Create(ctx, app); err != nil {
		if app.ResumeKey != "" {
			s.removeResume(ctx, app.ResumeKey)
		}
		return model.ApplicationResponse{}, fmt.Errorf("create application: %w", err)
	}

	return model.NewApplicationResponse(app, job), nil
}

// ListMine returns actor's applications, newest first, with job summaries.
func (s *ApplicationService) ListMine(ctx context.Context, actor *model.User) ([]model.ApplicationResponse, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	apps, err := s.apps.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	jobs := make(map[string]*model.Job)
	resp := make([]model.ApplicationResponse, 0, len(apps))
	for i := range apps {
		job, err := s.job(ctx, jobs, apps[i].JobID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, model.NewApplicationResponse(&apps[i], job))
	}
	return resp, nil
}

// ListForJob returns the applications made to job. Only the job owner may
// see them.
func (s *ApplicationService) ListForJob(ctx context.Context, actor *model.User, job *model.Job) ([]model.ApplicationResponse, error) {
	if !authz.CanMutate(actor, job) {
		return nil, ErrForbidden
	}

	apps, err := s.apps.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	resp := make([]model.ApplicationResponse, 0, len(apps))
	for i := range apps {
		resp = append(resp, model.NewApplicationResponse(&apps[i], job))
	}
	return resp, nil
}

// Load fetches the raw application for ownership checks.
func (s *ApplicationService) Load(ctx context.Context, id string) (*model.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

// JobOf returns the job an application was made to, or nil if it was deleted.
func (s *ApplicationService) JobOf(ctx context.Context, app *model.Application) (*model.Job, error) {
	return s.job(ctx, nil, app.JobID)
}

// UpdateStatus lets the owner of the job change an application's status.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor *model.User, app *model.Application, status model.ApplicationStatus) (model.ApplicationResponse, error) {
	if !status.Valid() {
		return model.ApplicationResponse{}, ErrInvalidStatus
	}

	job, err := s.JobOf(ctx, app)
	if err != nil {
		return model.ApplicationResponse{}, err
	}
	if !authz.CanMutate(actor, job) {
		return model.ApplicationResponse{}, ErrForbidden
	}

	if err := s.apps.UpdateStatus(ctx, app.ID, status); err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return model.ApplicationResponse{}, ErrApplicationNotFound
		}
		return model.ApplicationResponse{}, fmt.Errorf("update application status: %w", err)
	}

	updated := *app
	updated.Status = status
	return model.NewApplicationResponse(&updated, job), nil
}

// Withdraw deletes an application and its resume. Only the applicant may
// withdraw.
func (s *ApplicationService) Withdraw(ctx context.Context, actor *model.User, app *model.Application) error {
	if !authz.CanMutate(actor, app) {
		return ErrForbidden
	}

	if err := s.apps.Delete(ctx, app.ID); err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("delete application: %w", err)
	}

	if app.ResumeKey != "" {
		s.removeResume(ctx, app.ResumeKey)
	}
	return nil
}

// Resume returns the resume of an application to the applicant or the job
// owner.
func (s *ApplicationService) Resume(ctx context.Context, actor *model.User, app *model.Application) (*model.Resume, error) {
	job, err := s.JobOf(ctx, app)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(actor, app, job) {
		return nil, ErrForbidden
	}
	if app.ResumeKey == "" {
		return nil, ErrResumeNotFound
	}

	data, contentType, err := s.files.Download(ctx, app.ResumeKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("download resume: %w", err)
	}

	return &model.Resume{
		Filename:    filepath.Base(app.ResumeKey),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (s *ApplicationService) job(ctx context.Context, cache map[string]*model.Job, id string) (*model.Job, error) {
	if j, ok := cache[id]; ok {
		return j, nil
	}

	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrJobNotFound) {
			return nil, fmt.Errorf("get job: %w", err)
		}
		j = nil
	}
	if cache != nil {
		cache[id] = j
	}
	return j, nil
}

func (s *ApplicationService) removeResume(ctx context.Context, key string) {
	if err := s.files.Remove(ctx, key); err != nil {
		s.logger.Warn("remove resume", "key", key, "error", err)
	}
}

func validateResume(r *model.Resume) error {
	if len(r.Data) == 0 {
		return ErrResumeEmpty
	}
	if len(r.Data) > MaxResumeSize {
		return ErrResumeTooLarge
	}
	if _, ok := resumeTypes[r.ContentType]; !ok {
		return ErrResumeType
	}
	return nil
}

// resumeKey names the object by applicant and a random id; the extension
// follows the content type, never the client's filename.
func resumeKey(userID string, r *model.Resume) string {
	return "resumes/" + userID + "/" + uuid.NewString() + resumeTypes[r.ContentType]
}

func validPercentage(v float64) bool {
	return v >= 0 && v <= 100
}
