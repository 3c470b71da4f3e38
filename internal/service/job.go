package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jobportal/jobportal-go/internal/authz"
	"github.com/jobportal/jobportal-go/internal/model"
	"github.com/jobportal/jobportal-go/internal/repository"
)

// JobService handles job postings. Mutations re-check ownership even when the
// router already did.
type JobService struct {
	jobs  JobStore
	users UserStore
}

// NewJobService creates a new JobService.
func NewJobService(jobs JobStore, users UserStore) *JobService {
	return &JobService{jobs: jobs, users: users}
}

// Create posts a job owned by actor.
func (s *JobService) Create(ctx context.Context, actor *model.User, req model.JobRequest) (model.JobResponse, error) {
	if actor == nil {
		return model.JobResponse{}, ErrUnauthenticated
	}

	job := &model.Job{UserID: actor.ID}
	if err := applyJobRequest(job, req, true); err != nil {
		return model.JobResponse{}, err
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return model.JobResponse{}, fmt.Errorf("create job: %w", err)
	}
	return model.NewJobResponse(job, actor), nil
}

// List returns every job, newest first, with owners populated.
func (s *JobService) List(ctx context.Context) ([]model.JobResponse, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	owners := make(map[string]*model.User)
	resp := make([]model.JobResponse, 0, len(jobs))
	for i := range jobs {
		owner, err := s.owner(ctx, owners, jobs[i].UserID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, model.NewJobResponse(&jobs[i], owner))
	}
	return resp, nil
}

// Get returns a single job with its owner populated.
func (s *JobService) Get(ctx context.Context, id string) (model.JobResponse, error) {
	job, err := s.Load(ctx, id)
	if err != nil {
		return model.JobResponse{}, err
	}

	owner, err := s.owner(ctx, nil, job.UserID)
	if err != nil {
		return model.JobResponse{}, err
	}
	return model.NewJobResponse(job, owner), nil
}

// Load fetches the raw job for ownership checks.
func (s *JobService) Load(ctx context.Context, id string) (*model.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// Update copies the provided fields of req onto job. The owner never changes.
func (s *JobService) Update(ctx context.Context, actor *model.User, job *model.Job, req model.JobRequest) (model.JobResponse, error) {
	if !authz.CanMutate(actor, job) {
		return model.JobResponse{}, ErrForbidden
	}

	updated := *job
	if err := applyJobRequest(&updated, req, false); err != nil {
		return model.JobResponse{}, err
	}

	if err := s.jobs.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return model.JobResponse{}, ErrJobNotFound
		}
		return model.JobResponse{}, fmt.Errorf("update job: %w", err)
	}
	return model.NewJobResponse(&updated, actor), nil
}

// Delete removes job. Applications made to it are kept.
func (s *JobService) Delete(ctx context.Context, actor *model.User, job *model.Job) error {
	if !authz.CanMutate(actor, job) {
		return ErrForbidden
	}

	if err := s.jobs.Delete(ctx, job.ID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return ErrJobNotFound
		}
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

// owner looks up a job owner, returning nil for accounts that no longer
// exist. cache may be nil.
func (s *JobService) owner(ctx context.Context, cache map[string]*model.User, id string) (*model.User, error) {
	if u, ok := cache[id]; ok {
		return u, nil
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("get job owner: %w", err)
		}
		u = nil
	}
	if cache != nil {
		cache[id] = u
	}
	return u, nil
}

// applyJobRequest copies req onto job. On create every field is required; on
// update only non-nil fields are applied, and they may not be blank.
func applyJobRequest(job *model.Job, req model.JobRequest, create bool) error {
	if v, ok, err := textField(req.Title, create, ErrTitleRequired); err != nil {
		return err
	} else if ok {
		job.Title = v
	}
	if v, ok, err := textField(req.Company, create, ErrCompanyRequired); err != nil {
		return err
	} else if ok {
		job.Company = v
	}
	if v, ok, err := textField(req.Description, create, ErrDescriptionRequired); err != nil {
		return err
	} else if ok {
		job.Description = v
	}

	if req.LastDate != nil && !req.LastDate.IsZero() {
		job.LastDate = req.LastDate.Time
	} else if create || req.LastDate != nil {
		return ErrLastDateRequired
	}

	switch {
	case req.DriveType != nil && *req.DriveType == "":
		return ErrDriveTypeRequired
	case req.DriveType != nil && !req.DriveType.Valid():
		return ErrInvalidDriveType
	case req.DriveType != nil:
		job.DriveType = *req.DriveType
	case create:
		return ErrDriveTypeRequired
	}

	return nil
}

func textField(v *string, required bool, missing error) (string, bool, error) {
	if v == nil {
		if required {
			return "", false, missing
		}
		return "", false, nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return "", false, missing
	}
	return s, true, nil
}
