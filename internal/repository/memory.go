package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jobportal/jobportal-go/internal/model"
)

// MemoryUserRepository keeps users in process memory. It backs
// STORE_DRIVER=memory and the HTTP tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]model.User),
		byEmail: make(map[string]string),
	}
}

// Create inserts a new user and sets the generated ID and timestamps on it.
func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return ErrDuplicateEmail
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

// GetByEmail retrieves a user by email address.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

// GetByID retrieves a user by ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// Delete removes a user. No API route deletes accounts; tests use it to
// simulate an account removed after a token was issued.
func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}

// Len returns the number of stored users.
func (r *MemoryUserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// MemoryJobRepository keeps jobs in process memory.
type MemoryJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]model.Job
	seq  int64
}

// NewMemoryJobRepository creates an empty MemoryJobRepository.
func NewMemoryJobRepository() *MemoryJobRepository {
	return &MemoryJobRepository{jobs: make(map[string]model.Job)}
}

// Create inserts a new job and sets the generated ID and timestamps on it.
func (r *MemoryJobRepository) Create(_ context.Context, job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.tick()
	job.ID = uuid.NewString()
	job.CreatedAt = now
	job.UpdatedAt = now
	r.jobs[job.ID] = *job
	return nil
}

// GetByID retrieves a job by ID.
func (r *MemoryJobRepository) GetByID(_ context.Context, id string) (*model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &j, nil
}

// List returns every job, newest first.
func (r *MemoryJobRepository) List(_ context.Context) ([]model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]model.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(a, b int) bool { return jobs[a].CreatedAt.After(jobs[b].CreatedAt) })
	return jobs, nil
}

// Update replaces a job's fields. The owner and creation time are kept.
func (r *MemoryJobRepository) Update(_ context.Context, job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.jobs[job.ID]
	if !ok {
		return ErrJobNotFound
	}

	job.UserID = old.UserID
	job.CreatedAt = old.CreatedAt
	job.UpdatedAt = time.Now().UTC()
	r.jobs[job.ID] = *job
	return nil
}

// Delete removes a job by ID.
func (r *MemoryJobRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

// tick returns a creation time strictly after the previous one so listings
// sort deterministically. r.mu must be held.
func (r *MemoryJobRepository) tick() time.Time {
	r.seq++
	return time.Now().UTC().Add(time.Duration(r.seq) * time.Microsecond)
}

// MemoryApplicationRepository keeps applications in process memory.
type MemoryApplicationRepository struct {
	mu   sync.RWMutex
	apps map[string]model.Application
	seq  int64
}

// NewMemoryApplicationRepository creates an empty MemoryApplicationRepository.
func NewMemoryApplicationRepository() *MemoryApplicationRepository {
	return &MemoryApplicationRepository{apps: make(map[string]model.Application)}
}

// Create inserts a new application and sets the generated ID and timestamps on it.
func (r *MemoryApplicationRepository) Create(_ context.Context, app *model.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	now := time.Now().UTC().Add(time.Duration(r.seq) * time.Microsecond)
	app.ID = uuid.NewString()
	app.CreatedAt = now
	app.UpdatedAt = now
	r.apps[app.ID] = *app
	return nil
}

// GetByID retrieves an application by ID.
func (r *MemoryApplicationRepository) GetByID(_ context.Context, id string) (*model.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.apps[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	return &a, nil
}

// ListByUser returns the applications made by a user, newest first.
func (r *MemoryApplicationRepository) ListByUser(_ context.Context, userID string) ([]model.Application, error) {
	return r.filter(func(a *model.Application) bool { return a.UserID == userID }), nil
}

// ListByJob returns the applications made to a job, newest first.
func (r *MemoryApplicationRepository) ListByJob(_ context.Context, jobID string) ([]model.Application, error) {
	return r.filter(func(a *model.Application) bool { return a.JobID == jobID }), nil
}

// UpdateStatus sets the status of an application.
func (r *MemoryApplicationRepository) UpdateStatus(_ context.Context, id string, status model.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.apps[id]
	if !ok {
		return ErrApplicationNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	r.apps[id] = a
	return nil
}

// Delete removes an application by ID.
func (r *MemoryApplicationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.apps[id]; !ok {
		return ErrApplicationNotFound
	}
	delete(r.apps, id)
	return nil
}

func (r *MemoryApplicationRepository) filter(keep func(*model.Application) bool) []model.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.Application{}
	for _, a := range r.apps {
		if keep(&a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out
}
