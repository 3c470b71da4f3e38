package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobportal/jobportal-go/internal/authz"
	"github.com/jobportal/jobportal-go/internal/middleware"
	"github.com/jobportal/jobportal-go/internal/model"
	"github.com/jobportal/jobportal-go/internal/service"
)

// JobHandler handles HTTP requests for job postings.
type JobHandler struct {
	jobs   *service.JobService
	apps   *service.ApplicationService
	logger *slog.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs *service.JobService, apps *service.ApplicationService, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, apps: apps, logger: logger}
}

// LoadOwned loads a job for RequireOwnership; only its owner may act on it.
func (h *JobHandler) LoadOwned(ctx context.Context, id string) (*model.Job, []authz.Resource, error) {
	job, err := h.jobs.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return job, []authz.Resource{job}, nil
}

// HandleList handles GET /api/jobs requests.
func (h *JobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, jobs)
}

// HandleGet handles GET /api/jobs/{id} requests.
func (h *JobHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// HandleCreate handles POST /api/jobs requests.
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.JobRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	job, err := h.jobs.Create(r.Context(), user, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// HandleUpdate handles PUT /api/jobs/{id} requests.
func (h *JobHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, job, ok := ownedJob(w, r)
	if !ok {
		return
	}

	var req model.JobRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.jobs.Update(r.Context(), user, job, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/jobs/{id} requests.
func (h *JobHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, job, ok := ownedJob(w, r)
	if !ok {
		return
	}

	if err := h.jobs.Delete(r.Context(), user, job); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Job deleted successfully"})
}

// HandleListApplications handles GET /api/jobs/{id}/applications requests.
func (h *JobHandler) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	user, job, ok := ownedJob(w, r)
	if !ok {
		return
	}

	apps, err := h.apps.ListForJob(r.Context(), user, job)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

func ownedJob(w http.ResponseWriter, r *http.Request) (*model.User, *model.Job, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return nil, nil, false
	}

	job, ok := middleware.ResourceFromContext[*model.Job](r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return nil, nil, false
	}
	return user, job, true
}
