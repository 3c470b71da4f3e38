package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/jobportal/jobportal-go/internal/authz"
	"github.com/jobportal/jobportal-go/internal/middleware"
	"github.com/jobportal/jobportal-go/internal/model"
	"github.com/jobportal/jobportal-go/internal/service"
)

const (
	maxMultipartBody = 6 << 20 // 6MB
	multipartMemory  = 1 << 20
)

// ApplicationHandler handles HTTP requests for job applications.
type ApplicationHandler struct {
	service *service.ApplicationService
	logger  *slog.Logger
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(svc *service.ApplicationService, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{service: svc, logger: logger}
}

// LoadForApplicant loads an application that only its applicant may act on.
func (h *ApplicationHandler) LoadForApplicant(ctx context.Context, id string) (*model.Application, []authz.Resource, error) {
	app, err := h.service.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return app, []authz.Resource{app}, nil
}

// LoadForJobOwner loads an application that only the owner of its job may
// act on.
func (h *ApplicationHandler) LoadForJobOwner(ctx context.Context, id string) (*model.Application, []authz.Resource, error) {
	app, err := h.service.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	job, err := h.service.JobOf(ctx, app)
	if err != nil {
		return nil, nil, err
	}
	return app, []authz.Resource{job}, nil
}

// LoadForReader loads an application readable by its applicant and by the
// owner of its job.
func (h *ApplicationHandler) LoadForReader(ctx context.Context, id string) (*model.Application, []authz.Resource, error) {
	app, err := h.service.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	job, err := h.service.JobOf(ctx, app)
	if err != nil {
		return nil, nil, err
	}
	return app, []authz.Resource{app, job}, nil
}

// HandleSubmit handles POST /api/applications multipart requests. The resume
// file is optional.
func (h *ApplicationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, err := applicationRequestFromForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	resume, err := resumeFromForm(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	app, err := h.service.Submit(r.Context(), user, req, resume)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.ApplicationCreatedResponse{
		Message:     "Application submitted successfully!",
		Application: app,
	})
}

// HandleListMine handles GET /api/applications/my requests.
func (h *ApplicationHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	apps, err := h.service.ListMine(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// HandleUpdateStatus handles PATCH /api/applications/{id}/status requests.
func (h *ApplicationHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, app, ok := loadedApplication(w, r)
	if !ok {
		return
	}

	var req model.StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.UpdateStatus(r.Context(), user, app, req.Status)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleWithdraw handles DELETE /api/applications/{id} requests.
func (h *ApplicationHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	user, app, ok := loadedApplication(w, r)
	if !ok {
		return
	}

	if err := h.service.Withdraw(r.Context(), user, app); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Application withdrawn successfully"})
}

// HandleResume handles GET /api/applications/{id}/resume requests.
func (h *ApplicationHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	user, app, ok := loadedApplication(w, r)
	if !ok {
		return
	}

	resume, err := h.service.Resume(r.Context(), user, app)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", resume.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(resume.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": resume.Filename}))
	w.WriteHeader(http.StatusOK)
	w.Write(resume.Data)
}

func loadedApplication(w http.ResponseWriter, r *http.Request) (*model.User, *model.Application, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return nil, nil, false
	}

	app, ok := middleware.ResourceFromContext[*model.Application](r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return nil, nil, false
	}
	return user, app, true
}

func applicationRequestFromForm(r *http.Request) (model.ApplicationRequest, error) {
	req := model.ApplicationRequest{
		JobID:            r.FormValue("jobId"),
		Name:             r.FormValue("name"),
		Email:            r.FormValue("email"),
		Location:         r.FormValue("location"),
		CollegeName:      r.FormValue("collegeName"),
		SelectedLanguage: r.FormValue("selectedLanguage"),
	}

	numbers := []struct {
		field string
		dst   *float64
	}{
		{"tenthPercentage", &req.TenthPercentage},
		{"degreePercentage", &req.DegreePercentage},
		{"communication", &req.Communication},
	}
	for _, n := range numbers {
		raw := strings.TrimSpace(r.FormValue(n.field))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.ApplicationRequest{}, fmt.Errorf("%s must be a number", n.field)
		}
		*n.dst = v
	}

	return req, nil
}

// resumeFromForm reads the optional "resume" file part. A missing part is
// not an error.
func resumeFromForm(r *http.Request) (*model.Resume, error) {
	file, header, err := r.FormFile("resume")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("read resume part: %w", err)
	}
	defer file.Close()

	if header.Size > service.MaxResumeSize {
		return nil, service.ErrResumeTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, service.MaxResumeSize+1))
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	return &model.Resume{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
