// Package client is a Go client for the job portal HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jobportal/jobportal-go/internal/model"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client calls the API and keeps the session in its SessionStore. Login and
// registration save the session; Logout clears it.
type Client struct {
	baseURL string
	http    *http.Client
	session SessionStore
}

// New creates a Client. A nil httpClient uses one with a 30s timeout.
func New(baseURL string, session SessionStore, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: session,
	}
}

// Session returns the stored session.
func (c *Client) Session() (Session, error) {
	return c.session.Load()
}

// Register creates an account and stores its session.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/register", req)
}

// Login authenticates with a password and stores the session.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/login", model.LoginBody{Email: email, Password: password})
}

// LoginFederated logs in with an identity asserted by an external provider.
// Name and Email must be set; IDToken carries the provider's proof.
func (c *Client) LoginFederated(ctx context.Context, login model.FederatedLogin) (*model.AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/login", model.LoginBody{
		Name:    login.Name,
		Email:   login.Email,
		Photo:   login.Photo,
		IDToken: login.IDToken,
	})
}

// Logout forgets the session. Tokens are stateless, so nothing is sent to
// the server.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Profile returns the logged-in user.
func (c *Client) Profile(ctx context.Context) (*model.UserResponse, error) {
	var user model.UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/profile", true, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Jobs lists every job posting.
func (c *Client) Jobs(ctx context.Context) ([]model.JobResponse, error) {
	var jobs []model.JobResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/jobs", false, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Job fetches a single job posting.
func (c *Client) Job(ctx context.Context, id string) (*model.JobResponse, error) {
	var job model.JobResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id), false, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob posts a job owned by the logged-in user.
func (c *Client) CreateJob(ctx context.Context, req model.JobRequest) (*model.JobResponse, error) {
	var job model.JobResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/jobs", true, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJob changes the non-nil fields of req on one of the user's jobs.
func (c *Client) UpdateJob(ctx context.Context, id string, req model.JobRequest) (*model.JobResponse, error) {
	var job model.JobResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/jobs/"+url.PathEscape(id), true, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteJob deletes one of the user's jobs.
func (c *Client) DeleteJob(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/jobs/"+url.PathEscape(id), true, nil, nil)
}

// JobApplications lists the applications made to one of the user's jobs.
func (c *Client) JobApplications(ctx context.Context, jobID string) ([]model.ApplicationResponse, error) {
	var apps []model.ApplicationResponse
	path := "/api/jobs/" + url.PathEscape(jobID) + "/applications"
	if err := c.doJSON(ctx, http.MethodGet, path, true, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Apply submits an application. resume may be nil.
func (c *Client) Apply(ctx context.Context, req model.ApplicationRequest, resume *model.Resume) (*model.ApplicationResponse, error) {
	body, contentType, err := applicationForm(req, resume)
	if err != nil {
		return nil, err
	}

	var resp model.ApplicationCreatedResponse
	if err := c.do(ctx, http.MethodPost, "/api/applications", true, body, contentType, &resp); err != nil {
		return nil, err
	}
	return &resp.Application, nil
}

// MyApplications lists the user's own applications.
func (c *Client) MyApplications(ctx context.Context) ([]model.ApplicationResponse, error) {
	var apps []model.ApplicationResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/applications/my", true, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateStatus changes the status of an application to one of the user's jobs.
func (c *Client) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.ApplicationResponse, error) {
	var app model.ApplicationResponse
	path := "/api/applications/" + url.PathEscape(id) + "/status"
	if err := c.doJSON(ctx, http.MethodPatch, path, true, model.StatusRequest{Status: status}, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Withdraw deletes one of the user's applications.
func (c *Client) Withdraw(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/applications/"+url.PathEscape(id), true, nil, nil)
}

// Resume downloads the resume attached to an application.
func (c *Client) Resume(ctx context.Context, id string) (*model.Resume, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/applications/"+url.PathEscape(id)+"/resume", true, nil, "")
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get resume: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}

	filename := id
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}

	return &model.Resume{
		Filename:    filename,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, path, false, body, &resp); err != nil {
		return nil, err
	}

	if err := c.session.Save(Session{Token: resp.Token, User: resp.User}); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, auth bool, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, auth, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, auth bool, body io.Reader, contentType string, out any) error {
	req, err := c.newRequest(ctx, method, path, auth, body, contentType)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, auth bool, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if auth {
		s, err := c.session.Load()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	return req, nil
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
		if body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}

func applicationForm(req model.ApplicationRequest, resume *model.Resume) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"jobId", req.JobID},
		{"name", req.Name},
		{"email", req.Email},
		{"location", req.Location},
		{"collegeName", req.CollegeName},
		{"tenthPercentage", formatFloat(req.TenthPercentage)},
		{"degreePercentage", formatFloat(req.DegreePercentage)},
		{"selectedLanguage", req.SelectedLanguage},
		{"communication", formatFloat(req.Communication)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if resume != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, resume.Filename))
		h.Set("Content-Type", resume.ContentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create resume part: %w", err)
		}
		if _, err := part.Write(resume.Data); err != nil {
			return nil, "", fmt.Errorf("write resume part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
