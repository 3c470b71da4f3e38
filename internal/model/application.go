package model

import "time"

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "Pending"
	StatusShortlisted ApplicationStatus = "Shortlisted"
	StatusRejected    ApplicationStatus = "Rejected"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusShortlisted, StatusRejected:
		return true
	}
	return false
}

// Programming holds the per-track preference scores of an applicant.
type Programming struct {
	Java    int `json:"java"`
	Python  int `json:"python"`
	MERN    int `json:"mern"`
	Testing int `json:"testing"`
}

// ProgrammingFor scores the selected language 5 and every other track 0.
func ProgrammingFor(selected string) Programming {
	var p Programming
	switch selected {
	case "Java":
		p.Java = 5
	case "Python":
		p.Python = 5
	case "MERN":
		p.MERN = 5
	case "Software Testing":
		p.Testing = 5
	}
	return p
}

// Application is owned by the submitting user, not by the job owner.
type Application struct {
	ID               string
	JobID            string
	UserID           string
	Name             string
	Email            string
	Location         string
	CollegeName      string
	TenthPercentage  float64
	DegreePercentage float64
	Programming      Programming
	Communication    float64
	ResumeKey        string
	Status           ApplicationStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OwnerID returns the applicant's id.
func (a *Application) OwnerID() string {
	return a.UserID
}

// ApplicationRequest holds the form fields of an application submission.
type ApplicationRequest struct {
	JobID            string
	Name             string
	Email            string
	Location         string
	CollegeName      string
	TenthPercentage  float64
	DegreePercentage float64
	SelectedLanguage string
	Communication    float64
}

// Resume is an uploaded resume file.
type Resume struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StatusRequest is the body of PATCH /api/applications/{id}/status.
type StatusRequest struct {
	Status ApplicationStatus `json:"status"`
}

// ApplicationResponse is the API view of an application.
type ApplicationResponse struct {
	ID               string            `json:"id"`
	Job              *JobSummary       `json:"job"`
	User             string            `json:"user"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Location         string            `json:"location"`
	CollegeName      string            `json:"collegeName"`
	TenthPercentage  float64           `json:"tenthPercentage"`
	DegreePercentage float64           `json:"degreePercentage"`
	Programming      Programming       `json:"programming"`
	Communication    float64           `json:"communication"`
	Resume           string            `json:"resume,omitempty"`
	Status           ApplicationStatus `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// NewApplicationResponse builds the API view; job may be nil when the job has
// been deleted since the application was made.
func NewApplicationResponse(a *Application, job *Job) ApplicationResponse {
	resp := ApplicationResponse{
		ID:               a.ID,
		User:             a.UserID,
		Name:             a.Name,
		Email:            a.Email,
		Location:         a.Location,
		CollegeName:      a.CollegeName,
		TenthPercentage:  a.TenthPercentage,
		DegreePercentage: a.DegreePercentage,
		Programming:      a.Programming,
		Communication:    a.Communication,
		Status:           a.Status,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	if a.ResumeKey != "" {
		resp.Resume = "/api/applications/" + a.ID + "/resume"
	}
	if job != nil {
		resp.Job = &JobSummary{ID: job.ID, Title: job.Title, Company: job.Company, LastDate: Date{job.LastDate}}
	}
	return resp
}

// ApplicationCreatedResponse is the body of a successful submission.
type ApplicationCreatedResponse struct {
	Message     string              `json:"message"`
	Application ApplicationResponse `json:"application"`
}
