package model

import "time"

// DriveType is how a job's recruitment drive is held.
type DriveType string

const (
	DriveWalkIn     DriveType = "Walk-in Drive"
	DriveFaceToFace DriveType = "Direct Face-to-Face"
)

// Valid reports whether d is a known drive type.
func (d DriveType) Valid() bool {
	return d == DriveWalkIn || d == DriveFaceToFace
}

// Job is a posting owned by the user who created it. UserID never changes
// after creation.
type Job struct {
	ID          string
	UserID      string
	Title       string
	Company     string
	Description string
	LastDate    time.Time
	DriveType   DriveType
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerID returns the id of the user who posted the job.
func (j *Job) OwnerID() string {
	return j.UserID
}

// JobRequest carries job fields for create and update. Nil fields are left
// untouched on update.
type JobRequest struct {
	Title       *string    `json:"title"`
	Company     *string    `json:"company"`
	Description *string    `json:"description"`
	LastDate    *Date      `json:"lastDate"`
	DriveType   *DriveType `json:"driveType"`
}

// JobResponse is the API view of a job with its owner populated.
type JobResponse struct {
	ID          string       `json:"id"`
	User        *UserSummary `json:"user"`
	Title       string       `json:"title"`
	Company     string       `json:"company"`
	Description string       `json:"description"`
	LastDate    Date         `json:"lastDate"`
	DriveType   DriveType    `json:"driveType"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// JobSummary is the job view embedded in application listings.
type JobSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	LastDate Date   `json:"lastDate"`
}

// NewJobResponse builds the API view; owner may be nil when the owning
// account no longer exists.
func NewJobResponse(j *Job, owner *User) JobResponse {
	resp := JobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Company:     j.Company,
		Description: j.Description,
		LastDate:    Date{j.LastDate},
		DriveType:   j.DriveType,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
	if owner != nil {
		resp.User = &UserSummary{ID: owner.ID, Name: owner.Name, Email: owner.Email}
	}
	return resp
}
