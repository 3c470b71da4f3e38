package model

import "time"

// User represents a user in the credential store. PasswordHash is empty for
// accounts created through a federated login.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Photo        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the user can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// OwnerID makes a user its own resource for ownership checks.
func (u *User) OwnerID() string {
	return u.ID
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// NewUserResponse strips credentials from a user.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Photo:     u.Photo,
		CreatedAt: u.CreatedAt,
	}
}

// UserSummary is the owner/applicant view embedded in other resources.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
