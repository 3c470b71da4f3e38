package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginBodyVariant(t *testing.T) {
	tests := []struct {
		name string
		body LoginBody
		want LoginRequest
	}{
		{
			name: "password login",
			body: LoginBody{Email: "ann@x.com", Password: "secret1"},
			want: PasswordLogin{Email: "ann@x.com", Password: "secret1"},
		},
		{
			name: "federated login",
			body: LoginBody{Name: "Ann", Email: "ann@x.com", Photo: "https://p/a.png", IDToken: "tok"},
			want: FederatedLogin{Name: "Ann", Email: "ann@x.com", Photo: "https://p/a.png", IDToken: "tok"},
		},
		{
			name: "password wins over name",
			body: LoginBody{Name: "Ann", Email: "ann@x.com", Password: "secret1"},
			want: PasswordLogin{Email: "ann@x.com", Password: "secret1"},
		},
		{
			name: "email only is a password login",
			body: LoginBody{Email: "ann@x.com"},
			want: PasswordLogin{Email: "ann@x.com"},
		},
		{
			name: "name without email is a password login",
			body: LoginBody{Name: "Ann"},
			want: PasswordLogin{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.body.LoginRequest())
		})
	}
}

func TestProgrammingFor(t *testing.T) {
	assert.Equal(t, Programming{Java: 5}, ProgrammingFor("Java"))
	assert.Equal(t, Programming{Python: 5}, ProgrammingFor("Python"))
	assert.Equal(t, Programming{MERN: 5}, ProgrammingFor("MERN"))
	assert.Equal(t, Programming{Testing: 5}, ProgrammingFor("Software Testing"))
	assert.Equal(t, Programming{}, ProgrammingFor("Cobol"))
}

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-01"`), &d))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), d.Time)

	require.NoError(t, json.Unmarshal([]byte(`"2026-03-01T10:30:00Z"`), &d))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), d.Time)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-03-01"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &d))
}

func TestValidEnums(t *testing.T) {
	assert.True(t, DriveWalkIn.Valid())
	assert.True(t, DriveFaceToFace.Valid())
	assert.False(t, DriveType("Remote").Valid())

	assert.True(t, StatusShortlisted.Valid())
	assert.False(t, ApplicationStatus("Hired").Valid())
}

func TestResponsesOmitCredentials(t *testing.T) {
	u := &User{ID: "u1", Name: "Ann", Email: "ann@x.com", PasswordHash: "$argon2id$..."}

	out, err := json.Marshal(NewUserResponse(u))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "argon2id")
	assert.NotContains(t, string(out), "photo")
}

func TestNewApplicationResponseResumeLink(t *testing.T) {
	a := &Application{ID: "a1", UserID: "u1", ResumeKey: "resumes/u1/x.pdf"}
	job := &Job{ID: "j1", Title: "Dev", Company: "Acme"}

	resp := NewApplicationResponse(a, job)
	assert.Equal(t, "/api/applications/a1/resume", resp.Resume)
	require.NotNil(t, resp.Job)
	assert.Equal(t, "Dev", resp.Job.Title)

	resp = NewApplicationResponse(&Application{ID: "a2"}, nil)
	assert.Empty(t, resp.Resume)
	assert.Nil(t, resp.Job)
}
