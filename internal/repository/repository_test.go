package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jobportal/jobportal-go/internal/model"
)

func TestNewUserRepository(t *testing.T) {
	repo := NewUserRepository(nil)
	if repo == nil {
		t.Fatal("expected non-nil UserRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrUserNotFound, "user not found"},
		{ErrDuplicateEmail, "email already exists"},
		{ErrJobNotFound, "job not found"},
		{ErrApplicationNotFound, "application not found"},
	}
	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("unexpected error message: %s, want %s", tt.err.Error(), tt.want)
		}
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "sentinel", err: ErrUserNotFound, want: false},
		{name: "message only", err: errors.New("Error 1062: Duplicate entry"), want: false},
		{name: "duplicate", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c'"}, want: true},
		{name: "wrapped duplicate", err: fmt.Errorf("exec: %w", &mysql.MySQLError{Number: 1062}), want: true},
		{name: "other mysql error", err: &mysql.MySQLError{Number: 1146}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateEntryError(tt.err); got != tt.want {
				t.Errorf("isDuplicateEntryError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNullString(t *testing.T) {
	if ns := nullString(""); ns.Valid {
		t.Error("nullString(\"\") should be NULL")
	}
	if ns := nullString("$argon2id$..."); !ns.Valid || ns.String != "$argon2id$..." {
		t.Errorf("nullString() = %+v", ns)
	}
}

func TestUserDocToModel(t *testing.T) {
	oid := primitive.NewObjectID()
	hash := "$argon2id$hash"
	now := time.Now().UTC()

	withPassword := userDoc{ID: oid, Name: "Ann", Email: "ann@x.io", Password: &hash, CreatedAt: now}
	u := withPassword.toModel()
	if u.ID != oid.Hex() || u.PasswordHash != hash || !u.HasPassword() {
		t.Errorf("toModel() = %+v", u)
	}

	federated := userDoc{ID: oid, Name: "Ann", Email: "ann@x.io", Photo: "https://img"}
	u = federated.toModel()
	if u.HasPassword() {
		t.Error("federated user should have no password")
	}
	if u.Photo != "https://img" {
		t.Errorf("Photo = %q", u.Photo)
	}
}

func TestApplicationDocToModel(t *testing.T) {
	doc := applicationDoc{
		ID:          primitive.NewObjectID(),
		Job:         primitive.NewObjectID(),
		User:        primitive.NewObjectID(),
		Programming: programmingDoc{Python: 5},
		Resume:      "resumes/u/r.pdf",
		Status:      "Pending",
	}

	app := doc.toModel()
	if app.JobID != doc.Job.Hex() || app.UserID != doc.User.Hex() {
		t.Errorf("toModel() ids = %q, %q", app.JobID, app.UserID)
	}
	if app.Programming != (model.Programming{Python: 5}) {
		t.Errorf("Programming = %+v", app.Programming)
	}
	if app.Status != model.StatusPending || app.ResumeKey != "resumes/u/r.pdf" {
		t.Errorf("toModel() = %+v", app)
	}
}

func TestJobDocMissingOwner(t *testing.T) {
	doc := jobDoc{ID: primitive.NewObjectID(), Title: "Go dev", DriveType: "Walk-in Drive"}
	job := doc.toModel()
	if job.UserID != "" {
		t.Errorf("UserID = %q, want empty", job.UserID)
	}
	if job.DriveType != model.DriveWalkIn {
		t.Errorf("DriveType = %q", job.DriveType)
	}
}
