package service

import "errors"

var (
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrIDTokenRequired  = errors.New("id token is required")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 128 characters")

	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrTooManyAttempts    = errors.New("too many failed login attempts, try again later")

	ErrTitleRequired       = errors.New("title is required")
	ErrCompanyRequired     = errors.New("company is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrLastDateRequired    = errors.New("last date is required")
	ErrDriveTypeRequired   = errors.New("drive type is required")
	ErrInvalidDriveType    = errors.New("drive type must be \"Walk-in Drive\" or \"Direct Face-to-Face\"")
	ErrJobNotFound         = errors.New("job not found")

	ErrJobIDRequired       = errors.New("job ID is required")
	ErrInvalidPercentage   = errors.New("percentages must be between 0 and 100")
	ErrInvalidStatus       = errors.New("status must be Pending, Shortlisted or Rejected")
	ErrResumeTooLarge      = errors.New("resume must be at most 5MB")
	ErrResumeType          = errors.New("only PDF, DOC, or DOCX files are allowed")
	ErrResumeEmpty         = errors.New("resume file is empty")
	ErrResumeNotFound      = errors.New("resume not found")
	ErrApplicationNotFound = errors.New("application not found")
)

var validationErrors = []error{
	ErrNameRequired, ErrEmailRequired, ErrPasswordRequired, ErrIDTokenRequired,
	ErrInvalidEmail, ErrPasswordTooShort, ErrPasswordTooLong,
	ErrTitleRequired, ErrCompanyRequired, ErrDescriptionRequired, ErrLastDateRequired,
	ErrDriveTypeRequired, ErrInvalidDriveType,
	ErrJobIDRequired, ErrInvalidPercentage, ErrInvalidStatus,
	ErrResumeTooLarge, ErrResumeType, ErrResumeEmpty,
}

// IsValidationError reports whether err is caused by bad client input.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
