// Package federated turns a federated login assertion into an identity the
// server can trust.
package federated

import (
	"context"
	"errors"

	"github.com/jobportal/jobportal-go/internal/model"
)

var (
	ErrMissingToken     = errors.New("id token is required")
	ErrInvalidToken     = errors.New("invalid id token")
	ErrEmailNotVerified = errors.New("email not verified by provider")
	ErrEmailMismatch    = errors.New("email does not match id token")
)

// Identity is a verified external identity.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Photo   string
}

// Verifier checks a federated login and returns the identity it proves.
type Verifier interface {
	Verify(ctx context.Context, login model.FederatedLogin) (Identity, error)
}
