package federated

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/jobportal/jobportal-go/internal/model"
)

type idTokenClaims struct {
	Email    string `json:"email"`
	Verified bool   `json:"email_verified"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
}

// OIDCVerifier verifies provider-signed ID tokens (Google by default). The
// token's email is authoritative.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the issuer's signing keys and builds a verifier
// accepting tokens minted for clientID.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	p, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("new oidc provider: %w", err)
	}
	return &OIDCVerifier{verifier: p.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// Verify checks the ID token and returns the identity it asserts.
func (v *OIDCVerifier) Verify(ctx context.Context, login model.FederatedLogin) (Identity, error) {
	if login.IDToken == "" {
		return Identity{}, ErrMissingToken
	}

	tok, err := v.verifier.Verify(ctx, login.IDToken)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims idTokenClaims
	if err := tok.Claims(&claims); err != nil {
		return Identity{}, fmt.Errorf("%w: read claims: %v", ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return Identity{}, fmt.Errorf("%w: no email claim", ErrInvalidToken)
	}
	if !claims.Verified {
		return Identity{}, ErrEmailNotVerified
	}
	if email := strings.TrimSpace(login.Email); email != "" && email != claims.Email {
		return Identity{}, ErrEmailMismatch
	}

	return Identity{
		Subject: tok.Subject,
		Email:   claims.Email,
		Name:    orDefault(claims.Name, login.Name),
		Photo:   orDefault(claims.Picture, login.Photo),
	}, nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
