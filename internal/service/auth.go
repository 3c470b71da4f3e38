package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/jobportal/jobportal-go/internal/crypto"
	"github.com/jobportal/jobportal-go/internal/federated"
	"github.com/jobportal/jobportal-go/internal/model"
	"github.com/jobportal/jobportal-go/internal/repository"
	"github.com/jobportal/jobportal-go/internal/throttle"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 128
)

// AuthResult is the outcome of a successful registration or login. Created
// is set when a federated login provisioned a new account.
type AuthResult struct {
	User    *model.User
	Token   string
	Created bool
}

// AuthService handles registration, both login modes and token resolution.
type AuthService struct {
	users    UserStore
	tokens   *crypto.TokenManager
	verifier federated.Verifier
	limiter  throttle.Limiter
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, tokens *crypto.TokenManager, verifier federated.Verifier, limiter throttle.Limiter, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		limiter:  limiter,
		logger:   logger,
	}
}

// Register creates a password account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (AuthResult, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	switch {
	case name == "":
		return AuthResult{}, ErrNameRequired
	case email == "":
		return AuthResult{}, ErrEmailRequired
	case req.Password == "":
		return AuthResult{}, ErrPasswordRequired
	}
	if err := validateEmail(email); err != nil {
		return AuthResult{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return AuthResult{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user, false)
}

// Login dispatches on the login variant.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (AuthResult, error) {
	switch l := req.(type) {
	case model.PasswordLogin:
		return s.LoginPassword(ctx, l)
	case model.FederatedLogin:
		return s.ResolveOrRegisterFederated(ctx, l)
	default:
		return AuthResult{}, fmt.Errorf("unsupported login request %T", req)
	}
}

// LoginPassword verifies an email and password. Unknown emails, accounts
// without a password and wrong passwords all fail with ErrInvalidCredentials.
func (s *AuthService) LoginPassword(ctx context.Context, req model.PasswordLogin) (AuthResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return AuthResult{}, ErrEmailRequired
	}
	if req.Password == "" {
		return AuthResult{}, ErrPasswordRequired
	}

	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		s.logger.Warn("login throttle unavailable", "error", err)
		allowed = true
	}
	if !allowed {
		return AuthResult{}, ErrTooManyAttempts
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, fmt.Errorf("get user: %w", err)
		}
		crypto.DummyVerify(req.Password)
		return AuthResult{}, s.failLogin(ctx, email)
	}

	if !user.HasPassword() {
		crypto.DummyVerify(req.Password)
		return AuthResult{}, s.failLogin(ctx, email)
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return AuthResult{}, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return AuthResult{}, s.failLogin(ctx, email)
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn("reset login throttle", "error", err)
	}

	return s.issue(user, false)
}

// ResolveOrRegisterFederated logs in the account matching a verified federated
// identity, creating it without a password on first use.
func (s *AuthService) ResolveOrRegisterFederated(ctx context.Context, req model.FederatedLogin) (AuthResult, error) {
	id, err := s.verifier.Verify(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, federated.ErrMissingToken):
			return AuthResult{}, ErrIDTokenRequired
		case errors.Is(err, federated.ErrInvalidToken),
			errors.Is(err, federated.ErrEmailNotVerified),
			errors.Is(err, federated.ErrEmailMismatch):
			s.logger.Debug("federated login rejected", "error", err)
			return AuthResult{}, ErrInvalidCredentials
		default:
			return AuthResult{}, fmt.Errorf("verify federated identity: %w", err)
		}
	}

	if id.Email == "" {
		return AuthResult{}, ErrEmailRequired
	}
	if id.Name == "" {
		return AuthResult{}, ErrNameRequired
	}
	if err := validateEmail(id.Email); err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.GetByEmail(ctx, id.Email)
	if err == nil {
		return s.issue(user, false)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, fmt.Errorf("get user: %w", err)
	}

	user = &model.User{
		Name:  id.Name,
		Email: id.Email,
		Photo: id.Photo,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			return AuthResult{}, fmt.Errorf("create user: %w", err)
		}
		// A concurrent login created the account first.
		user, err = s.users.GetByEmail(ctx, id.Email)
		if err != nil {
			return AuthResult{}, fmt.Errorf("get user: %w", err)
		}
		return s.issue(user, false)
	}

	s.logger.Info("federated account created", "user_id", user.ID)
	return s.issue(user, true)
}

// Resolve turns a bearer token into the user it was issued to. Every token
// or lookup failure is reported as ErrUnauthenticated.
func (s *AuthService) Resolve(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		s.logger.Debug("token rejected", "error", err)
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User, created bool) (AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: user, Token: token, Created: created}, nil
}

func (s *AuthService) failLogin(ctx context.Context, email string) error {
	if err := s.limiter.Fail(ctx, email); err != nil {
		s.logger.Warn("record failed login", "error", err)
	}
	return ErrInvalidCredentials
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	switch {
	case n < minPasswordLen:
		return ErrPasswordTooShort
	case n > maxPasswordLen:
		return ErrPasswordTooLong
	}
	return nil
}
