package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobportal/jobportal-go/internal/federated"
	"github.com/jobportal/jobportal-go/internal/model"
)

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  model.RegisterRequest
		want error
	}{
		{"missing name", model.RegisterRequest{Email: "a@x.io", Password: "secret1"}, ErrNameRequired},
		{"blank name", model.RegisterRequest{Name: "  ", Email: "a@x.io", Password: "secret1"}, ErrNameRequired},
		{"missing email", model.RegisterRequest{Name: "A", Password: "secret1"}, ErrEmailRequired},
		{"missing password", model.RegisterRequest{Name: "A", Email: "a@x.io"}, ErrPasswordRequired},
		{"invalid email", model.RegisterRequest{Name: "A", Email: "not-an-email", Password: "secret1"}, ErrInvalidEmail},
		{"display name email", model.RegisterRequest{Name: "A", Email: "A <a@x.io>", Password: "secret1"}, ErrInvalidEmail},
		{"short password", model.RegisterRequest{Name: "A", Email: "a@x.io", Password: "12345"}, ErrPasswordTooShort},
		{"long password", model.RegisterRequest{Name: "A", Email: "a@x.io", Password: strings.Repeat("p", 129)}, ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
		})
	}
	assert.Zero(t, env.users.Len(), "failed registrations persist nothing")
}

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, model.RegisterRequest{Name: "Ann", Email: " ann@x.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.False(t, reg.Created)
	assert.Equal(t, "ann@x.com", reg.User.Email, "email is trimmed")
	assert.True(t, strings.HasPrefix(reg.User.PasswordHash, "$argon2id$"))

	login, err := env.auth.Login(ctx, model.PasswordLogin{Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)

	u1, err := env.auth.Resolve(ctx, reg.Token)
	require.NoError(t, err)
	u2, err := env.auth.Resolve(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, u1.ID)
	assert.Equal(t, u1.ID, u2.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.register(t, "Ann", "ann@x.com")

	_, err := env.auth.Register(ctx, model.RegisterRequest{Name: "Imposter", Email: "ann@x.com", Password: "other-pass"})
	require.ErrorIs(t, err, ErrEmailTaken)

	stored, err := env.users.GetByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "Ann", stored.Name)
	assert.Equal(t, 1, env.users.Len())
}

func TestRegisterConcurrentDuplicates(t *testing.T) {
	env := newTestEnv(t)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		taken     int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.auth.Register(context.Background(), model.RegisterRequest{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrEmailTaken):
				taken++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 3, taken)
}

func TestLoginPasswordFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "Ann", "ann@x.com")

	_, err := env.auth.ResolveOrRegisterFederated(ctx, model.FederatedLogin{Name: "Fed", Email: "fed@x.com"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		login model.PasswordLogin
		want  error
	}{
		{"wrong password", model.PasswordLogin{Email: "ann@x.com", Password: "wrong"}, ErrInvalidCredentials},
		{"unknown email", model.PasswordLogin{Email: "nobody@x.com", Password: "secret1"}, ErrInvalidCredentials},
		{"federated-only account", model.PasswordLogin{Email: "fed@x.com", Password: "secret1"}, ErrInvalidCredentials},
		{"missing email", model.PasswordLogin{Password: "secret1"}, ErrEmailRequired},
		{"missing password", model.PasswordLogin{Email: "ann@x.com"}, ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := env.auth.LoginPassword(ctx, tt.login)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, res.Token, "no token on failure")
		})
	}
}

func TestLoginBcryptAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, env.users.Create(ctx, &model.User{Name: "Old", Email: "old@x.com", PasswordHash: string(hash)}))

	res, err := env.auth.LoginPassword(ctx, model.PasswordLogin{Email: "old@x.com", Password: "legacy-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = env.auth.LoginPassword(ctx, model.PasswordLogin{Email: "old@x.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginThrottle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "Ann", "ann@x.com")

	for i := 0; i < 3; i++ {
		_, err := env.auth.LoginPassword(ctx, model.PasswordLogin{Email: "ann@x.com", Password: "wrong"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := env.auth.LoginPassword(ctx, model.PasswordLogin{Email: "ann@x.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrTooManyAttempts, "correct password is refused while throttled")

	require.NoError(t, env.limiter.Reset(ctx, "ann@x.com"))
	_, err = env.auth.LoginPassword(ctx, model.PasswordLogin{Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)
}

func TestLoginSuccessResetsThrottle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "Ann", "ann@x.com")

	for i := 0; i < 2; i++ {
		_, err := env.auth.LoginPassword(ctx, model.PasswordLogin{Email: "ann@x.com", Password: "wrong"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := env.auth.LoginPassword(ctx, model.PasswordLogin{Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := env.auth.LoginPassword(ctx, model.PasswordLogin{Email: "ann@x.com", Password: "wrong"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err = env.auth.LoginPassword(ctx, model.PasswordLogin{Email: "ann@x.com", Password: "secret1"})
	assert.NoError(t, err)
}

func TestFederatedCreatesOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.auth.Login(ctx, model.FederatedLogin{Name: "Bo", Email: "bo@x.com", Photo: "https://img/bo.png"})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.False(t, first.User.HasPassword())
	assert.Equal(t, "https://img/bo.png", first.User.Photo)

	second, err := env.auth.Login(ctx, model.FederatedLogin{Name: "Bo", Email: "bo@x.com"})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, 1, env.users.Len())
}

func TestFederatedLoginOnPasswordAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.register(t, "Ann", "ann@x.com")

	res, err := env.auth.Login(ctx, model.FederatedLogin{Name: "Ann", Email: "ann@x.com"})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, ann.ID, res.User.ID)
	assert.True(t, res.User.HasPassword(), "existing account is returned unchanged")
	assert.Equal(t, 1, env.users.Len())
}

func TestFederatedVerifierErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing token", federated.ErrMissingToken, ErrIDTokenRequired},
		{"invalid token", federated.ErrInvalidToken, ErrInvalidCredentials},
		{"unverified email", federated.ErrEmailNotVerified, ErrInvalidCredentials},
		{"email mismatch", federated.ErrEmailMismatch, ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnvWithVerifier(t, stubVerifier{err: tt.err})

			_, err := env.auth.ResolveOrRegisterFederated(context.Background(), model.FederatedLogin{Name: "A", Email: "a@x.io", IDToken: "t"})
			require.ErrorIs(t, err, tt.want)
			assert.Zero(t, env.users.Len())
		})
	}
}

func TestFederatedUsesVerifiedIdentity(t *testing.T) {
	env := newTestEnvWithVerifier(t, stubVerifier{id: federated.Identity{
		Subject: "g-1",
		Email:   "real@x.io",
		Name:    "Real Name",
	}})

	res, err := env.auth.ResolveOrRegisterFederated(context.Background(), model.FederatedLogin{IDToken: "t"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "real@x.io", res.User.Email)
	assert.Equal(t, "Real Name", res.User.Name)
}

func TestResolveRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.register(t, "Ann", "ann@x.com")

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   ann.ID,
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{testAudience},
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   ann.ID,
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{testAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":   "",
		"garbage": "not.a.token",
		"expired": expired,
		"forged":  forged,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.auth.Resolve(ctx, token)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestResolveDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, model.RegisterRequest{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	env.deleteUser(t, res.User.ID)

	_, err = env.auth.Resolve(ctx, res.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// Register, log in, fail with a wrong password, then log in through the
// federated path without a password.
func TestAnnScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, model.RegisterRequest{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	login, err := env.auth.Login(ctx, model.LoginBody{Email: "ann@x.com", Password: "secret1"}.LoginRequest())
	require.NoError(t, err)

	u1, err := env.auth.Resolve(ctx, reg.Token)
	require.NoError(t, err)
	u2, err := env.auth.Resolve(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, u1.ID, u2.ID)

	_, err = env.auth.Login(ctx, model.LoginBody{Email: "ann@x.com", Password: "wrong"}.LoginRequest())
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	fed, err := env.auth.Login(ctx, model.LoginBody{Name: "Ann", Email: "ann@x.com"}.LoginRequest())
	require.NoError(t, err)
	assert.False(t, fed.Created)
	assert.Equal(t, u1.ID, fed.User.ID)
	assert.Equal(t, 1, env.users.Len())
}
