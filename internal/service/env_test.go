package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jobportal/jobportal-go/internal/crypto"
	"github.com/jobportal/jobportal-go/internal/federated"
	"github.com/jobportal/jobportal-go/internal/model"
	"github.com/jobportal/jobportal-go/internal/repository"
	"github.com/jobportal/jobportal-go/internal/storage"
	"github.com/jobportal/jobportal-go/internal/throttle"
)

const (
	testSecret   = "test-secret"
	testIssuer   = "jobportal"
	testAudience = "jobportal-api"
)

// stubVerifier returns a fixed identity or error.
type stubVerifier struct {
	id  federated.Identity
	err error
}

func (v stubVerifier) Verify(context.Context, model.FederatedLogin) (federated.Identity, error) {
	return v.id, v.err
}

type testEnv struct {
	users   *repository.MemoryUserRepository
	jobs    *repository.MemoryJobRepository
	apps    *repository.MemoryApplicationRepository
	files   *storage.Memory
	tokens  *crypto.TokenManager
	limiter *throttle.Memory
	auth    *AuthService
	jobSvc  *JobService
	appSvc  *ApplicationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithVerifier(t, federated.TrustVerifier{})
}

func newTestEnvWithVerifier(t *testing.T, verifier federated.Verifier) *testEnv {
	t.Helper()

	tokens, err := crypto.NewTokenManager(crypto.TokenConfig{
		Secret:   testSecret,
		Expiry:   time.Hour,
		Issuer:   testIssuer,
		Audience: testAudience,
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		users:   repository.NewMemoryUserRepository(),
		jobs:    repository.NewMemoryJobRepository(),
		apps:    repository.NewMemoryApplicationRepository(),
		files:   storage.NewMemory(),
		tokens:  tokens,
		limiter: throttle.NewMemory(throttle.Config{MaxAttempts: 3, Window: time.Minute}),
	}
	env.auth = NewAuthService(env.users, tokens, verifier, env.limiter, logger)
	env.jobSvc = NewJobService(env.jobs, env.users)
	env.appSvc = NewApplicationService(env.apps, env.jobs, env.files, logger)
	return env
}

func (e *testEnv) register(t *testing.T, name, email string) *model.User {
	t.Helper()

	res, err := e.auth.Register(context.Background(), model.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	return res.User
}

func (e *testEnv) deleteUser(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, e.users.Delete(context.Background(), id))
}
