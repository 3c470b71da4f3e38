package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "trust", cfg.Federated.Mode, "development starts without provider discovery")
	assert.False(t, cfg.TrustProxy)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.FrontendURL)
	assert.Equal(t, 5, cfg.Throttle.MaxAttempts)
	assert.Empty(t, cfg.Minio.Endpoint)
	assert.False(t, cfg.IsProduction())
}

func TestLoadProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("FEDERATED_CLIENT_ID", "client.apps.googleusercontent.com")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "oidc", cfg.Federated.Mode)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("FRONTEND_URL", "https://a.example,https://b.example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("FEDERATED_MODE", "oidc")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "oidc", cfg.Federated.Mode)
	assert.True(t, cfg.TrustProxy)

	assert.Equal(t, "mysql", cfg.Store.Driver)
	assert.Equal(t, time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.FrontendURL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "unknown store driver",
			env:     map[string]string{"STORE_DRIVER": "postgres"},
			wantErr: ErrUnknownStoreDriver,
		},
		{
			name:    "unknown federated mode",
			env:     map[string]string{"FEDERATED_MODE": "saml"},
			wantErr: ErrUnknownFederated,
		},
		{
			name:    "non-positive expiry",
			env:     map[string]string{"JWT_EXPIRY": "0s"},
			wantErr: ErrJWTExpiry,
		},
		{
			name:    "production with dev secret",
			env:     map[string]string{"ENV": "production"},
			wantErr: ErrProductionSecret,
		},
		{
			name: "production with trusted federated logins",
			env: map[string]string{
				"ENV":            "production",
				"JWT_SECRET":     "a-real-secret",
				"FEDERATED_MODE": "trust",
			},
			wantErr: ErrProductionTrust,
		},
		{
			name: "production oidc without client id",
			env: map[string]string{
				"ENV":        "production",
				"JWT_SECRET": "a-real-secret",
			},
			wantErr: ErrMissingClientID,
		},
		{
			name: "production without object storage",
			env: map[string]string{
				"ENV":                 "production",
				"JWT_SECRET":          "a-real-secret",
				"FEDERATED_CLIENT_ID": "client.apps.googleusercontent.com",
			},
			wantErr: ErrProductionStorage,
		},
		{
			name: "production with memory store",
			env: map[string]string{
				"ENV":                 "production",
				"JWT_SECRET":          "a-real-secret",
				"FEDERATED_CLIENT_ID": "client.apps.googleusercontent.com",
				"STORE_DRIVER":        "memory",
			},
			wantErr: ErrProductionMemory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "forever")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}
