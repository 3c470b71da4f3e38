package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()

	m, err := NewTokenManager(TokenConfig{
		Secret:   "test-secret",
		Expiry:   time.Hour,
		Issuer:   "jobportal",
		Audience: "jobportal-api",
	})
	if err != nil {
		t.Fatalf("NewTokenManager() unexpected error: %v", err)
	}
	return m
}

func signClaims(t *testing.T, claims jwt.Claims, secret string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}
	return token
}

func TestNewTokenManagerRejectsNonPositiveExpiry(t *testing.T) {
	for _, expiry := range []time.Duration{0, -time.Minute} {
		if _, err := NewTokenManager(TokenConfig{Secret: "s", Expiry: expiry}); err != ErrInvalidExpiry {
			t.Errorf("NewTokenManager(expiry=%v) error = %v, want %v", expiry, err, ErrInvalidExpiry)
		}
	}
}

func TestIssueAndValidate(t *testing.T) {
	m := newTestTokenManager(t)

	token, err := m.Issue("6650f0c2a1b2c3d4e5f60718")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	userID, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if userID != "6650f0c2a1b2c3d4e5f60718" {
		t.Errorf("Validate() userID = %q, want %q", userID, "6650f0c2a1b2c3d4e5f60718")
	}
}

func TestIssueAlwaysSetsExpiry(t *testing.T) {
	m := newTestTokenManager(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("ParseUnverified() unexpected error: %v", err)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("issued token has no exp claim")
	}
	if !claims.ExpiresAt.Time.Equal(fixed.Add(time.Hour)) {
		t.Errorf("exp = %v, want %v", claims.ExpiresAt.Time, fixed.Add(time.Hour))
	}
}

func TestIssueEmptySubject(t *testing.T) {
	m := newTestTokenManager(t)

	if _, err := m.Issue(""); err != ErrEmptySubject {
		t.Errorf("Issue(\"\") error = %v, want %v", err, ErrEmptySubject)
	}
}

func TestValidateExpired(t *testing.T) {
	m := newTestTokenManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	m.now = time.Now
	if _, err := m.Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate() error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestValidateRejects(t *testing.T) {
	m := newTestTokenManager(t)
	now := time.Now()
	valid := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "jobportal",
		Audience:  jwt.ClaimStrings{"jobportal-api"},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	tests := []struct {
		name  string
		token func() string
	}{
		{
			name:  "garbage",
			token: func() string { return "not-a-valid-token" },
		},
		{
			name:  "wrong secret",
			token: func() string { return signClaims(t, valid, "other-secret") },
		},
		{
			name: "wrong issuer",
			token: func() string {
				c := valid
				c.Issuer = "someone-else"
				return signClaims(t, c, "test-secret")
			},
		},
		{
			name: "wrong audience",
			token: func() string {
				c := valid
				c.Audience = jwt.ClaimStrings{"other-api"}
				return signClaims(t, c, "test-secret")
			},
		},
		{
			name: "missing expiry",
			token: func() string {
				c := valid
				c.ExpiresAt = nil
				return signClaims(t, c, "test-secret")
			},
		},
		{
			name: "missing subject",
			token: func() string {
				c := valid
				c.Subject = ""
				return signClaims(t, c, "test-secret")
			},
		},
		{
			name: "unexpected algorithm",
			token: func() string {
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, valid).SignedString([]byte("test-secret"))
				if err != nil {
					t.Fatalf("SignedString() unexpected error: %v", err)
				}
				return token
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Validate(tt.token()); err != ErrInvalidToken {
				t.Errorf("Validate() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}
