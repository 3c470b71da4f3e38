package model

// RegisterRequest represents a manual registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is either a PasswordLogin or a FederatedLogin.
type LoginRequest interface {
	loginRequest()
}

// PasswordLogin authenticates with an email and a password.
type PasswordLogin struct {
	Email    string
	Password string
}

// FederatedLogin authenticates with an identity asserted by an external
// provider. IDToken is the provider-signed proof of that identity.
type FederatedLogin struct {
	Email   string
	Name    string
	Photo   string
	IDToken string
}

func (PasswordLogin) loginRequest()  {}
func (FederatedLogin) loginRequest() {}

// LoginBody is the wire shape of POST /api/auth/login. A body without a
// password but with a name and an email is a federated login.
type LoginBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Photo    string `json:"photo"`
	IDToken  string `json:"idToken"`
}

// LoginRequest converts the wire body into its tagged variant.
func (b LoginBody) LoginRequest() LoginRequest {
	if b.Password == "" && b.Name != "" && b.Email != "" {
		return FederatedLogin{
			Email:   b.Email,
			Name:    b.Name,
			Photo:   b.Photo,
			IDToken: b.IDToken,
		}
	}

	return PasswordLogin{
		Email:    b.Email,
		Password: b.Password,
	}
}

// AuthResponse represents an authentication response with a token and user info.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
	Created bool         `json:"created,omitempty"`
}
