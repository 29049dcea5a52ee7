// Package transport defines request/response DTOs for the auth module.
package transport

// SignInRequest carries login credentials.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns the access token; the refresh token travels in an
// HttpOnly cookie.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
}

// MeResponse describes the authenticated account.
type MeResponse struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName *string  `json:"fullName,omitempty"`
	Roles    []string `json:"roles"`
}
