package core

import "time"

// Environment selects which identity service deployment the client talks to
type Environment string

const (
	// EnvironmentProduction targets the production identity service
	EnvironmentProduction Environment = "production"

	// EnvironmentStaging targets the staging identity service
	EnvironmentStaging Environment = "staging"

	// EnvironmentDevelopment targets a local or development identity service
	EnvironmentDevelopment Environment = "development"
)

// AuthType labels the authentication scheme used during login
type AuthType string

const (
	// AuthTypeSIWE is wallet sign-in via an EIP-4361 message
	AuthTypeSIWE AuthType = "siwe"
)

// UserProfile is the profile returned by the identity service on login.
// The client stores and returns it as-is.
type UserProfile struct {
	ID       string `json:"id"`       // Identity-service user identifier
	Address  string `json:"address"`  // Ethereum address the profile is bound to
	Username string `json:"username"` // Optional display name
	Email    string `json:"email"`    // Optional email
}

// Token is the final access credential issued at the end of a login
type Token struct {
	AccessToken string    `json:"access_token"` // Bearer credential for subsequent requests
	TokenType   string    `json:"token_type"`   // Usually "Bearer"
	ExpiresIn   int64     `json:"expires_in"`   // Server-side lifetime hint, seconds
	Scope       string    `json:"scope"`        // Granted scopes
	ObtainedAt  time.Time `json:"obtained_at"`  // When the token was obtained, drives session validity
}

// IntermediateToken is the short-lived credential returned by authenticate
// and consumed by the OIDC authorize exchange. It is never persisted.
type IntermediateToken string

// Session is a complete authenticated session: the user profile together
// with the access token obtained for it. Sessions are written atomically
// on a successful login and are never mutated afterwards, only replaced
// by the next login.
type Session struct {
	Profile UserProfile `json:"profile"`
	Token   Token       `json:"token"`
}
