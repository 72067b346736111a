package ports

import (
	"context"

	"github.com/MeiJie12/siwesession/core"
)

// AuthenticateRequest carries a signed sign-in message to the identity service
type AuthenticateRequest struct {
	Message     string // Canonical sign-in message exactly as signed
	Signature   string // Hex-encoded signature over Message
	AuthType    core.AuthType
	Environment core.Environment
}

// AuthenticateResult is the identity service's answer to a valid signature
type AuthenticateResult struct {
	Profile core.UserProfile
	Token   core.IntermediateToken
}

// IdentityProvider is the remote identity service the login flow talks to
type IdentityProvider interface {
	// GetNonce requests a fresh single-use challenge nonce for the address
	GetNonce(ctx context.Context, address string, env core.Environment) (string, error)

	// Authenticate submits the signed message and returns the user profile
	// together with an intermediate token
	Authenticate(ctx context.Context, req AuthenticateRequest) (AuthenticateResult, error)

	// AuthorizeOIDC exchanges the intermediate token for the final access
	// token. Implementations stamp Token.ObtainedAt at the moment the
	// token is obtained.
	AuthorizeOIDC(ctx context.Context, token core.IntermediateToken, env core.Environment) (core.Token, error)
}
