package ports

import "context"

// Signer is the wallet capability the client signs with. Implementations
// range from an in-process key to a prompt in the user's wallet, which is
// why SignMessage takes a context and may fail with a user rejection.
type Signer interface {
	// Address returns the signer's Ethereum address in 0x-hex form
	Address() string

	// ChainID returns the chain the signer operates on
	ChainID() int64

	// Domain returns the RFC 3986 authority the sign-in message is bound to
	Domain() string

	// SignMessage signs the message and returns the hex-encoded signature
	SignMessage(ctx context.Context, message string) (string, error)
}
