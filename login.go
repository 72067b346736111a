package siwesession

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MeiJie12/siwesession/core"
	"github.com/MeiJie12/siwesession/ports"
	"github.com/MeiJie12/siwesession/siwe"
)

// loginOnce collapses concurrent login attempts into a single flight, so
// simultaneous accessors share one nonce, one wallet prompt and one
// session write
func (c *Client) loginOnce(ctx context.Context) (core.Session, error) {
	signer, err := c.requireSigner()
	if err != nil {
		return core.Session{}, err
	}

	v, err, _ := c.logins.Do("login", func() (interface{}, error) {
		return c.login(ctx, signer)
	})
	if err != nil {
		return core.Session{}, err
	}

	return v.(core.Session), nil
}

// login runs the sign-in sequence: nonce, message, signature plus
// authenticate, authorize plus persist. Stages never retry; the first
// failure aborts the attempt and nothing is persisted.
func (c *Client) login(ctx context.Context, signer ports.Signer) (core.Session, error) {
	address := signer.Address()

	// Request a single-use challenge nonce
	nonce, err := c.identity.GetNonce(ctx, address, c.cfg.Environment)
	if err != nil {
		return core.Session{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	// Build the canonical sign-in message, one per attempt
	message := siwe.Message{
		Domain:   signer.Domain(),
		Address:  address,
		URI:      c.cfg.LoginURL(c.cfg.Environment),
		Version:  siwe.Version,
		ChainID:  signer.ChainID(),
		Nonce:    nonce,
		IssuedAt: c.now(),
	}.String()

	// Prove control of the address
	signature, err := signer.SignMessage(ctx, message)
	if err != nil {
		return core.Session{}, fmt.Errorf("failed to sign message: %w", err)
	}

	result, err := c.identity.Authenticate(ctx, ports.AuthenticateRequest{
		Message:     message,
		Signature:   signature,
		AuthType:    c.cfg.AuthType,
		Environment: c.cfg.Environment,
	})
	if err != nil {
		return core.Session{}, fmt.Errorf("authentication failed: %w", err)
	}

	// Exchange the intermediate token for the final access token
	token, err := c.identity.AuthorizeOIDC(ctx, result.Token, c.cfg.Environment)
	if err != nil {
		return core.Session{}, fmt.Errorf("authorization failed: %w", err)
	}
	if token.ObtainedAt.IsZero() {
		token.ObtainedAt = c.now()
	}

	session := core.Session{
		Profile: result.Profile,
		Token:   token,
	}

	// Profile and token land in the store together, in a single write
	if err := c.store.Save(ctx, session); err != nil {
		return core.Session{}, fmt.Errorf("failed to save session: %w", err)
	}

	c.publishLogin(ctx, address, result.Profile.ID)

	c.logger.Info("login completed",
		zap.String("address", address),
		zap.String("profile_id", result.Profile.ID),
	)

	return session, nil
}

// publishLogin notifies listeners about a completed login. Publishing is
// best effort and never fails the login.
func (c *Client) publishLogin(ctx context.Context, address, profileID string) {
	if c.events == nil {
		return
	}

	if err := c.events.PublishLogin(ctx, address, profileID); err != nil {
		c.logger.Warn("failed to publish login event",
			zap.String("address", address),
			zap.Error(err),
		)
	}
}
