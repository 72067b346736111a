// Package siwesession signs users in with their Ethereum wallet and caches
// the resulting session.
//
// The client walks the full sign-in sequence against an identity service:
// challenge nonce, canonical EIP-4361 message, wallet signature,
// authenticate, OIDC authorize. The session that falls out is persisted
// through a pluggable store and served from there until it expires, so
// repeated token lookups do not force repeated wallet prompts.
package siwesession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/MeiJie12/siwesession/core"
	"github.com/MeiJie12/siwesession/ports"
)

// Client is the wallet sign-in client. Construct it with NewClient and
// attach a signer before calling any signer-dependent operation.
type Client struct {
	cfg      Config
	store    ports.SessionStore
	identity ports.IdentityProvider
	events   ports.EventPublisher
	logger   *zap.Logger

	signer ports.Signer
	logins singleflight.Group

	// now allows time to be stubbed in tests
	now func() time.Time
}

// NewClient creates a client around the given collaborators. events and
// logger may be nil: events are then skipped and logging is discarded.
func NewClient(cfg Config, store ports.SessionStore, identity ports.IdentityProvider, events ports.EventPublisher, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		cfg:      cfg.withDefaults(),
		store:    store,
		identity: identity,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// AttachSigner binds the signer used by all signer-dependent operations,
// replacing any previously attached one. Attach during initialization,
// before the client is shared between goroutines.
func (c *Client) AttachSigner(s ports.Signer) {
	c.signer = s
}

func (c *Client) requireSigner() (ports.Signer, error) {
	if c.signer == nil {
		return nil, core.ErrSignerNotAttached
	}
	return c.signer, nil
}

// Identifier returns the attached signer's address
func (c *Client) Identifier() (string, error) {
	signer, err := c.requireSigner()
	if err != nil {
		return "", err
	}
	return signer.Address(), nil
}

// SignMessage signs an arbitrary message with the attached signer.
// Signer failures, including the user rejecting the prompt, are returned
// as-is.
func (c *Client) SignMessage(ctx context.Context, message string) (string, error) {
	signer, err := c.requireSigner()
	if err != nil {
		return "", err
	}
	return signer.SignMessage(ctx, message)
}

// CurrentSession returns the stored session while it is within its
// lifetime. Absent and expired sessions are both reported as
// core.ErrNoSession; an expired session stays in the store, shadowed,
// until the next login overwrites it.
func (c *Client) CurrentSession(ctx context.Context) (core.Session, error) {
	session, err := c.store.Load(ctx)
	if err != nil {
		if errors.Is(err, core.ErrNoSession) {
			return core.Session{}, core.ErrNoSession
		}
		return core.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	if c.now().Sub(session.Token.ObtainedAt) >= c.cfg.SessionLifetime {
		return core.Session{}, core.ErrNoSession
	}

	return session, nil
}

// AccessToken returns the access token of the current session, running a
// full login first when no valid session exists
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	session, err := c.session(ctx)
	if err != nil {
		return "", err
	}
	return session.Token.AccessToken, nil
}

// UserProfile returns the profile of the current session, running a full
// login first when no valid session exists
func (c *Client) UserProfile(ctx context.Context) (core.UserProfile, error) {
	session, err := c.session(ctx)
	if err != nil {
		return core.UserProfile{}, err
	}
	return session.Profile, nil
}

// session serves from the cache gate and falls through to a login on a
// miss. Store failures propagate without triggering a login.
func (c *Client) session(ctx context.Context) (core.Session, error) {
	session, err := c.CurrentSession(ctx)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, core.ErrNoSession) {
		return core.Session{}, err
	}

	return c.loginOnce(ctx)
}
