package ports

import (
	"context"

	"github.com/MeiJie12/siwesession/core"
)

// SessionStore persists the single cached session
type SessionStore interface {
	// Load returns the stored session, or core.ErrNoSession when none
	// has been written yet. Expiry is not the store's concern: stale
	// sessions stay stored until the next Save overwrites them.
	Load(ctx context.Context) (core.Session, error)

	// Save overwrites the stored session with a complete new one
	Save(ctx context.Context, session core.Session) error
}
