package siwesession

import (
	"time"

	"github.com/MeiJie12/siwesession/core"
)

// DefaultSessionLifetime is how long a stored session stays usable after
// its token was obtained
const DefaultSessionLifetime = 24 * time.Hour

// LoginURLFunc resolves the login URI embedded in sign-in messages
type LoginURLFunc func(env core.Environment) string

// DefaultLoginURL maps each environment to its hosted login page
func DefaultLoginURL(env core.Environment) string {
	switch env {
	case core.EnvironmentProduction:
		return "https://login.meijie.app"
	case core.EnvironmentStaging:
		return "https://login.staging.meijie.app"
	default:
		return "http://localhost:3000/login"
	}
}

// Config carries the client's fixed parameters. The zero value of every
// field falls back to a default.
type Config struct {
	// AuthType tags authenticate calls with the scheme used.
	// Defaults to core.AuthTypeSIWE.
	AuthType core.AuthType

	// Environment selects the identity service deployment.
	// Defaults to core.EnvironmentProduction.
	Environment core.Environment

	// SessionLifetime bounds how long a stored session is served from
	// cache. Defaults to DefaultSessionLifetime.
	SessionLifetime time.Duration

	// LoginURL resolves the login URI for the environment.
	// Defaults to DefaultLoginURL.
	LoginURL LoginURLFunc
}

func (c Config) withDefaults() Config {
	if c.AuthType == "" {
		c.AuthType = core.AuthTypeSIWE
	}
	if c.Environment == "" {
		c.Environment = core.EnvironmentProduction
	}
	if c.SessionLifetime <= 0 {
		c.SessionLifetime = DefaultSessionLifetime
	}
	if c.LoginURL == nil {
		c.LoginURL = DefaultLoginURL
	}
	return c
}
