package core

import "errors"

var (
	// ErrSignerNotAttached is returned when a signer-dependent operation
	// runs before a signer has been attached
	ErrSignerNotAttached = errors.New("signer not attached")

	// ErrNoSession is returned when no stored session exists or the stored
	// session has outlived its lifetime
	ErrNoSession = errors.New("no valid session")
)
