package core

import "errors"

var (
	// ErrUnauthorized marks administrative calls from a non-admin account.
	ErrUnauthorized = errors.New("core: caller not authorized")
	// ErrAdminNotSet marks administrative calls before an admin is configured.
	ErrAdminNotSet = errors.New("core: admin account not configured")
)
