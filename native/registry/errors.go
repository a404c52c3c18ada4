package registry

import "errors"

var (
	ErrDuplicateNode     = errors.New("registry: node already registered")
	ErrUnknownNode       = errors.New("registry: node not found")
	ErrNotOwner          = errors.New("registry: caller does not own node")
	ErrNotActive         = errors.New("registry: node not active")
	ErrBlacklisted       = errors.New("registry: owner blacklisted")
	ErrInsufficientStake = errors.New("registry: insufficient stake")
	ErrInvalidEndpoint   = errors.New("registry: invalid endpoint")
	ErrInvalidTier       = errors.New("registry: invalid tier")
)
