package reputation

import "errors"

var (
	ErrSelfReport         = errors.New("reputation: cannot report own node")
	ErrReporterUnknown    = errors.New("reputation: reporter not registered")
	ErrEmptyReason        = errors.New("reputation: reason required")
	ErrAlreadyBlacklisted = errors.New("reputation: owner already blacklisted")
	ErrRecordNotFound     = errors.New("reputation: record not found")
)
