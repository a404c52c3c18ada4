package settlement

import "errors"

var (
	ErrLiveEpoch          = errors.New("settlement: epoch not yet settled")
	ErrNoActivity         = errors.New("settlement: no relay activity for epoch")
	ErrAlreadyClaimed     = errors.New("settlement: reward already claimed")
	ErrAlreadyDistributed = errors.New("settlement: missed pool already distributed")
	ErrUnknownEpoch       = errors.New("settlement: no pool recorded for epoch")
)
