package reputation

import (
	"math/big"
)

const (
	// InitialScore is assigned on first registration of an owner account.
	InitialScore = 50
	// MaxScore caps reputation growth.
	MaxScore = 100
	// ProofReward is the score credited for each verified relay proof.
	ProofReward = 1
	// ReportPenalty is the score deducted per accepted violation report.
	ReportPenalty = 10
	// SlashThreshold is the violation count at which slashing triggers
	// automatically. The trigger repeats at every further multiple.
	SlashThreshold = 5
	// SlashBps is the share of bonded stake confiscated per slash, in basis
	// points.
	SlashBps = 1000
	// SlashBpsDenominator is the fixed basis point denominator.
	SlashBpsDenominator = 10000
)

// Record tracks the standing of one owner account across all of its nodes.
// Blacklisting is permanent and cross-cuts every node the account owns.
type Record struct {
	Score          uint64 `json:"score"`
	ViolationCount uint64 `json:"violationCount"`
	Blacklisted    bool   `json:"blacklisted"`
}

// NewRecord returns the standing assigned on first registration.
func NewRecord() *Record {
	return &Record{Score: InitialScore}
}

// RewardProof credits one verified relay, capped at MaxScore.
func (r *Record) RewardProof() {
	if r == nil {
		return
	}
	if r.Score+ProofReward > MaxScore {
		r.Score = MaxScore
		return
	}
	r.Score += ProofReward
}

// ApplyReport folds one violation report into the record and reports whether
// the violation count crossed a slashing threshold.
func (r *Record) ApplyReport() (slash bool) {
	if r == nil {
		return false
	}
	if r.Score > ReportPenalty {
		r.Score -= ReportPenalty
	} else {
		r.Score = 0
	}
	r.ViolationCount++
	return r.ViolationCount%SlashThreshold == 0
}

// SlashAmount computes the stake confiscated from the supplied bonded amount.
func SlashAmount(stake *big.Int) *big.Int {
	if stake == nil || stake.Sign() <= 0 {
		return big.NewInt(0)
	}
	amount := new(big.Int).Mul(stake, big.NewInt(SlashBps))
	return amount.Quo(amount, big.NewInt(SlashBpsDenominator))
}
