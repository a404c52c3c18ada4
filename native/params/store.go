package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"relaynet/native/registry"
)

// Default economic parameters, used until governance overrides them.
var (
	DefaultDailyBudget          = big.NewInt(100_000_000)
	DefaultBaseRewardPerMessage = big.NewInt(1000)
)

// StoreState captures the subset of state manager capabilities required by
// the parameter helpers.
type StoreState interface {
	ParamStoreSet(name string, value []byte) error
	ParamStoreGet(name string) ([]byte, bool, error)
}

// Store provides typed accessors for the administratively adjustable
// parameters. Values are marshalled as JSON to align with admin API payloads.
type Store struct {
	state StoreState
}

// NewStore constructs a parameter store wrapper using the supplied state
// backend.
func NewStore(state StoreState) *Store {
	return &Store{state: state}
}

func (s *Store) withState() (StoreState, error) {
	if s == nil || s.state == nil {
		return nil, errors.New("params: state not configured")
	}
	return s.state, nil
}

func (s *Store) getBig(key string, fallback *big.Int) (*big.Int, error) {
	state, err := s.withState()
	if err != nil {
		return nil, err
	}
	raw, ok, err := state.ParamStoreGet(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return new(big.Int).Set(fallback), nil
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("params: decode %s: %w", key, err)
	}
	value, valid := new(big.Int).SetString(encoded, 10)
	if !valid {
		return nil, fmt.Errorf("params: invalid integer for %s", key)
	}
	return value, nil
}

func (s *Store) setBig(key string, value *big.Int) error {
	state, err := s.withState()
	if err != nil {
		return err
	}
	if value == nil || value.Sign() < 0 {
		return fmt.Errorf("params: %s must be non-negative", key)
	}
	encoded, err := json.Marshal(value.String())
	if err != nil {
		return fmt.Errorf("params: encode %s: %w", key, err)
	}
	return state.ParamStoreSet(key, encoded)
}

// DailyBudget returns the reward budget opened with each new epoch pool.
func (s *Store) DailyBudget() (*big.Int, error) {
	return s.getBig(KeyDailyBudget, DefaultDailyBudget)
}

// SetDailyBudget persists a new daily budget.
func (s *Store) SetDailyBudget(value *big.Int) error {
	return s.setBig(KeyDailyBudget, value)
}

// BaseRewardPerMessage returns the flat per-message reward rate.
func (s *Store) BaseRewardPerMessage() (*big.Int, error) {
	return s.getBig(KeyBaseRewardPerMessage, DefaultBaseRewardPerMessage)
}

// SetBaseRewardPerMessage persists a new base rate.
func (s *Store) SetBaseRewardPerMessage(value *big.Int) error {
	return s.setBig(KeyBaseRewardPerMessage, value)
}

// MinimumStakes returns the per-tier stake floors, falling back to the
// registry defaults when unset.
func (s *Store) MinimumStakes() (registry.MinimumStakes, error) {
	state, err := s.withState()
	if err != nil {
		return registry.MinimumStakes{}, err
	}
	raw, ok, err := state.ParamStoreGet(KeyMinimumStakes)
	if err != nil {
		return registry.MinimumStakes{}, err
	}
	if !ok {
		return registry.DefaultMinimumStakes(), nil
	}
	var encoded [4]string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return registry.MinimumStakes{}, fmt.Errorf("params: decode minimum stakes: %w", err)
	}
	var out registry.MinimumStakes
	for i, v := range encoded {
		parsed, valid := new(big.Int).SetString(v, 10)
		if !valid {
			return registry.MinimumStakes{}, fmt.Errorf("params: invalid minimum stake for %s", registry.Tier(i))
		}
		out[i] = parsed
	}
	if err := out.Validate(); err != nil {
		return registry.MinimumStakes{}, err
	}
	return out, nil
}

// SetMinimumStakes persists new per-tier stake floors after validation.
func (s *Store) SetMinimumStakes(stakes registry.MinimumStakes) error {
	state, err := s.withState()
	if err != nil {
		return err
	}
	if err := stakes.Validate(); err != nil {
		return err
	}
	var encoded [4]string
	for i := range encoded {
		encoded[i] = stakes[i].String()
	}
	raw, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("params: encode minimum stakes: %w", err)
	}
	return state.ParamStoreSet(KeyMinimumStakes, raw)
}
