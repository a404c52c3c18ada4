package bank

import (
	"errors"
	"math/big"

	"relaynet/crypto"
)

var (
	ErrInsufficientFunds = errors.New("bank: insufficient funds")
	ErrInvalidAmount     = errors.New("bank: amount must be positive")
)

// State is the subset of state manager functionality the ledger needs.
type State interface {
	Balance(account [20]byte) (*big.Int, error)
	SetBalance(account [20]byte, amount *big.Int) error
}

// Module accounts. Stake sits in the vault while a node is active, slashed
// stake accumulates in the slash pool, and rewards are paid out of the
// treasury.
var (
	StakeVault     = moduleAccount("relaynet/stake-vault")
	RewardTreasury = moduleAccount("relaynet/reward-treasury")
	SlashPool      = moduleAccount("relaynet/slash-pool")
)

func moduleAccount(name string) [20]byte {
	digest := crypto.Keccak256([]byte(name))
	var out [20]byte
	copy(out[:], digest[12:])
	return out
}

// Ledger provides value transfer over the state manager. Transfers are
// all-or-nothing: a failed debit leaves both balances untouched.
type Ledger struct {
	state State
}

// NewLedger constructs a ledger bound to the provided state backend.
func NewLedger(state State) *Ledger {
	return &Ledger{state: state}
}

// BalanceOf returns the current balance of the account.
func (l *Ledger) BalanceOf(account [20]byte) (*big.Int, error) {
	if l == nil || l.state == nil {
		return nil, errors.New("bank: ledger not initialised")
	}
	return l.state.Balance(account)
}

// Transfer moves amount from one account to another. Zero transfers succeed
// without touching state so zero-reward claims stay cheap.
func (l *Ledger) Transfer(from, to [20]byte, amount *big.Int) error {
	if l == nil || l.state == nil {
		return errors.New("bank: ledger not initialised")
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	fromBalance, err := l.state.Balance(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	toBalance, err := l.state.Balance(to)
	if err != nil {
		return err
	}
	if err := l.state.SetBalance(from, new(big.Int).Sub(fromBalance, amount)); err != nil {
		return err
	}
	return l.state.SetBalance(to, new(big.Int).Add(toBalance, amount))
}

// Mint credits freshly issued value to the account. Reserved for genesis and
// administrative treasury funding.
func (l *Ledger) Mint(account [20]byte, amount *big.Int) error {
	if l == nil || l.state == nil {
		return errors.New("bank: ledger not initialised")
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	balance, err := l.state.Balance(account)
	if err != nil {
		return err
	}
	return l.state.SetBalance(account, new(big.Int).Add(balance, amount))
}
