package bank

import (
	"math/big"
	"testing"
)

type memState struct {
	balances map[[20]byte]*big.Int
}

func newMemState() *memState {
	return &memState{balances: make(map[[20]byte]*big.Int)}
}

func (s *memState) Balance(account [20]byte) (*big.Int, error) {
	if v, ok := s.balances[account]; ok {
		return new(big.Int).Set(v), nil
	}
	return big.NewInt(0), nil
}

func (s *memState) SetBalance(account [20]byte, amount *big.Int) error {
	s.balances[account] = new(big.Int).Set(amount)
	return nil
}

func account(index byte) [20]byte {
	var out [20]byte
	out[19] = index
	return out
}

func TestTransfer(t *testing.T) {
	state := newMemState()
	ledger := NewLedger(state)
	if err := ledger.Mint(account(1), big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.Transfer(account(1), account(2), big.NewInt(40)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	from, _ := ledger.BalanceOf(account(1))
	to, _ := ledger.BalanceOf(account(2))
	if from.Cmp(big.NewInt(60)) != 0 || to.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("unexpected balances from=%s to=%s", from, to)
	}
}

func TestTransferInsufficient(t *testing.T) {
	ledger := NewLedger(newMemState())
	if err := ledger.Transfer(account(1), account(2), big.NewInt(1)); err != ErrInsufficientFunds {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestTransferZeroIsNoop(t *testing.T) {
	state := newMemState()
	ledger := NewLedger(state)
	if err := ledger.Transfer(account(1), account(2), big.NewInt(0)); err != nil {
		t.Fatalf("zero transfer must succeed: %v", err)
	}
	if err := ledger.Transfer(account(1), account(2), nil); err != ErrInvalidAmount {
		t.Fatalf("nil amount must be rejected, got %v", err)
	}
}

func TestModuleAccountsDistinct(t *testing.T) {
	if StakeVault == RewardTreasury || RewardTreasury == SlashPool || StakeVault == SlashPool {
		t.Fatalf("module accounts must be distinct")
	}
}
