package core

import (
	"math/big"

	"relaynet/native/proof"
	"relaynet/native/registry"
	"relaynet/native/reputation"
	"relaynet/native/settlement"
)

// NodeInfo bundles the identity and operational state of one node.
type NodeInfo struct {
	Identity registry.NodeIdentity
	State    registry.NodeState
}

// Node returns a copy of the node's records.
func (e *Engine) Node(nodeID [32]byte) (*NodeInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	identity, ok, err := e.state.NodeIdentity(nodeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, registry.ErrUnknownNode
	}
	ns, ok, err := e.state.NodeState(nodeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, registry.ErrUnknownNode
	}
	return &NodeInfo{Identity: *identity, State: *ns.Clone()}, nil
}

// Reputation returns the owner account's standing. Accounts that never
// registered report the initial record.
func (e *Engine) Reputation(owner [20]byte) (*reputation.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	record, ok, err := e.state.ReputationRecord(owner)
	if err != nil {
		return nil, err
	}
	if !ok {
		return reputation.NewRecord(), nil
	}
	clone := *record
	return &clone, nil
}

// Pool returns the archived or live pool for an epoch.
func (e *Engine) Pool(epoch uint64) (*settlement.DailyPool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pool, ok, err := e.state.Pool(epoch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, settlement.ErrUnknownEpoch
	}
	clone := *pool
	clone.PoolBudget = pool.Budget()
	return &clone, nil
}

// NodeStats returns one node's contribution record for an epoch.
func (e *Engine) NodeStats(epoch uint64, nodeID [32]byte) (*settlement.NodeDailyStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	stats, ok, err := e.state.NodeDailyStats(epoch, nodeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, settlement.ErrNoActivity
	}
	clone := *stats
	return &clone, nil
}

// ProofState returns the node's replay counters.
func (e *Engine) ProofState(nodeID [32]byte) (*proof.NodeProofState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ps, err := e.state.NodeProofState(nodeID)
	if err != nil {
		return nil, err
	}
	clone := *ps
	return &clone, nil
}

// ActiveNodes returns the global active-node count.
func (e *Engine) ActiveNodes() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.ActiveNodeCount()
}

// BalanceOf returns the account balance.
func (e *Engine) BalanceOf(account [20]byte) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.BalanceOf(account)
}
