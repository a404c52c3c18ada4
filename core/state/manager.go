package state

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"relaynet/native/proof"
	"relaynet/native/registry"
	"relaynet/native/reputation"
	"relaynet/native/settlement"
	"relaynet/storage"
)

var (
	nodeIdentityPrefix    = []byte("registry/id/")
	nodeStatePrefix       = []byte("registry/state/")
	ownerIndexPrefix      = []byte("registry/owner/")
	instanceCounterPrefix = []byte("registry/instance/")
	activeCountKey        = []byte("registry/counters/active")
	proofRecordPrefix     = []byte("proof/record/")
	proofStatePrefix      = []byte("proof/node/")
	poolPrefix            = []byte("settlement/pool/")
	liveEpochKey          = []byte("settlement/live")
	statsPrefix           = []byte("settlement/stats/")
	missedPrefix          = []byte("settlement/missed/")
	reputationPrefix      = []byte("reputation/record/")
	violationPrefix       = []byte("reputation/report/")
	balancePrefix         = []byte("bank/balance/")
	paramPrefix           = []byte("params/")
	genesisKey            = []byte("genesis/applied")
)

// Manager persists every record the engine owns as JSON under byte-prefixed
// keys in a storage.Database. It is not safe for concurrent use; the engine
// serialises access.
type Manager struct {
	db storage.Database
}

// NewManager constructs a state manager over the supplied database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func (m *Manager) kvGet(key []byte, out interface{}) (bool, error) {
	raw, err := m.db.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", key, err)
	}
	return true, nil
}

func (m *Manager) kvPut(key []byte, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", key, err)
	}
	return m.db.Put(key, raw)
}

func nodeKey(prefix []byte, nodeID [32]byte) []byte {
	return append(append([]byte(nil), prefix...), hex.EncodeToString(nodeID[:])...)
}

func accountKey(prefix []byte, account [20]byte) []byte {
	return append(append([]byte(nil), prefix...), hex.EncodeToString(account[:])...)
}

func epochKey(prefix []byte, epoch uint64) []byte {
	return append(append([]byte(nil), prefix...), fmt.Sprintf("%020d", epoch)...)
}

// --- Registry records ---

func (m *Manager) NodeIdentity(nodeID [32]byte) (*registry.NodeIdentity, bool, error) {
	identity := new(registry.NodeIdentity)
	ok, err := m.kvGet(nodeKey(nodeIdentityPrefix, nodeID), identity)
	if !ok || err != nil {
		return nil, false, err
	}
	return identity, true, nil
}

func (m *Manager) PutNodeIdentity(identity *registry.NodeIdentity) error {
	if identity == nil {
		return errors.New("state: identity required")
	}
	return m.kvPut(nodeKey(nodeIdentityPrefix, identity.NodeID), identity)
}

func (m *Manager) NodeState(nodeID [32]byte) (*registry.NodeState, bool, error) {
	ns := new(registry.NodeState)
	ok, err := m.kvGet(nodeKey(nodeStatePrefix, nodeID), ns)
	if !ok || err != nil {
		return nil, false, err
	}
	if ns.StakedAmount == nil {
		ns.StakedAmount = big.NewInt(0)
	}
	if ns.RewardsEarned == nil {
		ns.RewardsEarned = big.NewInt(0)
	}
	return ns, true, nil
}

func (m *Manager) PutNodeState(nodeID [32]byte, ns *registry.NodeState) error {
	if ns == nil {
		return errors.New("state: node state required")
	}
	return m.kvPut(nodeKey(nodeStatePrefix, nodeID), ns)
}

func ownerNodeKey(owner [20]byte, nodeID [32]byte) []byte {
	key := append(append([]byte(nil), ownerIndexPrefix...), hex.EncodeToString(owner[:])...)
	key = append(key, '/')
	return append(key, hex.EncodeToString(nodeID[:])...)
}

// IndexOwnerNode records that owner registered nodeID. The index is permanent
// like the identity record itself.
func (m *Manager) IndexOwnerNode(owner [20]byte, nodeID [32]byte) error {
	return m.db.Put(ownerNodeKey(owner, nodeID), []byte{0x01})
}

// OwnerNodes lists every node id ever registered by the owner.
func (m *Manager) OwnerNodes(owner [20]byte) ([][32]byte, error) {
	prefix := append(append([]byte(nil), ownerIndexPrefix...), hex.EncodeToString(owner[:])...)
	prefix = append(prefix, '/')
	var out [][32]byte
	var decodeErr error
	err := m.db.Iterate(prefix, func(key, _ []byte) bool {
		encoded := key[len(prefix):]
		raw, err := hex.DecodeString(string(encoded))
		if err != nil || len(raw) != 32 {
			decodeErr = fmt.Errorf("state: corrupt owner index key %q", key)
			return false
		}
		var id [32]byte
		copy(id[:], raw)
		out = append(out, id)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, decodeErr
}

func (m *Manager) ActiveNodeCount() (uint64, error) {
	var count uint64
	if _, err := m.kvGet(activeCountKey, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (m *Manager) SetActiveNodeCount(count uint64) error {
	return m.kvPut(activeCountKey, count)
}

// NextInstanceNumber increments and returns the per-owner registration
// counter used for NodeIdentity.InstanceNumber.
func (m *Manager) NextInstanceNumber(owner [20]byte) (uint64, error) {
	key := accountKey(instanceCounterPrefix, owner)
	var current uint64
	if _, err := m.kvGet(key, &current); err != nil {
		return 0, err
	}
	next := current + 1
	if err := m.kvPut(key, next); err != nil {
		return 0, err
	}
	return next, nil
}

// --- Proof records ---

// HasProof reports membership in the permanent proof-dedup set.
func (m *Manager) HasProof(key [32]byte) (bool, error) {
	return m.db.Has(nodeKey(proofRecordPrefix, key))
}

// PutProof records an accepted proof permanently.
func (m *Manager) PutProof(key [32]byte) error {
	return m.db.Put(nodeKey(proofRecordPrefix, key), []byte{0x01})
}

func (m *Manager) NodeProofState(nodeID [32]byte) (*proof.NodeProofState, error) {
	ps := new(proof.NodeProofState)
	if _, err := m.kvGet(nodeKey(proofStatePrefix, nodeID), ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (m *Manager) PutNodeProofState(nodeID [32]byte, ps *proof.NodeProofState) error {
	if ps == nil {
		return errors.New("state: proof state required")
	}
	return m.kvPut(nodeKey(proofStatePrefix, nodeID), ps)
}

// --- Settlement records ---

func (m *Manager) Pool(epoch uint64) (*settlement.DailyPool, bool, error) {
	pool := new(settlement.DailyPool)
	ok, err := m.kvGet(epochKey(poolPrefix, epoch), pool)
	if !ok || err != nil {
		return nil, false, err
	}
	if pool.PoolBudget == nil {
		pool.PoolBudget = big.NewInt(0)
	}
	return pool, true, nil
}

func (m *Manager) PutPool(pool *settlement.DailyPool) error {
	if pool == nil {
		return errors.New("state: pool required")
	}
	return m.kvPut(epochKey(poolPrefix, pool.Epoch), pool)
}

// LiveEpoch returns the epoch id of the currently open pool, if any.
func (m *Manager) LiveEpoch() (uint64, bool, error) {
	var epoch uint64
	ok, err := m.kvGet(liveEpochKey, &epoch)
	return epoch, ok, err
}

func (m *Manager) SetLiveEpoch(epoch uint64) error {
	return m.kvPut(liveEpochKey, epoch)
}

func statsKey(epoch uint64, nodeID [32]byte) []byte {
	key := epochKey(statsPrefix, epoch)
	key = append(key, '/')
	return append(key, hex.EncodeToString(nodeID[:])...)
}

func (m *Manager) NodeDailyStats(epoch uint64, nodeID [32]byte) (*settlement.NodeDailyStats, bool, error) {
	stats := new(settlement.NodeDailyStats)
	ok, err := m.kvGet(statsKey(epoch, nodeID), stats)
	if !ok || err != nil {
		return nil, false, err
	}
	return stats, true, nil
}

func (m *Manager) PutNodeDailyStats(epoch uint64, nodeID [32]byte, stats *settlement.NodeDailyStats) error {
	if stats == nil {
		return errors.New("state: stats required")
	}
	return m.kvPut(statsKey(epoch, nodeID), stats)
}

// EpochStats returns every node's stats for the epoch, ordered by node id.
func (m *Manager) EpochStats(epoch uint64) ([]settlement.MissedEntry, error) {
	prefix := epochKey(statsPrefix, epoch)
	prefix = append(prefix, '/')
	var out []settlement.MissedEntry
	var walkErr error
	err := m.db.Iterate(prefix, func(key, value []byte) bool {
		encoded := key[len(prefix):]
		raw, err := hex.DecodeString(string(encoded))
		if err != nil || len(raw) != 32 {
			walkErr = fmt.Errorf("state: corrupt stats key %q", key)
			return false
		}
		stats := new(settlement.NodeDailyStats)
		if err := json.Unmarshal(value, stats); err != nil {
			walkErr = fmt.Errorf("state: decode stats %q: %w", key, err)
			return false
		}
		var id [32]byte
		copy(id[:], raw)
		out = append(out, settlement.MissedEntry{NodeID: id, Stats: stats})
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, walkErr
}

func (m *Manager) MissedDistribution(epoch uint64) (*settlement.MissedDistribution, bool, error) {
	dist := new(settlement.MissedDistribution)
	ok, err := m.kvGet(epochKey(missedPrefix, epoch), dist)
	if !ok || err != nil {
		return nil, false, err
	}
	return dist, true, nil
}

func (m *Manager) PutMissedDistribution(dist *settlement.MissedDistribution) error {
	if dist == nil {
		return errors.New("state: distribution required")
	}
	return m.kvPut(epochKey(missedPrefix, dist.Epoch), dist)
}

// --- Reputation records ---

func (m *Manager) ReputationRecord(owner [20]byte) (*reputation.Record, bool, error) {
	record := new(reputation.Record)
	ok, err := m.kvGet(accountKey(reputationPrefix, owner), record)
	if !ok || err != nil {
		return nil, false, err
	}
	return record, true, nil
}

func (m *Manager) PutReputationRecord(owner [20]byte, record *reputation.Record) error {
	if record == nil {
		return errors.New("state: record required")
	}
	return m.kvPut(accountKey(reputationPrefix, owner), record)
}

func (m *Manager) PutViolationReport(report *reputation.ViolationReport) error {
	if report == nil {
		return errors.New("state: report required")
	}
	key := append(append([]byte(nil), violationPrefix...), report.ID...)
	return m.kvPut(key, report)
}

// --- Bank balances (bank.State) ---

func (m *Manager) Balance(account [20]byte) (*big.Int, error) {
	var encoded string
	ok, err := m.kvGet(accountKey(balancePrefix, account), &encoded)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	value, valid := new(big.Int).SetString(encoded, 10)
	if !valid {
		return nil, fmt.Errorf("state: corrupt balance for %x", account)
	}
	return value, nil
}

func (m *Manager) SetBalance(account [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("state: balance must be non-negative")
	}
	return m.kvPut(accountKey(balancePrefix, account), amount.String())
}

// --- Parameter store (params.StoreState) ---

func (m *Manager) ParamStoreSet(name string, value []byte) error {
	key := append(append([]byte(nil), paramPrefix...), name...)
	return m.db.Put(key, value)
}

func (m *Manager) ParamStoreGet(name string) ([]byte, bool, error) {
	key := append(append([]byte(nil), paramPrefix...), name...)
	raw, err := m.db.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

// GenesisApplied reports whether the one-time genesis seed has run.
func (m *Manager) GenesisApplied() (bool, error) {
	return m.db.Has(genesisKey)
}

// SetGenesisApplied marks the genesis seed as done.
func (m *Manager) SetGenesisApplied() error {
	return m.db.Put(genesisKey, []byte{1})
}
