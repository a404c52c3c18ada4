package core

import (
	"errors"
	"math/big"
	"sync"
	"time"

	"relaynet/core/state"
	"relaynet/core/types"
	"relaynet/native/bank"
	"relaynet/native/params"
	"relaynet/native/proof"
	"relaynet/native/registry"
	"relaynet/native/reputation"
	"relaynet/native/settlement"
	"relaynet/native/uptime"
	"relaynet/observability/metrics"
	"relaynet/storage"
)

// settlementEpoch maps a timestamp to its accounting epoch id.
func settlementEpoch(ts int64) uint64 {
	return uptime.EpochOf(ts)
}

// Engine is the sequential incentive-accounting state machine. Every public
// operation takes the engine mutex, so operations apply atomically and in
// total order; there is no internal parallelism.
type Engine struct {
	mu        sync.Mutex
	state     *state.Manager
	ledger    *bank.Ledger
	params    *params.Store
	admin     [20]byte
	hasAdmin  bool
	nowFn     func() int64
	lastNow   int64
	events    []types.Event
	telemetry *metrics.RelayMetrics
}

// NewEngine constructs an engine over the supplied database.
func NewEngine(db storage.Database) *Engine {
	manager := state.NewManager(db)
	return &Engine{
		state:     manager,
		ledger:    bank.NewLedger(manager),
		params:    params.NewStore(manager),
		nowFn:     func() int64 { return time.Now().Unix() },
		telemetry: metrics.Relay(),
	}
}

// SetAdmin configures the distinguished administrative caller.
func (e *Engine) SetAdmin(admin [20]byte) {
	e.mu.Lock()
	e.admin = admin
	e.hasAdmin = true
	e.mu.Unlock()
}

// SetNowFunc overrides the wall clock. Primarily leveraged in tests to
// provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	e.mu.Lock()
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
	} else {
		e.nowFn = now
	}
	e.mu.Unlock()
}

// now returns a monotonically non-decreasing timestamp.
func (e *Engine) now() int64 {
	ts := e.nowFn()
	if ts < e.lastNow {
		ts = e.lastNow
	}
	e.lastNow = ts
	return ts
}

func (e *Engine) appendEvent(evt *types.Event) {
	if evt == nil {
		return
	}
	e.events = append(e.events, *evt)
}

// Events returns the events accumulated since the last reset.
func (e *Engine) Events() []types.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]types.Event, len(e.events))
	copy(out, e.events)
	return out
}

// ResetEvents clears the accumulated event log.
func (e *Engine) ResetEvents() {
	e.mu.Lock()
	e.events = e.events[:0]
	e.mu.Unlock()
}

func (e *Engine) requireAdmin(caller [20]byte) error {
	if !e.hasAdmin {
		return ErrAdminNotSet
	}
	if caller != e.admin {
		return ErrUnauthorized
	}
	return nil
}

// InitGenesis seeds the adjustable parameters and the reward treasury on
// first start. Repeated calls are no-ops, so a restarting process can invoke
// it unconditionally.
func (e *Engine) InitGenesis(dailyBudget, baseReward *big.Int, floors registry.MinimumStakes, treasury *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	applied, err := e.state.GenesisApplied()
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	if err := e.params.SetDailyBudget(dailyBudget); err != nil {
		return err
	}
	if err := e.params.SetBaseRewardPerMessage(baseReward); err != nil {
		return err
	}
	if err := e.params.SetMinimumStakes(floors); err != nil {
		return err
	}
	if treasury != nil && treasury.Sign() > 0 {
		if err := e.ledger.Mint(bank.RewardTreasury, treasury); err != nil {
			return err
		}
	}
	return e.state.SetGenesisApplied()
}

// ensureEpoch archives the live pool when the epoch id has advanced and
// returns the current epoch. It runs at the top of every state-mutating
// operation; there is no background scheduler.
func (e *Engine) ensureEpoch(now int64) (uint64, error) {
	current := settlementEpoch(now)
	live, ok, err := e.state.LiveEpoch()
	if err != nil {
		return 0, err
	}
	if !ok {
		return current, e.state.SetLiveEpoch(current)
	}
	if live >= current {
		return current, nil
	}
	pool, exists, err := e.state.Pool(live)
	if err != nil {
		return 0, err
	}
	if exists && !pool.Settled {
		pool.Settled = true
		if err := e.state.PutPool(pool); err != nil {
			return 0, err
		}
	}
	return current, e.state.SetLiveEpoch(current)
}

// livePool returns the pool for the current epoch, opening it with the
// configured daily budget on first use.
func (e *Engine) livePool(epoch uint64) (*settlement.DailyPool, error) {
	pool, ok, err := e.state.Pool(epoch)
	if err != nil {
		return nil, err
	}
	if ok {
		return pool, nil
	}
	budget, err := e.params.DailyBudget()
	if err != nil {
		return nil, err
	}
	pool = &settlement.DailyPool{Epoch: epoch, PoolBudget: budget}
	e.appendEvent(settlement.NewPoolOpenedEvent(epoch, budget))
	return pool, nil
}

func (e *Engine) isBlacklisted(owner [20]byte) (bool, error) {
	record, ok, err := e.state.ReputationRecord(owner)
	if err != nil {
		return false, err
	}
	return ok && record.Blacklisted, nil
}

// ownerHasActiveNode reports whether the account owns at least one active
// node. This is the "active identity" test applied to proof senders and
// violation reporters.
func (e *Engine) ownerHasActiveNode(owner [20]byte) (bool, error) {
	nodes, err := e.state.OwnerNodes(owner)
	if err != nil {
		return false, err
	}
	for _, nodeID := range nodes {
		identity, ok, err := e.state.NodeIdentity(nodeID)
		if err != nil {
			return false, err
		}
		if ok && identity.Active {
			return true, nil
		}
	}
	return false, nil
}

// loadOwnedNode resolves a node and enforces ownership and activity.
func (e *Engine) loadOwnedNode(caller [20]byte, nodeID [32]byte) (*registry.NodeIdentity, *registry.NodeState, error) {
	identity, ok, err := e.state.NodeIdentity(nodeID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, registry.ErrUnknownNode
	}
	if identity.Owner != caller {
		return nil, nil, registry.ErrNotOwner
	}
	if !identity.Active {
		return nil, nil, registry.ErrNotActive
	}
	ns, ok, err := e.state.NodeState(nodeID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, registry.ErrUnknownNode
	}
	return identity, ns, nil
}

// --- Registry operations ---

// Register creates a node identity and locks the minimum stake for the
// requested tier from the caller.
func (e *Engine) Register(caller [20]byte, nodeID, fingerprint [32]byte, endpoint string, storageMB uint64, requestedTier registry.Tier) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	epoch, err := e.ensureEpoch(now)
	if err != nil {
		return err
	}
	if !requestedTier.Valid() {
		return registry.ErrInvalidTier
	}
	blacklisted, err := e.isBlacklisted(caller)
	if err != nil {
		return err
	}
	if blacklisted {
		return registry.ErrBlacklisted
	}
	if _, ok, err := e.state.NodeIdentity(nodeID); err != nil {
		return err
	} else if ok {
		return registry.ErrDuplicateNode
	}
	normalized, err := registry.NormalizeEndpoint(endpoint)
	if err != nil {
		return err
	}
	floors, err := e.params.MinimumStakes()
	if err != nil {
		return err
	}
	stake := floors.For(requestedTier)
	if err := e.ledger.Transfer(caller, bank.StakeVault, stake); err != nil {
		if errors.Is(err, bank.ErrInsufficientFunds) {
			return registry.ErrInsufficientStake
		}
		return err
	}

	instance, err := e.state.NextInstanceNumber(caller)
	if err != nil {
		return err
	}
	identity := &registry.NodeIdentity{
		NodeID:             nodeID,
		Owner:              caller,
		MachineFingerprint: fingerprint,
		InstanceNumber:     instance,
		RegisteredAt:       now,
		Active:             true,
	}
	ns := &registry.NodeState{
		Endpoint:          normalized,
		StakedAmount:      stake,
		Tier:              requestedTier,
		StorageCapacityMB: storageMB,
		LastHeartbeat:     now,
		LastEpochReset:    epoch,
		RewardsEarned:     big.NewInt(0),
	}
	if err := e.state.PutNodeIdentity(identity); err != nil {
		return err
	}
	if err := e.state.PutNodeState(nodeID, ns); err != nil {
		return err
	}
	if err := e.state.IndexOwnerNode(caller, nodeID); err != nil {
		return err
	}
	if _, ok, err := e.state.ReputationRecord(caller); err != nil {
		return err
	} else if !ok {
		if err := e.state.PutReputationRecord(caller, reputation.NewRecord()); err != nil {
			return err
		}
	}
	count, err := e.state.ActiveNodeCount()
	if err != nil {
		return err
	}
	if err := e.state.SetActiveNodeCount(count + 1); err != nil {
		return err
	}
	e.telemetry.SetActiveNodes(count + 1)
	e.appendEvent(registry.NewNodeRegisteredEvent(nodeID, caller, requestedTier, normalized))
	return nil
}

// Deactivate voluntarily retires a node and returns its stake to the owner.
// Calling twice fails with ErrNotActive.
func (e *Engine) Deactivate(caller [20]byte, nodeID [32]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	if _, err := e.ensureEpoch(now); err != nil {
		return err
	}
	identity, ns, err := e.loadOwnedNode(caller, nodeID)
	if err != nil {
		return err
	}
	// Settle the final uptime interval before retiring the node;
	// deactivateNode persists the state.
	if _, err := uptime.ApplyHeartbeat(ns, now); err != nil {
		return err
	}
	return e.deactivateNode(identity, ns, false)
}

// deactivateNode flips the identity inactive, zeroes the bonded stake and
// returns it to the owner. Callers hold the engine mutex.
func (e *Engine) deactivateNode(identity *registry.NodeIdentity, ns *registry.NodeState, forced bool) error {
	stake := ns.Stake()
	identity.Active = false
	ns.StakedAmount = big.NewInt(0)
	if err := e.state.PutNodeIdentity(identity); err != nil {
		return err
	}
	if err := e.state.PutNodeState(identity.NodeID, ns); err != nil {
		return err
	}
	if err := e.ledger.Transfer(bank.StakeVault, identity.Owner, stake); err != nil {
		return err
	}
	count, err := e.state.ActiveNodeCount()
	if err != nil {
		return err
	}
	if count > 0 {
		count--
	}
	if err := e.state.SetActiveNodeCount(count); err != nil {
		return err
	}
	e.telemetry.SetActiveNodes(count)
	e.appendEvent(registry.NewNodeDeactivatedEvent(identity.NodeID, identity.Owner, forced))
	return nil
}

// UpdateEndpoint replaces the node's endpoint string. Pure metadata update
// with no economic effect.
func (e *Engine) UpdateEndpoint(caller [20]byte, nodeID [32]byte, endpoint string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	identity, ns, err := e.loadOwnedNode(caller, nodeID)
	if err != nil {
		return err
	}
	normalized, err := registry.NormalizeEndpoint(endpoint)
	if err != nil {
		return err
	}
	ns.Endpoint = normalized
	if err := e.state.PutNodeState(nodeID, ns); err != nil {
		return err
	}
	e.appendEvent(registry.NewEndpointUpdatedEvent(nodeID, identity.Owner, normalized))
	return nil
}

// UpdateStorage updates the declared storage capacity and re-derives the tier.
func (e *Engine) UpdateStorage(caller [20]byte, nodeID [32]byte, storageMB uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	identity, ns, err := e.loadOwnedNode(caller, nodeID)
	if err != nil {
		return err
	}
	ns.StorageCapacityMB = storageMB
	if err := e.rederiveTier(identity, ns); err != nil {
		return err
	}
	return e.state.PutNodeState(nodeID, ns)
}

// rederiveTier recomputes the node's tier from its current uptime, storage
// and stake, emitting a transition event on change. Callers persist ns.
func (e *Engine) rederiveTier(identity *registry.NodeIdentity, ns *registry.NodeState) error {
	floors, err := e.params.MinimumStakes()
	if err != nil {
		return err
	}
	derived := registry.DeriveTier(ns.DailyUptimeSeconds, ns.StorageCapacityMB, ns.Stake(), floors)
	if derived != ns.Tier {
		e.appendEvent(registry.NewTierChangedEvent(identity.NodeID, identity.Owner, ns.Tier, derived))
		ns.Tier = derived
	}
	return nil
}

// --- Uptime ---

// Heartbeat folds one liveness beat into the node's uptime accounting and
// re-evaluates its tier.
func (e *Engine) Heartbeat(caller [20]byte, nodeID [32]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	epoch, err := e.ensureEpoch(now)
	if err != nil {
		return err
	}
	blacklisted, err := e.isBlacklisted(caller)
	if err != nil {
		return err
	}
	if blacklisted {
		return registry.ErrBlacklisted
	}
	identity, ns, err := e.loadOwnedNode(caller, nodeID)
	if err != nil {
		return err
	}
	if _, err := uptime.ApplyHeartbeat(ns, now); err != nil {
		return err
	}
	if err := e.rederiveTier(identity, ns); err != nil {
		return err
	}
	if err := e.state.PutNodeState(nodeID, ns); err != nil {
		return err
	}
	// Keep the epoch snapshot current for the redistribution pass.
	if stats, ok, err := e.state.NodeDailyStats(epoch, nodeID); err != nil {
		return err
	} else if ok {
		stats.UptimeSeconds = ns.DailyUptimeSeconds
		stats.Tier = ns.Tier
		if err := e.state.PutNodeDailyStats(epoch, nodeID, stats); err != nil {
			return err
		}
	}
	e.telemetry.IncHeartbeat()
	return nil
}

// --- Relay proofs ---

// SubmitRelayProof verifies one claimed relay event and credits it to the
// live epoch pool.
func (e *Engine) SubmitRelayProof(caller [20]byte, p *proof.RelayProof) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	epoch, err := e.ensureEpoch(now)
	if err != nil {
		return err
	}
	ps, err := e.state.NodeProofState(p.NodeID)
	if err != nil {
		return err
	}
	if err := e.applyProof(caller, p, now, epoch, ps, ps.LastAcceptedAt); err != nil {
		e.telemetry.IncProofRejected(err.Error())
		return err
	}
	return nil
}

// BatchResult reports the outcome of one entry in a batched submission.
type BatchResult struct {
	Index int
	Err   error
}

// SubmitRelayProofBatch validates up to MaxBatchSize proofs independently. A
// failing entry is skipped, not fatal; the call succeeds when at least one
// proof validates, and the visible nonce, cooldown and stat updates reflect
// only the valid subset. The cooldown reference for each node is its state at
// the start of the batch, so one call can carry several proofs for one node.
func (e *Engine) SubmitRelayProofBatch(caller [20]byte, proofs []*proof.RelayProof) ([]BatchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(proofs) == 0 {
		return nil, proof.ErrEmptyBatch
	}
	if len(proofs) > proof.MaxBatchSize {
		return nil, proof.ErrBatchTooLarge
	}
	now := e.now()
	epoch, err := e.ensureEpoch(now)
	if err != nil {
		return nil, err
	}
	baselines := make(map[[32]byte]int64)
	results := make([]BatchResult, 0, len(proofs))
	accepted := 0
	for i, p := range proofs {
		ps, err := e.state.NodeProofState(p.NodeID)
		if err != nil {
			return nil, err
		}
		baseline, seen := baselines[p.NodeID]
		if !seen {
			baseline = ps.LastAcceptedAt
			baselines[p.NodeID] = baseline
		}
		entryErr := e.applyProof(caller, p, now, epoch, ps, baseline)
		if entryErr != nil {
			e.telemetry.IncProofRejected(entryErr.Error())
		} else {
			accepted++
		}
		results = append(results, BatchResult{Index: i, Err: entryErr})
	}
	if accepted == 0 {
		return results, proof.ErrBatchAllRejected
	}
	return results, nil
}

// applyProof runs the full validation pipeline and, on success, applies every
// side effect of an accepted proof. Validation fully precedes mutation so a
// failed check leaves no partial state (the nonce in particular).
func (e *Engine) applyProof(caller [20]byte, p *proof.RelayProof, now int64, epoch uint64, ps *proof.NodeProofState, cooldownBaseline int64) error {
	if p == nil {
		return proof.ErrInvalidSignature
	}
	identity, ns, err := e.loadOwnedNode(caller, p.NodeID)
	if err != nil {
		return err
	}
	if !uptime.Online(ns.LastHeartbeat, now) {
		return proof.ErrOffline
	}
	blacklisted, err := e.isBlacklisted(caller)
	if err != nil {
		return err
	}
	if blacklisted {
		return registry.ErrBlacklisted
	}
	// Replay detection runs before the rate checks so an exact replay is
	// always reported as a duplicate, never masked as a cooldown violation.
	key := p.Key()
	if exists, err := e.state.HasProof(key); err != nil {
		return err
	} else if exists {
		return proof.ErrDuplicateProof
	}
	if err := proof.CheckCooldown(cooldownBaseline, now); err != nil {
		return err
	}
	if err := proof.CheckFreshness(p.Timestamp, now); err != nil {
		return err
	}
	senderActive, err := e.ownerHasActiveNode(p.Sender)
	if err != nil {
		return err
	}
	if !senderActive {
		return proof.ErrSenderNotRegistered
	}
	if err := proof.VerifySender(p, ps.NextNonce); err != nil {
		return err
	}

	// All checks passed; apply.
	if err := e.state.PutProof(key); err != nil {
		return err
	}
	ps.NextNonce++
	ps.LastAcceptedAt = now
	if err := e.state.PutNodeProofState(p.NodeID, ps); err != nil {
		return err
	}
	ns.MessagesRelayed++
	if err := e.state.PutNodeState(p.NodeID, ns); err != nil {
		return err
	}
	record, ok, err := e.state.ReputationRecord(identity.Owner)
	if err != nil {
		return err
	}
	if !ok {
		record = reputation.NewRecord()
	}
	record.RewardProof()
	if err := e.state.PutReputationRecord(identity.Owner, record); err != nil {
		return err
	}
	pool, err := e.livePool(epoch)
	if err != nil {
		return err
	}
	stats, ok, err := e.state.NodeDailyStats(epoch, p.NodeID)
	if err != nil {
		return err
	}
	if !ok {
		stats = &settlement.NodeDailyStats{}
	}
	pool.RecordRelay(stats, ns.Tier)
	stats.UptimeSeconds = ns.DailyUptimeSeconds
	if err := e.state.PutPool(pool); err != nil {
		return err
	}
	if err := e.state.PutNodeDailyStats(epoch, p.NodeID, stats); err != nil {
		return err
	}
	e.telemetry.IncProofAccepted()
	e.telemetry.SetEpochPoolWeighted(pool.TotalWeightedRelayEvents)
	e.appendEvent(proof.NewProofAcceptedEvent(p, epoch, ns.Tier.Multiplier()))
	return nil
}

// --- Settlement ---

// ClaimDailyReward pays out the caller's share of a past epoch's pool. The
// claim is idempotent: once attempted, a retry transfers nothing and returns
// ErrAlreadyClaimed.
func (e *Engine) ClaimDailyReward(caller [20]byte, nodeID [32]byte, epoch uint64) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	current, err := e.ensureEpoch(now)
	if err != nil {
		return nil, err
	}
	blacklisted, err := e.isBlacklisted(caller)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, registry.ErrBlacklisted
	}
	identity, ok, err := e.state.NodeIdentity(nodeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, registry.ErrUnknownNode
	}
	if identity.Owner != caller {
		return nil, registry.ErrNotOwner
	}
	if epoch >= current {
		return nil, settlement.ErrLiveEpoch
	}
	pool, ok, err := e.state.Pool(epoch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, settlement.ErrNoActivity
	}
	stats, ok, err := e.state.NodeDailyStats(epoch, nodeID)
	if err != nil {
		return nil, err
	}
	if !ok || stats.RelayCount == 0 {
		return nil, settlement.ErrNoActivity
	}
	if stats.Claimed {
		return nil, settlement.ErrAlreadyClaimed
	}
	baseReward, err := e.params.BaseRewardPerMessage()
	if err != nil {
		return nil, err
	}
	available, err := e.ledger.BalanceOf(bank.RewardTreasury)
	if err != nil {
		return nil, err
	}
	breakdown := settlement.ComputeReward(pool, stats, baseReward, available)

	stats.Claimed = true
	if err := e.state.PutNodeDailyStats(epoch, nodeID, stats); err != nil {
		return nil, err
	}
	if err := e.ledger.Transfer(bank.RewardTreasury, caller, breakdown.Reward); err != nil {
		return nil, err
	}
	if breakdown.Reward.Sign() > 0 {
		ns, ok, err := e.state.NodeState(nodeID)
		if err != nil {
			return nil, err
		}
		if ok {
			ns.RewardsEarned = new(big.Int).Add(ns.RewardsEarned, breakdown.Reward)
			if err := e.state.PutNodeState(nodeID, ns); err != nil {
				return nil, err
			}
		}
	}
	e.telemetry.IncRewardPaid(epoch)
	e.appendEvent(settlement.NewRewardClaimedEvent(nodeID, epoch, breakdown))
	return breakdown.Reward, nil
}

// DistributeMissedRewards runs the once-per-epoch missed-reward
// redistribution for a settled past epoch. Administrative trigger; repeated
// calls fail with ErrAlreadyDistributed.
func (e *Engine) DistributeMissedRewards(caller [20]byte, epoch uint64) (*settlement.MissedOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return nil, err
	}
	now := e.now()
	current, err := e.ensureEpoch(now)
	if err != nil {
		return nil, err
	}
	if epoch >= current {
		return nil, settlement.ErrLiveEpoch
	}
	pool, ok, err := e.state.Pool(epoch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, settlement.ErrUnknownEpoch
	}
	if _, ok, err := e.state.MissedDistribution(epoch); err != nil {
		return nil, err
	} else if ok {
		return nil, settlement.ErrAlreadyDistributed
	}
	baseReward, err := e.params.BaseRewardPerMessage()
	if err != nil {
		return nil, err
	}
	entries, err := e.state.EpochStats(epoch)
	if err != nil {
		return nil, err
	}
	outcome := settlement.ComputeMissedPool(pool, baseReward, entries)

	if outcome.PerRecipient.Sign() > 0 {
		total := new(big.Int).Mul(outcome.PerRecipient, big.NewInt(int64(len(outcome.Recipients))))
		available, err := e.ledger.BalanceOf(bank.RewardTreasury)
		if err != nil {
			return nil, err
		}
		if available.Cmp(total) < 0 {
			return nil, bank.ErrInsufficientFunds
		}
		for _, nodeID := range outcome.Recipients {
			identity, ok, err := e.state.NodeIdentity(nodeID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if err := e.ledger.Transfer(bank.RewardTreasury, identity.Owner, outcome.PerRecipient); err != nil {
				return nil, err
			}
			ns, ok, err := e.state.NodeState(nodeID)
			if err != nil {
				return nil, err
			}
			if ok {
				ns.RewardsEarned = new(big.Int).Add(ns.RewardsEarned, outcome.PerRecipient)
				if err := e.state.PutNodeState(nodeID, ns); err != nil {
					return nil, err
				}
			}
		}
	}
	dist := &settlement.MissedDistribution{
		Epoch:        epoch,
		Pool:         outcome.Pool,
		PerRecipient: outcome.PerRecipient,
		Recipients:   uint64(len(outcome.Recipients)),
		Distributed:  true,
	}
	if err := e.state.PutMissedDistribution(dist); err != nil {
		return nil, err
	}
	e.appendEvent(settlement.NewMissedDistributedEvent(epoch, outcome))
	return &outcome, nil
}

// --- Reputation & slashing ---

// ReportViolation lets any other registered account report a node. Crossing
// the violation threshold slashes the node automatically.
func (e *Engine) ReportViolation(reporter [20]byte, nodeID [32]byte, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	if _, err := e.ensureEpoch(now); err != nil {
		return err
	}
	identity, ok, err := e.state.NodeIdentity(nodeID)
	if err != nil {
		return err
	}
	if !ok {
		return registry.ErrUnknownNode
	}
	if identity.Owner == reporter {
		return reputation.ErrSelfReport
	}
	reporterBlacklisted, err := e.isBlacklisted(reporter)
	if err != nil {
		return err
	}
	if reporterBlacklisted {
		return registry.ErrBlacklisted
	}
	registered, err := e.ownerHasActiveNode(reporter)
	if err != nil {
		return err
	}
	if !registered {
		return reputation.ErrReporterUnknown
	}
	record, ok, err := e.state.ReputationRecord(identity.Owner)
	if err != nil {
		return err
	}
	if !ok {
		return reputation.ErrRecordNotFound
	}
	report, err := reputation.NewViolationReport(nodeID, identity.Owner, reporter, reason, now)
	if err != nil {
		return err
	}
	if err := e.state.PutViolationReport(report); err != nil {
		return err
	}
	slashNow := record.ApplyReport()
	if err := e.state.PutReputationRecord(identity.Owner, record); err != nil {
		return err
	}
	e.appendEvent(reputation.NewViolationReportedEvent(report, record))
	if slashNow && identity.Active {
		return e.slashNode(identity)
	}
	return nil
}

// Slash confiscates a share of the node's stake by administrative decision.
func (e *Engine) Slash(caller [20]byte, nodeID [32]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	identity, ok, err := e.state.NodeIdentity(nodeID)
	if err != nil {
		return err
	}
	if !ok {
		return registry.ErrUnknownNode
	}
	if !identity.Active {
		return registry.ErrNotActive
	}
	return e.slashNode(identity)
}

// slashNode confiscates the fixed stake share into the slash pool and
// force-deactivates the node when the remainder drops below the bronze
// minimum. Callers hold the engine mutex.
func (e *Engine) slashNode(identity *registry.NodeIdentity) error {
	ns, ok, err := e.state.NodeState(identity.NodeID)
	if err != nil {
		return err
	}
	if !ok {
		return registry.ErrUnknownNode
	}
	amount := reputation.SlashAmount(ns.Stake())
	if amount.Sign() > 0 {
		if err := e.ledger.Transfer(bank.StakeVault, bank.SlashPool, amount); err != nil {
			return err
		}
		ns.StakedAmount = new(big.Int).Sub(ns.Stake(), amount)
	}
	floors, err := e.params.MinimumStakes()
	if err != nil {
		return err
	}
	deactivated := ns.Stake().Cmp(floors.For(registry.TierBronze)) < 0
	e.telemetry.IncSlash()
	e.appendEvent(reputation.NewSlashedEvent(identity.NodeID, identity.Owner, amount, deactivated))
	if deactivated {
		return e.deactivateNode(identity, ns, true)
	}
	if err := e.rederiveTier(identity, ns); err != nil {
		return err
	}
	return e.state.PutNodeState(identity.NodeID, ns)
}

// Blacklist permanently bars the owner account and force-deactivates every
// node it owns. Irreversible.
func (e *Engine) Blacklist(caller [20]byte, owner [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	record, ok, err := e.state.ReputationRecord(owner)
	if err != nil {
		return err
	}
	if !ok {
		record = reputation.NewRecord()
	}
	if record.Blacklisted {
		return reputation.ErrAlreadyBlacklisted
	}
	record.Blacklisted = true
	if err := e.state.PutReputationRecord(owner, record); err != nil {
		return err
	}
	nodes, err := e.state.OwnerNodes(owner)
	if err != nil {
		return err
	}
	deactivated := 0
	for _, nodeID := range nodes {
		identity, ok, err := e.state.NodeIdentity(nodeID)
		if err != nil {
			return err
		}
		if !ok || !identity.Active {
			continue
		}
		ns, ok, err := e.state.NodeState(nodeID)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := e.deactivateNode(identity, ns, true); err != nil {
			return err
		}
		deactivated++
	}
	e.appendEvent(reputation.NewBlacklistedEvent(owner, deactivated))
	return nil
}

// --- Administrative parameters ---

// SetDailyBudget adjusts the budget applied to newly opened pools.
func (e *Engine) SetDailyBudget(caller [20]byte, value *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	return e.params.SetDailyBudget(value)
}

// SetBaseRewardPerMessage adjusts the flat per-message reward rate.
func (e *Engine) SetBaseRewardPerMessage(caller [20]byte, value *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	return e.params.SetBaseRewardPerMessage(value)
}

// SetMinimumStakes adjusts the per-tier stake floors.
func (e *Engine) SetMinimumStakes(caller [20]byte, floors registry.MinimumStakes) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	return e.params.SetMinimumStakes(floors)
}

// FundRewardTreasury mints value into the reward treasury.
func (e *Engine) FundRewardTreasury(caller [20]byte, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	return e.ledger.Mint(bank.RewardTreasury, amount)
}

// Credit mints value directly to an account. Reserved for genesis seeding
// and test fixtures.
func (e *Engine) Credit(caller [20]byte, account [20]byte, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	return e.ledger.Mint(account, amount)
}
