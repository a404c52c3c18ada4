package uptime

import (
	"errors"

	"relaynet/native/registry"
)

// HeartbeatTimeoutSeconds bounds the interval credited between two
// consecutive heartbeats. A longer gap counts as offline time and accrues
// nothing, so a node cannot claim uptime across an outage by sending one
// heartbeat before and one long after.
const HeartbeatTimeoutSeconds = 300

// ErrHeartbeatOldTimestamp indicates a non-monotonic timestamp submission.
var ErrHeartbeatOldTimestamp = errors.New("uptime: heartbeat timestamp must not decrease")

// Result reports what a single heartbeat changed.
type Result struct {
	// Delta is the number of seconds credited to daily and total uptime.
	// Zero when the gap exceeded HeartbeatTimeoutSeconds.
	Delta uint64
	// EpochReset is true when the daily counter was reset because the epoch
	// advanced past the node's last recorded reset.
	EpochReset bool
}

// ApplyHeartbeat folds one heartbeat at time now into the node state. The
// daily counter resets exactly once when the epoch id advances, before any
// credit for this interval is applied. Callers persist the mutated state only
// on success.
func ApplyHeartbeat(state *registry.NodeState, now int64) (Result, error) {
	if state == nil {
		return Result{}, errors.New("uptime: node state required")
	}
	if now <= 0 {
		return Result{}, errors.New("uptime: heartbeat timestamp must be positive")
	}
	if now < state.LastHeartbeat {
		return Result{}, ErrHeartbeatOldTimestamp
	}

	result := Result{}
	epoch := EpochOf(now)
	if epoch != state.LastEpochReset {
		state.DailyUptimeSeconds = 0
		state.LastEpochReset = epoch
		result.EpochReset = true
	}

	if state.LastHeartbeat > 0 {
		gap := uint64(now - state.LastHeartbeat)
		if gap <= HeartbeatTimeoutSeconds {
			result.Delta = gap
			state.DailyUptimeSeconds += gap
			state.TotalUptimeSeconds += gap
		}
	}
	state.LastHeartbeat = now
	return result, nil
}

// Online reports whether a node counts as online at time now given its last
// accepted heartbeat.
func Online(lastHeartbeat, now int64) bool {
	if lastHeartbeat <= 0 || now < lastHeartbeat {
		return false
	}
	return now-lastHeartbeat <= HeartbeatTimeoutSeconds
}
