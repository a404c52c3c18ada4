package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// RelayMetrics exposes the engine's operational counters.
type RelayMetrics struct {
	heartbeatsAccepted prometheus.Counter
	proofsAccepted     prometheus.Counter
	proofsRejected     *prometheus.CounterVec
	rewardsPaid        *prometheus.CounterVec
	slashesApplied     prometheus.Counter
	activeNodes        prometheus.Gauge
	epochPool          prometheus.Gauge
}

var (
	relayOnce     sync.Once
	relayRegistry *RelayMetrics
)

// Relay returns the process-wide metrics registry, registering the collectors
// on first use.
func Relay() *RelayMetrics {
	relayOnce.Do(func() {
		relayRegistry = &RelayMetrics{
			heartbeatsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "relay_heartbeats_accepted_total",
				Help: "Count of accepted node heartbeats.",
			}),
			proofsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "relay_proofs_accepted_total",
				Help: "Count of verified relay proofs.",
			}),
			proofsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "relay_proofs_rejected_total",
				Help: "Count of rejected relay proofs by reason.",
			}, []string{"reason"}),
			rewardsPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "relay_rewards_paid_total",
				Help: "Count of reward payouts by epoch.",
			}, []string{"epoch"}),
			slashesApplied: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "relay_slashes_applied_total",
				Help: "Count of stake confiscations.",
			}),
			activeNodes: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "relay_active_nodes",
				Help: "Current number of active relay nodes.",
			}),
			epochPool: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "relay_epoch_pool_weighted_events",
				Help: "Weighted relay events recorded in the live epoch pool.",
			}),
		}
		prometheus.MustRegister(
			relayRegistry.heartbeatsAccepted,
			relayRegistry.proofsAccepted,
			relayRegistry.proofsRejected,
			relayRegistry.rewardsPaid,
			relayRegistry.slashesApplied,
			relayRegistry.activeNodes,
			relayRegistry.epochPool,
		)
	})
	return relayRegistry
}

func (m *RelayMetrics) IncHeartbeat() {
	if m == nil {
		return
	}
	m.heartbeatsAccepted.Inc()
}

func (m *RelayMetrics) IncProofAccepted() {
	if m == nil {
		return
	}
	m.proofsAccepted.Inc()
}

func (m *RelayMetrics) IncProofRejected(reason string) {
	if m == nil {
		return
	}
	m.proofsRejected.WithLabelValues(reason).Inc()
}

func (m *RelayMetrics) IncRewardPaid(epoch uint64) {
	if m == nil {
		return
	}
	m.rewardsPaid.WithLabelValues(strconv.FormatUint(epoch, 10)).Inc()
}

func (m *RelayMetrics) IncSlash() {
	if m == nil {
		return
	}
	m.slashesApplied.Inc()
}

func (m *RelayMetrics) SetActiveNodes(count uint64) {
	if m == nil {
		return
	}
	m.activeNodes.Set(float64(count))
}

func (m *RelayMetrics) SetEpochPoolWeighted(weighted uint64) {
	if m == nil {
		return
	}
	m.epochPool.Set(float64(weighted))
}
