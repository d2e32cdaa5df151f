package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeHit  = "hit"
	OutcomeMiss = "miss"

	InputHit    = "hit"
	InputWasted = "wasted"
	InputQuit   = "quit"
)

var (
	registerOnce sync.Once

	moleOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whackctl",
			Subsystem: "mole",
			Name:      "outcomes_total",
			Help:      "Resolved mole up windows by outcome.",
		},
		[]string{"outcome"},
	)
	inputTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whackctl",
			Subsystem: "input",
			Name:      "tokens_total",
			Help:      "Input tokens consumed by the tracker.",
		},
		[]string{"result"},
	)
	claimAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whackctl",
			Subsystem: "grid",
			Name:      "claim_attempts_total",
			Help:      "Cell claim attempts by moles holding a permit.",
		},
		[]string{"claimed"},
	)
	molesUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "whackctl",
			Subsystem: "gate",
			Name:      "moles_up",
			Help:      "Admission permits currently held.",
		},
	)
	gamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whackctl",
			Subsystem: "game",
			Name:      "finished_total",
			Help:      "Finished games by termination reason.",
		},
		[]string{"reason"},
	)
	gameDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "whackctl",
			Subsystem: "game",
			Name:      "duration_seconds",
			Help:      "Wall time from start to the last worker joining.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(moleOutcomes, inputTokens, claimAttempts, molesUp, gamesFinished, gameDuration)
	})
}

func RecordMoleOutcome(outcome string) {
	RegisterMetrics()
	moleOutcomes.WithLabelValues(outcome).Inc()
}

func RecordInput(result string, n int) {
	RegisterMetrics()
	inputTokens.WithLabelValues(result).Add(float64(n))
}

func RecordClaimAttempt(claimed bool) {
	RegisterMetrics()
	claimAttempts.WithLabelValues(strconv.FormatBool(claimed)).Inc()
}

func SetMolesUp(n int) {
	RegisterMetrics()
	molesUp.Set(float64(n))
}

func RecordGameFinished(reason string, duration time.Duration) {
	RegisterMetrics()
	gamesFinished.WithLabelValues(reason).Inc()
	gameDuration.Observe(duration.Seconds())
}

// WriteTextfile dumps the default registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	RegisterMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
