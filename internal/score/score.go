// Package score holds the monotonic game counters and the ratios derived from them.
package score

import (
	"fmt"
	"sync/atomic"
)

// Scoreboard counters only ever increase. Each counter is independently atomic;
// no ordering between hits and misses is implied.
type Scoreboard struct {
	hits   atomic.Uint64
	misses atomic.Uint64
	wasted atomic.Uint64
}

func New() *Scoreboard {
	return &Scoreboard{}
}

// AddHits records n hits and returns the new total.
func (s *Scoreboard) AddHits(n uint64) uint64 {
	return s.hits.Add(n)
}

func (s *Scoreboard) Miss() uint64 {
	return s.misses.Add(1)
}

func (s *Scoreboard) Waste() uint64 {
	return s.wasted.Add(1)
}

func (s *Scoreboard) Hits() uint64 {
	return s.hits.Load()
}

func (s *Scoreboard) Snapshot() Stats {
	return Stats{
		Hits:         s.hits.Load(),
		Misses:       s.misses.Load(),
		WastedInputs: s.wasted.Load(),
	}
}

type Stats struct {
	Hits         uint64
	Misses       uint64
	WastedInputs uint64
}

// Inputs is the number of non-quit tokens that were scored.
// A token clearing several cells counts once per cleared cell.
func (s Stats) Inputs() uint64 {
	return s.Hits + s.WastedInputs
}

// Accuracy is hits / (hits + wasted inputs). ok is false before any input.
func (s Stats) Accuracy() (float64, bool) {
	return ratio(s.Hits, s.Hits+s.WastedInputs)
}

// WhackRate is hits / (hits + misses). ok is false before any up window resolved.
func (s Stats) WhackRate() (float64, bool) {
	return ratio(s.Hits, s.Hits+s.Misses)
}

func ratio(num, den uint64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}

// FormatRatio renders a ratio as a percentage, or "n/a" when undefined.
func FormatRatio(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v*100)
}
