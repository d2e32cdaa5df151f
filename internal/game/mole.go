package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/danmuck/whackctl/internal/gate"
	"github.com/danmuck/whackctl/internal/grid"
	"github.com/danmuck/whackctl/internal/observability"
	"github.com/danmuck/whackctl/internal/score"
	"github.com/rs/zerolog/log"
)

// Phase is a mole's position in its cycle.
type Phase int32

const (
	PhaseWaiting Phase = iota
	PhaseSeeking
	PhaseUp
	PhaseVacating
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseSeeking:
		return "seeking"
	case PhaseUp:
		return "up"
	case PhaseVacating:
		return "vacating"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Outcome of one up window.
type Outcome string

const (
	OutcomeHit  Outcome = observability.OutcomeHit
	OutcomeMiss Outcome = observability.OutcomeMiss
)

// Mole is one worker. It owns only its symbol and, while up, the claimed cell.
type Mole struct {
	id     int
	symbol rune
	grid   *grid.Grid
	gate   *gate.Gate
	score  *score.Scoreboard
	flag   *Flag
	up     DurationRange
	down   DurationRange
	poll   time.Duration
	rng    *rand.Rand

	phase  atomic.Int32
	cycles atomic.Uint64
	hits   atomic.Uint64
	misses atomic.Uint64
}

type moleDeps struct {
	grid  *grid.Grid
	gate  *gate.Gate
	score *score.Scoreboard
	flag  *Flag
}

func newMole(id int, cfg Config, seed uint64, deps moleDeps) *Mole {
	return &Mole{
		id:     id,
		symbol: Symbol(id),
		grid:   deps.grid,
		gate:   deps.gate,
		score:  deps.score,
		flag:   deps.flag,
		up:     cfg.UpDuration,
		down:   cfg.DownDuration,
		poll:   cfg.PollInterval,
		rng:    rand.New(rand.NewPCG(seed, uint64(id))),
	}
}

func (m *Mole) Name() string {
	return fmt.Sprintf("mole.%c", m.symbol)
}

func (m *Mole) Symbol() rune {
	return m.symbol
}

func (m *Mole) Phase() Phase {
	return Phase(m.phase.Load())
}

// Cycles counts completed up windows.
func (m *Mole) Cycles() uint64 {
	return m.cycles.Load()
}

func (m *Mole) setPhase(p Phase) {
	m.phase.Store(int32(p))
}

// Run loops through waiting, seeking, up, and vacating until the flag is set.
func (m *Mole) Run(ctx context.Context) error {
	defer m.setPhase(PhaseDone)
	for {
		if m.flag.IsSet() || ctx.Err() != nil {
			return nil
		}
		if !m.cycle(ctx) {
			log.Debug().
				Str("mole", m.Name()).
				Uint64("cycles", m.Cycles()).
				Uint64("hits", m.hits.Load()).
				Uint64("misses", m.misses.Load()).
				Msg("game.Mole.Run done")
			return nil
		}
	}
}

// cycle runs one full iteration and reports whether the mole should continue.
func (m *Mole) cycle(ctx context.Context) bool {
	m.setPhase(PhaseWaiting)
	if !sleep(ctx, m.down.Draw(m.rng)) {
		return false
	}

	m.setPhase(PhaseSeeking)
	if err := m.gate.Acquire(ctx); err != nil {
		return false
	}
	defer func() {
		m.gate.Release()
		observability.SetMolesUp(m.gate.Held())
	}()
	observability.SetMolesUp(m.gate.Held())

	pos, ok := m.claim(ctx)
	if !ok {
		return false
	}
	defer m.vacate(pos)

	m.setPhase(PhaseUp)
	m.hold(ctx, pos)
	return ctx.Err() == nil
}

// claim re-samples a random cell until one is free. While this mole holds a
// permit at most MaxActiveMoles-1 other cells are occupied, so a free cell
// always exists.
func (m *Mole) claim(ctx context.Context) (grid.Position, bool) {
	for {
		if ctx.Err() != nil {
			return grid.Position{}, false
		}
		pos := grid.Position{
			Row: m.rng.IntN(m.grid.Height()),
			Col: m.rng.IntN(m.grid.Width()),
		}
		if m.grid.TryClaim(pos.Row, pos.Col, m.symbol) {
			observability.RecordClaimAttempt(true)
			return pos, true
		}
		observability.RecordClaimAttempt(false)
	}
}

// hold keeps the cell until the up window ends, the cell is cleared by a hit,
// or ctx is done.
func (m *Mole) hold(ctx context.Context, pos grid.Position) {
	timer := time.NewTimer(m.up.Draw(m.rng))
	defer timer.Stop()
	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			return
		case <-ticker.C:
			if !m.grid.Holds(pos.Row, pos.Col, m.symbol) {
				return
			}
		}
	}
}

// vacate resolves the up window: a cell still holding this symbol is a miss,
// an already cleared cell was scored as a hit by the tracker.
func (m *Mole) vacate(pos grid.Position) Outcome {
	m.setPhase(PhaseVacating)
	m.cycles.Add(1)
	if m.grid.Vacate(pos.Row, pos.Col, m.symbol) {
		m.misses.Add(1)
		m.score.Miss()
		observability.RecordMoleOutcome(observability.OutcomeMiss)
		return OutcomeMiss
	}
	m.hits.Add(1)
	return OutcomeHit
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
