package game

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/danmuck/whackctl/internal/gate"
	"github.com/danmuck/whackctl/internal/grid"
	"github.com/danmuck/whackctl/internal/observability"
	"github.com/danmuck/whackctl/internal/score"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Status is a non-blocking view of a running round.
type Status struct {
	Cells []grid.CellView
	score.Stats
	Over   bool
	Reason Reason
	// Active is the number of admission permits currently held.
	Active int
}

// FinalStats is reported once every worker has joined.
type FinalStats struct {
	GameID string
	score.Stats
	Reason     Reason
	Elapsed    time.Duration
	PeakActive int
	Cycles     uint64
}

// Handle is the driver's view of a started round.
type Handle struct {
	id      string
	cfg     Config
	grid    *grid.Grid
	gate    *gate.Gate
	score   *score.Scoreboard
	flag    *Flag
	queue   *Queue
	tracker *Tracker
	moles   []*Mole
	group   errgroup.Group
	started time.Time

	waitOnce sync.Once
	final    FinalStats
	waitErr  error
}

// Start validates cfg, allocates the shared state, and spawns the tracker,
// one worker per mole, and the game loop. Nothing is spawned on error.
func Start(ctx context.Context, cfg Config) (*Handle, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g, err := grid.New(cfg.GridHeight, cfg.GridWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceInit, err)
	}
	gt, err := gate.New(cfg.MaxActiveMoles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceInit, err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	flag := NewFlag(ctx)
	sb := score.New()
	queue := NewQueue(cfg.InputBuffer, flag.Done())
	h := &Handle{
		id:      uuid.NewString(),
		cfg:     cfg,
		grid:    g,
		gate:    gt,
		score:   sb,
		flag:    flag,
		queue:   queue,
		tracker: NewTracker(g, sb, flag, queue),
		started: time.Now(),
	}
	deps := moleDeps{grid: g, gate: gt, score: sb, flag: flag}
	for i := 0; i < cfg.NumMoles; i++ {
		h.moles = append(h.moles, newMole(i, cfg, seed, deps))
	}

	observability.RegisterMetrics()
	h.spawn("tracker", h.tracker.Run)
	for _, m := range h.moles {
		h.spawn(m.Name(), m.Run)
	}
	h.spawn("loop", h.loop)

	log.Info().
		Str("game_id", h.id).
		Int("height", cfg.GridHeight).
		Int("width", cfg.GridWidth).
		Int("moles", cfg.NumMoles).
		Int("max_active", cfg.MaxActiveMoles).
		Str("up", cfg.UpDuration.String()).
		Str("down", cfg.DownDuration.String()).
		Uint64("win_target", cfg.WinTarget).
		Msg("game.Start ready")
	return h, nil
}

// spawn runs fn under the join group. A panic or error ends the round for
// everyone; the grid mutex is released by its own deferred unlock.
func (h *Handle) spawn(name string, fn func(context.Context) error) {
	h.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Worker: name, Value: r, Stack: debug.Stack()}
				log.Error().Str("game_id", h.id).Str("worker", name).Interface("panic", r).Msg("game.Handle.spawn worker panic")
			}
			if err != nil {
				h.flag.Set(ReasonFault)
			}
		}()
		return fn(h.flag.Context())
	})
}

// loop is the orchestrating tick: it evaluates the win condition until the
// flag is set.
func (h *Handle) loop(ctx context.Context) error {
	ticker := time.NewTicker(h.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.checkWin()
		}
	}
}

// checkWin sets the flag once hits reach the target; repeated or racing
// calls after that are no-ops.
func (h *Handle) checkWin() bool {
	if h.cfg.WinTarget == 0 || h.score.Hits() < h.cfg.WinTarget {
		return false
	}
	if !h.flag.Set(ReasonWin) {
		return false
	}
	log.Info().Str("game_id", h.id).Uint64("hits", h.score.Hits()).Msg("game.Handle.checkWin target reached")
	return true
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) Config() Config {
	return h.cfg
}

// Poll is safe to call repeatedly from a render loop. It also runs the win check.
func (h *Handle) Poll() Status {
	h.checkWin()
	return Status{
		Cells:  h.grid.Snapshot(),
		Stats:  h.score.Snapshot(),
		Over:   h.flag.IsSet(),
		Reason: h.flag.Reason(),
		Active: h.gate.Held(),
	}
}

// SubmitInput feeds one token to the tracker. It returns ErrGameOver once the
// round has ended.
func (h *Handle) SubmitInput(token rune) error {
	return h.queue.Submit(token)
}

// Stop ends the round without a quit token.
func (h *Handle) Stop() {
	if h.flag.Set(ReasonCancelled) {
		log.Info().Str("game_id", h.id).Msg("game.Handle.Stop")
	}
}

// Done is closed once the termination flag is set. Workers may still be exiting.
func (h *Handle) Done() <-chan struct{} {
	return h.flag.Done()
}

// Wait blocks until every spawned worker has returned and reports the final
// stats. It is safe to call more than once; the error is a *PanicError when a
// worker panicked.
func (h *Handle) Wait() (FinalStats, error) {
	h.waitOnce.Do(func() {
		h.waitErr = h.group.Wait()
		// parent cancellation reaches the flag asynchronously
		h.flag.Set(ReasonCancelled)

		var cycles uint64
		for _, m := range h.moles {
			cycles += m.Cycles()
		}
		h.final = FinalStats{
			GameID:     h.id,
			Stats:      h.score.Snapshot(),
			Reason:     h.flag.Reason(),
			Elapsed:    time.Since(h.started),
			PeakActive: h.gate.Peak(),
			Cycles:     cycles,
		}
		observability.SetMolesUp(0)
		observability.RecordGameFinished(h.final.Reason.String(), h.final.Elapsed)

		event := log.Info()
		if h.waitErr != nil {
			event = log.Error().Err(h.waitErr)
		}
		event.
			Str("game_id", h.id).
			Str("reason", h.final.Reason.String()).
			Uint64("hits", h.final.Hits).
			Uint64("misses", h.final.Misses).
			Uint64("wasted", h.final.WastedInputs).
			Dur("elapsed", h.final.Elapsed).
			Msg("game.Handle.Wait joined")
	})
	return h.final, h.waitErr
}

// Phases reports each mole's current phase, indexed by mole id.
func (h *Handle) Phases() []Phase {
	out := make([]Phase, len(h.moles))
	for i, m := range h.moles {
		out[i] = m.Phase()
	}
	return out
}
