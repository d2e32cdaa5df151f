package game

import (
	"context"

	"github.com/danmuck/whackctl/internal/grid"
	"github.com/danmuck/whackctl/internal/observability"
	"github.com/danmuck/whackctl/internal/score"
	"github.com/rs/zerolog/log"
)

// InputResult classifies one consumed token.
type InputResult string

const (
	InputHit    InputResult = observability.InputHit
	InputWasted InputResult = observability.InputWasted
	InputQuit   InputResult = observability.InputQuit
)

// Tracker consumes input tokens, clears hit cells, and scores them.
type Tracker struct {
	grid  *grid.Grid
	score *score.Scoreboard
	flag  *Flag
	src   Source
}

func NewTracker(g *grid.Grid, sb *score.Scoreboard, flag *Flag, src Source) *Tracker {
	return &Tracker{grid: g, score: sb, flag: flag, src: src}
}

// Run reads tokens until the quit token arrives or ctx is done. The source
// read is the only blocking point and no lock is held across it.
func (t *Tracker) Run(ctx context.Context) error {
	for {
		tok, err := t.src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if t.Handle(tok) == InputQuit {
			return nil
		}
	}
}

// Handle scores a single token. Every cell holding the token is cleared and
// counted as a hit; a token matching nothing is wasted.
func (t *Tracker) Handle(tok rune) InputResult {
	if tok == QuitToken {
		if t.flag.Set(ReasonQuit) {
			log.Info().Msg("game.Tracker.Handle quit requested")
		}
		observability.RecordInput(observability.InputQuit, 1)
		return InputQuit
	}

	cleared := t.grid.ClearMatching(tok)
	if len(cleared) == 0 {
		t.score.Waste()
		observability.RecordInput(observability.InputWasted, 1)
		log.Debug().Str("token", string(tok)).Msg("game.Tracker.Handle wasted")
		return InputWasted
	}

	total := t.score.AddHits(uint64(len(cleared)))
	observability.RecordInput(observability.InputHit, len(cleared))
	for range cleared {
		observability.RecordMoleOutcome(observability.OutcomeHit)
	}
	log.Debug().
		Str("token", string(tok)).
		Int("cleared", len(cleared)).
		Uint64("hits", total).
		Msg("game.Tracker.Handle hit")
	return InputHit
}
