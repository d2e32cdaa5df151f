package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/danmuck/whackctl/internal/grid"
)

// Alphabet holds the mole symbols; mole i owns Alphabet[i].
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// QuitToken ends the game when submitted. It is never a mole symbol.
const QuitToken = 'Q'

// DurationRange is an inclusive [Min, Max] interval for randomized waits.
type DurationRange struct {
	Min time.Duration
	Max time.Duration
}

// Fixed returns a range that always draws d.
func Fixed(d time.Duration) DurationRange {
	return DurationRange{Min: d, Max: d}
}

func (r DurationRange) Validate() error {
	if r.Min < 0 {
		return fmt.Errorf("negative minimum %v", r.Min)
	}
	if r.Max < r.Min {
		return fmt.Errorf("maximum %v below minimum %v", r.Max, r.Min)
	}
	return nil
}

// Draw samples uniformly from the range.
func (r DurationRange) Draw(rng *rand.Rand) time.Duration {
	span := r.Max - r.Min
	if span <= 0 {
		return r.Min
	}
	return r.Min + time.Duration(rng.Int64N(int64(span)+1))
}

func (r DurationRange) String() string {
	if r.Min == r.Max {
		return r.Min.String()
	}
	return fmt.Sprintf("%v-%v", r.Min, r.Max)
}

// Config describes one round.
type Config struct {
	GridHeight     int
	GridWidth      int
	NumMoles       int
	MaxActiveMoles int
	UpDuration     DurationRange
	DownDuration   DurationRange
	// WinTarget ends the round once hits reach it. Zero disables the win condition.
	WinTarget uint64
	// PollInterval bounds how long an up mole takes to notice it was hit.
	PollInterval time.Duration
	// TickInterval is the cadence of the game loop's win check.
	TickInterval time.Duration
	InputBuffer  int
	// Seed makes mole placement reproducible. Zero seeds from the clock.
	Seed uint64
}

// Game defaults for a medium-sized board.
func DefaultConfig() Config {
	return Config{
		GridHeight:     4,
		GridWidth:      4,
		NumMoles:       6,
		MaxActiveMoles: 3,
		UpDuration:     DurationRange{Min: time.Second, Max: 2500 * time.Millisecond},
		DownDuration:   DurationRange{Min: 1500 * time.Millisecond, Max: 4 * time.Second},
		WinTarget:      10,
		PollInterval:   25 * time.Millisecond,
		TickInterval:   50 * time.Millisecond,
		InputBuffer:    16,
	}
}

// WithDefaults fills unset timing and buffering fields.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	if c.InputBuffer <= 0 {
		c.InputBuffer = def.InputBuffer
	}
	return c
}

func (c Config) Validate() error {
	if c.GridHeight < 1 || c.GridHeight > grid.MaxDimension {
		return fmt.Errorf("%w: grid_height %d not in [1,%d]", ErrInvalidConfig, c.GridHeight, grid.MaxDimension)
	}
	if c.GridWidth < 1 || c.GridWidth > grid.MaxDimension {
		return fmt.Errorf("%w: grid_width %d not in [1,%d]", ErrInvalidConfig, c.GridWidth, grid.MaxDimension)
	}
	cells := c.GridHeight * c.GridWidth
	if c.NumMoles < 1 || c.NumMoles > cells {
		return fmt.Errorf("%w: num_moles %d not in [1,%d]", ErrInvalidConfig, c.NumMoles, cells)
	}
	if c.NumMoles > len(Alphabet) {
		return fmt.Errorf("%w: num_moles %d exceeds %d symbols", ErrInvalidConfig, c.NumMoles, len(Alphabet))
	}
	if c.MaxActiveMoles < 1 || c.MaxActiveMoles > c.NumMoles {
		return fmt.Errorf("%w: max_active_moles %d not in [1,%d]", ErrInvalidConfig, c.MaxActiveMoles, c.NumMoles)
	}
	if err := c.UpDuration.Validate(); err != nil {
		return fmt.Errorf("%w: up_duration_range: %v", ErrInvalidConfig, err)
	}
	if err := c.DownDuration.Validate(); err != nil {
		return fmt.Errorf("%w: down_duration_range: %v", ErrInvalidConfig, err)
	}
	if c.PollInterval <= 0 || c.TickInterval <= 0 {
		return fmt.Errorf("%w: poll and tick intervals must be positive", ErrInvalidConfig)
	}
	if c.InputBuffer < 1 {
		return fmt.Errorf("%w: input_buffer %d must be positive", ErrInvalidConfig, c.InputBuffer)
	}
	return nil
}

// Symbol returns the symbol owned by mole i.
func Symbol(i int) rune {
	return rune(Alphabet[i])
}
