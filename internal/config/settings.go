package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/whackctl/internal/game"
)

// Settings is the run configuration shared by the settings file and the CLI.
type Settings struct {
	GridHeight      int
	GridWidth       int
	Moles           int
	MaxActive       int
	Difficulty      string
	DifficultyFile  string
	WinTarget       uint64
	PollInterval    time.Duration
	TickInterval    time.Duration
	Seed            uint64
	MetricsTextfile string
	LogFile         string
}

type settingsFile struct {
	GridHeight      int    `toml:"grid_height"`
	GridWidth       int    `toml:"grid_width"`
	Moles           int    `toml:"moles"`
	MaxActive       int    `toml:"max_active"`
	Difficulty      string `toml:"difficulty"`
	DifficultyFile  string `toml:"difficulty_file"`
	WinTarget       int64  `toml:"win_target"`
	PollInterval    string `toml:"poll_interval"`
	TickInterval    string `toml:"tick_interval"`
	Seed            int64  `toml:"seed"`
	MetricsTextfile string `toml:"metrics_textfile"`
	LogFile         string `toml:"log_file"`
}

func DefaultSettings() Settings {
	def := game.DefaultConfig()
	return Settings{
		GridHeight:   def.GridHeight,
		GridWidth:    def.GridWidth,
		Moles:        def.NumMoles,
		MaxActive:    def.MaxActiveMoles,
		WinTarget:    def.WinTarget,
		PollInterval: def.PollInterval,
		TickInterval: def.TickInterval,
	}
}

// LoadSettings overlays the keys present in path onto DefaultSettings.
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()

	var raw settingsFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Settings{}, fmt.Errorf("load settings: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("grid_height") {
		cfg.GridHeight = raw.GridHeight
	}
	if meta.IsDefined("grid_width") {
		cfg.GridWidth = raw.GridWidth
	}
	if meta.IsDefined("moles") {
		cfg.Moles = raw.Moles
	}
	if meta.IsDefined("max_active") {
		cfg.MaxActive = raw.MaxActive
	}
	if meta.IsDefined("difficulty") {
		cfg.Difficulty = strings.TrimSpace(raw.Difficulty)
	}
	if meta.IsDefined("difficulty_file") {
		cfg.DifficultyFile = strings.TrimSpace(raw.DifficultyFile)
	}
	if meta.IsDefined("win_target") {
		if raw.WinTarget < 0 {
			return Settings{}, fmt.Errorf("win_target must not be negative: %d", raw.WinTarget)
		}
		cfg.WinTarget = uint64(raw.WinTarget)
	}
	if meta.IsDefined("poll_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.PollInterval))
		if err != nil {
			return Settings{}, fmt.Errorf("parse poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}
	if meta.IsDefined("tick_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.TickInterval))
		if err != nil {
			return Settings{}, fmt.Errorf("parse tick_interval: %w", err)
		}
		cfg.TickInterval = d
	}
	if meta.IsDefined("seed") {
		cfg.Seed = uint64(raw.Seed)
	}
	if meta.IsDefined("metrics_textfile") {
		cfg.MetricsTextfile = strings.TrimSpace(raw.MetricsTextfile)
	}
	if meta.IsDefined("log_file") {
		cfg.LogFile = strings.TrimSpace(raw.LogFile)
	}
	return cfg, nil
}

// GameConfig combines the board settings with a difficulty's timing.
func (s Settings) GameConfig(d Difficulty) game.Config {
	cfg := game.DefaultConfig()
	cfg.GridHeight = s.GridHeight
	cfg.GridWidth = s.GridWidth
	cfg.NumMoles = s.Moles
	cfg.MaxActiveMoles = s.MaxActive
	cfg.UpDuration = d.Up
	cfg.DownDuration = d.Down
	cfg.WinTarget = s.WinTarget
	cfg.PollInterval = s.PollInterval
	cfg.TickInterval = s.TickInterval
	cfg.Seed = s.Seed
	return cfg.WithDefaults()
}

// ValidateSettings resolves the difficulty and checks the resulting game config.
func ValidateSettings(s Settings) error {
	catalog, err := LoadCatalog(s.DifficultyFile)
	if err != nil {
		return err
	}
	d, err := catalog.Lookup(s.Difficulty)
	if err != nil {
		return err
	}
	return s.GameConfig(d).Validate()
}
