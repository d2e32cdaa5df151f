package main

import (
	"fmt"
	"strings"

	"github.com/akamensky/argparse"
	"github.com/danmuck/whackctl/internal/config"
)

// options holds the raw CLI values. Zero means the flag was not given.
type options struct {
	ConfigPath string
	Height     int
	Width      int
	Moles      int
	MaxActive  int
	Difficulty string
	WinTarget  int
	Seed       int
	Headless   bool
}

// runConfig is the resolved configuration for one invocation.
type runConfig struct {
	Settings config.Settings
	Catalog  *config.Catalog
	// Difficulty is empty when the player should pick from the menu.
	Difficulty string
}

func parseArgs(args []string) (options, error) {
	parser := argparse.NewParser("whackctl", "Concurrent whack-a-mole in the terminal")

	cfgPath := parser.String("c", "config", &argparse.Options{Help: "settings file (toml)"})
	height := parser.Int("H", "height", &argparse.Options{Help: "grid height, 1-6"})
	width := parser.Int("W", "width", &argparse.Options{Help: "grid width, 1-6"})
	moles := parser.Int("m", "moles", &argparse.Options{Help: "number of moles"})
	maxActive := parser.Int("a", "max-active", &argparse.Options{Help: "moles allowed up at once"})
	difficulty := parser.String("d", "difficulty", &argparse.Options{Help: "difficulty name; omit to choose from the menu"})
	winTarget := parser.Int("t", "win-target", &argparse.Options{Help: "hits needed to win; negative disables the win condition"})
	seed := parser.Int("s", "seed", &argparse.Options{Help: "placement seed for reproducible rounds"})
	headless := parser.Flag("n", "headless", &argparse.Options{Help: "read keys from stdin and log instead of drawing"})

	if err := parser.Parse(args); err != nil {
		return options{}, fmt.Errorf("%s", parser.Usage(err))
	}
	return options{
		ConfigPath: strings.TrimSpace(*cfgPath),
		Height:     *height,
		Width:      *width,
		Moles:      *moles,
		MaxActive:  *maxActive,
		Difficulty: strings.TrimSpace(*difficulty),
		WinTarget:  *winTarget,
		Seed:       *seed,
		Headless:   *headless,
	}, nil
}

// resolveConfig layers flags over the settings file over defaults, loads the
// difficulty catalog, and validates the board before any screen is opened.
func resolveConfig(opts options) (runConfig, error) {
	settings := config.DefaultSettings()
	if opts.ConfigPath != "" {
		loaded, err := config.LoadSettings(opts.ConfigPath)
		if err != nil {
			return runConfig{}, err
		}
		settings = loaded
	}

	if opts.Height != 0 {
		settings.GridHeight = opts.Height
	}
	if opts.Width != 0 {
		settings.GridWidth = opts.Width
	}
	if opts.Moles != 0 {
		settings.Moles = opts.Moles
	}
	if opts.MaxActive != 0 {
		settings.MaxActive = opts.MaxActive
	}
	if opts.Difficulty != "" {
		settings.Difficulty = opts.Difficulty
	}
	switch {
	case opts.WinTarget > 0:
		settings.WinTarget = uint64(opts.WinTarget)
	case opts.WinTarget < 0:
		settings.WinTarget = 0
	}
	if opts.Seed != 0 {
		settings.Seed = uint64(opts.Seed)
	}

	catalog, err := config.LoadCatalog(settings.DifficultyFile)
	if err != nil {
		return runConfig{}, err
	}

	rc := runConfig{Settings: settings, Catalog: catalog, Difficulty: settings.Difficulty}
	if rc.Difficulty == "" && opts.Headless {
		rc.Difficulty = catalog.Default()
	}

	// Board limits do not depend on timing, so the default difficulty stands in
	// until the player has chosen.
	d, err := catalog.Lookup(rc.Difficulty)
	if err != nil {
		return runConfig{}, err
	}
	if err := settings.GameConfig(d).Validate(); err != nil {
		return runConfig{}, err
	}
	return rc, nil
}

func defaultIndex(names []string, def string) int {
	for i, name := range names {
		if name == def {
			return i
		}
	}
	return 0
}
