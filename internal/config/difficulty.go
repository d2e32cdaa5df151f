package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danmuck/whackctl/internal/game"
	"github.com/pelletier/go-toml/v2"
)

var ErrUnknownDifficulty = errors.New("config: unknown difficulty")

// Difficulty names a pair of up/down duration ranges.
type Difficulty struct {
	Name string
	Up   game.DurationRange
	Down game.DurationRange
}

type difficultyEntry struct {
	Name string   `toml:"name"`
	Up   []string `toml:"up"`
	Down []string `toml:"down"`
}

type catalogFile struct {
	Default      string            `toml:"default"`
	Difficulties []difficultyEntry `toml:"difficulty"`
}

// Catalog is an ordered set of difficulties keyed by lower-case name.
type Catalog struct {
	order   []string
	entries map[string]Difficulty
	def     string
}

// BuiltinCatalog returns easy, medium, and hard with medium as the default.
func BuiltinCatalog() *Catalog {
	c := &Catalog{entries: make(map[string]Difficulty)}
	c.put(Difficulty{
		Name: "easy",
		Up:   game.DurationRange{Min: 2 * time.Second, Max: 4 * time.Second},
		Down: game.DurationRange{Min: 2 * time.Second, Max: 6 * time.Second},
	})
	c.put(Difficulty{
		Name: "medium",
		Up:   game.DurationRange{Min: time.Second, Max: 2500 * time.Millisecond},
		Down: game.DurationRange{Min: 1500 * time.Millisecond, Max: 4 * time.Second},
	})
	c.put(Difficulty{
		Name: "hard",
		Up:   game.DurationRange{Min: 500 * time.Millisecond, Max: 1200 * time.Millisecond},
		Down: game.DurationRange{Min: time.Second, Max: 3 * time.Second},
	})
	c.def = "medium"
	return c
}

// LoadCatalog overlays the difficulties in path onto the builtin catalog.
// Entries with a builtin name replace it; new names are appended.
func LoadCatalog(path string) (*Catalog, error) {
	c := BuiltinCatalog()
	if strings.TrimSpace(path) == "" {
		return c, nil
	}

	var raw catalogFile
	if err := loadToml(path, &raw); err != nil {
		return nil, err
	}
	for i, entry := range raw.Difficulties {
		d, err := entry.resolve()
		if err != nil {
			return nil, fmt.Errorf("difficulty[%d] invalid: %w", i, err)
		}
		c.put(d)
	}
	if def := normalizeName(raw.Default); def != "" {
		if _, ok := c.entries[def]; !ok {
			return nil, fmt.Errorf("%w: default %q", ErrUnknownDifficulty, raw.Default)
		}
		c.def = def
	}
	return c, nil
}

func (e difficultyEntry) resolve() (Difficulty, error) {
	name := normalizeName(e.Name)
	if name == "" {
		return Difficulty{}, fmt.Errorf("name is required")
	}
	up, err := ParseRange(e.Up)
	if err != nil {
		return Difficulty{}, fmt.Errorf("%s up: %w", name, err)
	}
	down, err := ParseRange(e.Down)
	if err != nil {
		return Difficulty{}, fmt.Errorf("%s down: %w", name, err)
	}
	return Difficulty{Name: name, Up: up, Down: down}, nil
}

func (c *Catalog) put(d Difficulty) {
	d.Name = normalizeName(d.Name)
	if _, ok := c.entries[d.Name]; !ok {
		c.order = append(c.order, d.Name)
	}
	c.entries[d.Name] = d
}

// Lookup is case-insensitive. An empty name selects the default.
func (c *Catalog) Lookup(name string) (Difficulty, error) {
	key := normalizeName(name)
	if key == "" {
		key = c.def
	}
	d, ok := c.entries[key]
	if !ok {
		return Difficulty{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownDifficulty, name, strings.Join(c.order, ", "))
	}
	return d, nil
}

func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Catalog) Default() string {
	return c.def
}

// ParseRange accepts ["d"] for a fixed duration or ["min", "max"].
func ParseRange(values []string) (game.DurationRange, error) {
	switch len(values) {
	case 1:
		d, err := time.ParseDuration(strings.TrimSpace(values[0]))
		if err != nil {
			return game.DurationRange{}, err
		}
		r := game.Fixed(d)
		return r, r.Validate()
	case 2:
		lo, err := time.ParseDuration(strings.TrimSpace(values[0]))
		if err != nil {
			return game.DurationRange{}, err
		}
		hi, err := time.ParseDuration(strings.TrimSpace(values[1]))
		if err != nil {
			return game.DurationRange{}, err
		}
		r := game.DurationRange{Min: lo, Max: hi}
		return r, r.Validate()
	default:
		return game.DurationRange{}, fmt.Errorf("expected 1 or 2 durations, got %d", len(values))
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}
