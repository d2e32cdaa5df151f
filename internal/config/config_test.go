package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/whackctl/internal/game"
	"github.com/danmuck/whackctl/internal/testutil/testlog"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestBuiltinCatalog(t *testing.T) {
	testlog.Start(t)
	c := BuiltinCatalog()
	names := c.Names()
	if len(names) != 3 || names[0] != "easy" || names[1] != "medium" || names[2] != "hard" {
		t.Fatalf("unexpected names: %v", names)
	}
	if c.Default() != "medium" {
		t.Fatalf("unexpected default: %q", c.Default())
	}
	d, err := c.Lookup("HARD")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if d.Up.Min != 500*time.Millisecond || d.Up.Max != 1200*time.Millisecond {
		t.Fatalf("unexpected hard up range: %v", d.Up)
	}
	d, err = c.Lookup("")
	if err != nil || d.Name != "medium" {
		t.Fatalf("empty lookup should select default, got %q %v", d.Name, err)
	}
	if _, err := c.Lookup("nightmare"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("expected ErrUnknownDifficulty, got %v", err)
	}
}

func TestLoadCatalogFromTemplate(t *testing.T) {
	testlog.Start(t)
	tpl, err := Template("difficulty")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	c, err := LoadCatalog(writeFile(t, "difficulty.toml", tpl))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(c.Names()) != 4 || c.Names()[3] != "frantic" {
		t.Fatalf("unexpected names: %v", c.Names())
	}
	d, err := c.Lookup("frantic")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if d.Down.Min != 200*time.Millisecond || d.Down.Max != time.Second {
		t.Fatalf("unexpected frantic down range: %v", d.Down)
	}
}

func TestLoadCatalogOverridesAndRejects(t *testing.T) {
	testlog.Start(t)
	c, err := LoadCatalog(writeFile(t, "d.toml", `default = "easy"
[[difficulty]]
name = "EASY"
up = ["3s"]
down = ["1s", "2s"]
`))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if c.Default() != "easy" || len(c.Names()) != 3 {
		t.Fatalf("unexpected catalog: default=%q names=%v", c.Default(), c.Names())
	}
	d, _ := c.Lookup("easy")
	if d.Up != game.Fixed(3*time.Second) {
		t.Fatalf("override not applied: %v", d.Up)
	}

	bad := map[string]string{
		"inverted range":  "[[difficulty]]\nname = \"x\"\nup = [\"2s\", \"1s\"]\ndown = [\"1s\"]\n",
		"missing name":    "[[difficulty]]\nup = [\"1s\"]\ndown = [\"1s\"]\n",
		"too many values": "[[difficulty]]\nname = \"x\"\nup = [\"1s\", \"2s\", \"3s\"]\ndown = [\"1s\"]\n",
		"unknown default": "default = \"nope\"\n",
	}
	for name, body := range bad {
		if _, err := LoadCatalog(writeFile(t, "bad.toml", body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadSettingsOverlay(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "game.toml", `grid_height = 6
moles = 9
difficulty = "hard"
poll_interval = "10ms"
seed = 99
`)
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	def := DefaultSettings()
	if s.GridHeight != 6 || s.Moles != 9 || s.Seed != 99 {
		t.Fatalf("unexpected settings: %+v", s)
	}
	if s.GridWidth != def.GridWidth || s.MaxActive != def.MaxActive || s.WinTarget != def.WinTarget {
		t.Fatalf("undefined keys must keep defaults: %+v", s)
	}
	if s.PollInterval != 10*time.Millisecond || s.TickInterval != def.TickInterval {
		t.Fatalf("unexpected intervals: %v %v", s.PollInterval, s.TickInterval)
	}
	if err := ValidateSettings(s); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadSettingsRejectsBadInput(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"unknown key":   "colour = \"red\"\n",
		"bad duration":  "poll_interval = \"soon\"\n",
		"negative goal": "win_target = -1\n",
	}
	for name, body := range cases {
		if _, err := LoadSettings(writeFile(t, "game.toml", body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestGameTemplateValidates(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "game.toml")
	if err := WriteTemplate(path, "game", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, "game", false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if err := ValidateSettings(s); err != nil {
		t.Fatalf("template settings invalid: %v", err)
	}
	if _, err := Template("ghost"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestGameConfigConversion(t *testing.T) {
	testlog.Start(t)
	s := DefaultSettings()
	s.MaxActive = s.Moles + 1
	d, _ := BuiltinCatalog().Lookup("easy")
	cfg := s.GameConfig(d)
	if cfg.UpDuration != d.Up || cfg.DownDuration != d.Down {
		t.Fatalf("difficulty timing not applied: %+v", cfg)
	}
	if err := cfg.Validate(); !errors.Is(err, game.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if err := ValidateSettings(s); !errors.Is(err, game.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig from settings, got %v", err)
	}
}
