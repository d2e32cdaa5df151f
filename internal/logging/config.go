package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "WHACKCTL_LOG_LEVEL"
	EnvLogTimestamp = "WHACKCTL_LOG_TIMESTAMP"
	EnvLogNoColor   = "WHACKCTL_LOG_NOCOLOR"
	EnvLogFile      = "WHACKCTL_LOG_FILE"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	// ProfileInteractive keeps logs off the terminal because the UI owns it.
	ProfileInteractive
	ProfileTest
)

// Config is the resolved logger setup.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	File      string
	Out       io.Writer
}

var (
	configureOnce sync.Once
	logFile       *os.File
)

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureInteractive() {
	Configure(ProfileInteractive)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

func Configure(profile Profile) {
	ConfigureWithFile(profile, "")
}

// ConfigureWithFile is Configure with a default log file; WHACKCTL_LOG_FILE
// still takes precedence.
func ConfigureWithFile(profile Profile, path string) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		cfg.File = strings.TrimSpace(path)
		applyEnvOverrides(&cfg)
		apply(cfg)
	})
}

// Close flushes and closes the log file opened by Configure, if any.
func Close() {
	if logFile != nil {
		_ = logFile.Sync()
		_ = logFile.Close()
		logFile = nil
	}
}

func defaultConfig(profile Profile) Config {
	cfg := Config{Out: os.Stderr}
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
	case ProfileInteractive:
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
		cfg.NoColor = true
		cfg.Out = io.Discard
	default:
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
	}
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	if path := strings.TrimSpace(os.Getenv(EnvLogFile)); path != "" {
		cfg.File = path
	}
}

func apply(cfg Config) {
	out := cfg.Out
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			logFile = f
			out = f
			cfg.NoColor = true
		}
	}
	zerolog.SetGlobalLevel(cfg.Level)
	log.Logger = newLogger(out, cfg)
}

func newLogger(out io.Writer, cfg Config) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	ctx := zerolog.New(writer).With().Str("app", "whackctl")
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger().Level(cfg.Level)
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
