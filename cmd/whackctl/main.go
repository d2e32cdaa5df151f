package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/whackctl/internal/config"
	"github.com/danmuck/whackctl/internal/game"
	"github.com/danmuck/whackctl/internal/logging"
	"github.com/danmuck/whackctl/internal/observability"
	"github.com/danmuck/whackctl/internal/tui"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	opts, err := parseArgs(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	os.Exit(run(opts))
}

func run(opts options) int {
	rc, err := resolveConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "whackctl: %v\n", err)
		return 2
	}

	profile := logging.ProfileInteractive
	if opts.Headless {
		profile = logging.ProfileRuntime
	}
	logging.ConfigureWithFile(profile, rc.Settings.LogFile)
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		final      game.FinalStats
		difficulty string
	)
	if opts.Headless {
		difficulty = rc.Difficulty
		final, err = playHeadless(ctx, rc, os.Stdin)
	} else {
		difficulty, final, err = playInteractive(ctx, rc)
	}
	if errors.Is(err, tui.ErrAborted) {
		log.Info().Msg("whackctl.run aborted before start")
		return 0
	}

	if final.GameID != "" {
		printSummary(os.Stdout, difficulty, final)
		if werr := writeMetrics(rc.Settings.MetricsTextfile); werr != nil {
			log.Warn().Err(werr).Str("path", rc.Settings.MetricsTextfile).Msg("whackctl.run metrics textfile failed")
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "whackctl: %v\n", err)
		if errors.Is(err, game.ErrInvalidConfig) || errors.Is(err, config.ErrUnknownDifficulty) {
			return 2
		}
		return 1
	}
	return 0
}

// playHeadless forwards keys from in until EOF, quit, or a signal. The reader
// goroutine is not joined; a read blocked on a terminal ends with the process.
func playHeadless(ctx context.Context, rc runConfig, in io.Reader) (game.FinalStats, error) {
	d, err := rc.Catalog.Lookup(rc.Difficulty)
	if err != nil {
		return game.FinalStats{}, err
	}
	h, err := game.Start(ctx, rc.Settings.GameConfig(d))
	if err != nil {
		return game.FinalStats{}, err
	}

	go func() {
		if err := game.ForwardReader(ctx, in, h.SubmitInput); err != nil {
			log.Warn().Err(err).Str("game_id", h.ID()).Msg("whackctl.playHeadless input closed")
		}
	}()
	return h.Wait()
}

func playInteractive(ctx context.Context, rc runConfig) (string, game.FinalStats, error) {
	ui, err := tui.NewTerminal()
	if err != nil {
		return "", game.FinalStats{}, err
	}
	defer ui.Close()

	name := rc.Difficulty
	if name == "" {
		names := rc.Catalog.Names()
		name, err = ui.SelectDifficulty(ctx, names, defaultIndex(names, rc.Catalog.Default()))
		if err != nil {
			return "", game.FinalStats{}, err
		}
	}
	d, err := rc.Catalog.Lookup(name)
	if err != nil {
		return name, game.FinalStats{}, err
	}
	cfg := rc.Settings.GameConfig(d)

	intro := tui.Intro{
		Difficulty: d.Name,
		Height:     cfg.GridHeight,
		Width:      cfg.GridWidth,
		Moles:      cfg.NumMoles,
		WinTarget:  cfg.WinTarget,
	}
	if err := ui.ShowIntro(ctx, intro); err != nil {
		return d.Name, game.FinalStats{}, err
	}

	h, err := game.Start(ctx, cfg)
	if err != nil {
		return d.Name, game.FinalStats{}, err
	}
	if err := ui.Play(ctx, h); err != nil {
		log.Info().Err(err).Str("game_id", h.ID()).Msg("whackctl.playInteractive play ended early")
		h.Stop()
	}
	final, err := h.Wait()
	if ctx.Err() == nil {
		_ = ui.ShowSummary(ctx, d.Name, final)
	}
	return d.Name, final, err
}

// writeMetrics is a no-op when path is empty.
func writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	return observability.WriteTextfile(path)
}

func printSummary(w io.Writer, difficulty string, final game.FinalStats) {
	fmt.Fprintf(w, "whackctl game %s\n", final.GameID)
	for _, line := range tui.SummaryLines(difficulty, final) {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
