package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/danmuck/whackctl/internal/config"
	"github.com/danmuck/whackctl/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	parser := argparse.NewParser("configgen", "Write or validate whackctl config files")
	kind := parser.Selector("k", "kind", []string{"game", "difficulty"}, &argparse.Options{Default: "game", Help: "config kind"})
	output := parser.String("o", "output", &argparse.Options{Help: "output path for config template"})
	validate := parser.Flag("v", "validate", &argparse.Options{Help: "validate an existing config file"})
	input := parser.String("i", "input", &argparse.Options{Help: "config path for validation (defaults to the per-kind path)"})
	force := parser.Flag("f", "force", &argparse.Options{Help: "overwrite existing config file"})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(2)
	}

	logging.ConfigureRuntime()
	defer logging.Close()

	if err := run(*kind, *output, *input, *validate, *force); err != nil {
		log.Error().Err(err).Str("kind", *kind).Msg("configgen failed")
		logging.Close()
		os.Exit(1)
	}
}

func run(kind, output, input string, validate, force bool) error {
	if validate {
		path := input
		if path == "" {
			path = defaultPath(kind)
		}
		if err := validateFile(kind, path); err != nil {
			return err
		}
		log.Info().Str("kind", kind).Str("path", path).Msg("configgen validated")
		return nil
	}

	target := output
	if target == "" {
		target = defaultPath(kind)
	}
	if err := config.WriteTemplate(target, kind, force); err != nil {
		return err
	}
	log.Info().Str("kind", kind).Str("path", target).Msg("configgen wrote template")
	return nil
}

func validateFile(kind, path string) error {
	switch kind {
	case "game":
		s, err := config.LoadSettings(path)
		if err != nil {
			return err
		}
		return config.ValidateSettings(s)
	case "difficulty":
		_, err := config.LoadCatalog(path)
		return err
	default:
		return fmt.Errorf("unknown config kind: %s", kind)
	}
}

func defaultPath(kind string) string {
	if kind == "difficulty" {
		return "cmd/whackctl/difficulty.toml"
	}
	return "cmd/whackctl/config.toml"
}
