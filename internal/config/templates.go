package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "game":
		return gameTemplate, nil
	case "difficulty":
		return difficultyTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const gameTemplate = `grid_height = 4
grid_width = 4
moles = 6
max_active = 3
difficulty = "medium"
# difficulty_file = "difficulty.toml"
win_target = 10
poll_interval = "25ms"
tick_interval = "50ms"
# seed = 1
# metrics_textfile = "local/whackctl.prom"
# log_file = "local/whackctl.log"
`

const difficultyTemplate = `default = "medium"

[[difficulty]]
name = "easy"
up = ["2s", "4s"]
down = ["2s", "6s"]

[[difficulty]]
name = "medium"
up = ["1s", "2.5s"]
down = ["1.5s", "4s"]

[[difficulty]]
name = "hard"
up = ["500ms", "1.2s"]
down = ["1s", "3s"]

[[difficulty]]
name = "frantic"
up = ["250ms", "600ms"]
down = ["200ms", "1s"]
`
