package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/whackctl/internal/testutil/testlog"
)

func TestRunWritesAndValidatesTemplates(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	for _, kind := range []string{"game", "difficulty"} {
		path := filepath.Join(dir, kind+".toml")
		if err := run(kind, path, "", false, false); err != nil {
			t.Fatalf("write %s: %v", kind, err)
		}
		if err := run(kind, "", path, true, false); err != nil {
			t.Fatalf("validate %s: %v", kind, err)
		}
		if err := run(kind, path, "", false, false); err == nil {
			t.Fatalf("expected %s overwrite refusal", kind)
		}
		if err := run(kind, path, "", false, true); err != nil {
			t.Fatalf("forced write %s: %v", kind, err)
		}
	}
}

func TestValidateRejectsBadBoard(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "game.toml")
	if err := os.WriteFile(path, []byte("grid_height = 9\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := validateFile("game", path); err == nil {
		t.Fatalf("expected invalid board error")
	}
	if err := validateFile("ghost", path); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}
