package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danmuck/whackctl/internal/game"
	"github.com/danmuck/whackctl/internal/grid"
	"github.com/danmuck/whackctl/internal/score"
	"github.com/danmuck/whackctl/internal/testutil/testlog"
	"github.com/gdamore/tcell/v2"
)

func newSimUI(t *testing.T) (*UI, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	u, err := New(s)
	if err != nil {
		t.Fatalf("new ui: %v", err)
	}
	s.SetSize(80, 24)
	u.frame = time.Millisecond
	t.Cleanup(u.Close)
	return u, s
}

func screenText(s tcell.SimulationScreen) string {
	cells, w, h := s.GetContents()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(c.Runes[0])
		}
		b.WriteRune('\n')
	}
	return b.String()
}

func withTimeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSelectDifficultyClampsAndConfirms(t *testing.T) {
	testlog.Start(t)
	u, s := newSimUI(t)
	s.InjectKey(tcell.KeyUp, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	got, err := u.SelectDifficulty(withTimeout(t), []string{"easy", "medium", "hard"}, 0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != "hard" {
		t.Fatalf("unexpected selection: %q", got)
	}
	if !strings.Contains(screenText(s), "WELCOME TO WHACK A MOLE") {
		t.Fatalf("menu title not rendered")
	}
}

func TestSelectDifficultyEscapeAborts(t *testing.T) {
	testlog.Start(t)
	u, s := newSimUI(t)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	if _, err := u.SelectDifficulty(withTimeout(t), []string{"easy"}, 0); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestShowIntroEchoesBoard(t *testing.T) {
	testlog.Start(t)
	u, s := newSimUI(t)
	s.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	err := u.ShowIntro(withTimeout(t), Intro{Difficulty: "hard", Height: 3, Width: 5, Moles: 4})
	if err != nil {
		t.Fatalf("intro: %v", err)
	}
	text := screenText(s)
	if !strings.Contains(text, "Your difficulty is: HARD") || !strings.Contains(text, "Board size is 3x5 with 4 moles") {
		t.Fatalf("intro not rendered:\n%s", text)
	}
}

type fakeGame struct {
	mu     sync.Mutex
	inputs []rune
	over   bool
}

func (f *fakeGame) Poll() game.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return game.Status{
		Cells: []grid.CellView{
			{Row: 0, Col: 0, Cell: grid.Occupied('a')},
			{Row: 0, Col: 1},
		},
		Stats:  score.Stats{Hits: uint64(len(f.inputs))},
		Over:   f.over,
		Reason: game.ReasonQuit,
		Active: 1,
	}
}

func (f *fakeGame) SubmitInput(token rune) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.over {
		return game.ErrGameOver
	}
	f.inputs = append(f.inputs, token)
	if token == game.QuitToken {
		f.over = true
	}
	return nil
}

func TestPlayForwardsKeysUntilOver(t *testing.T) {
	testlog.Start(t)
	u, s := newSimUI(t)
	g := &fakeGame{}
	s.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'b', tcell.ModNone)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	if err := u.Play(withTimeout(t), g); err != nil {
		t.Fatalf("play: %v", err)
	}
	g.mu.Lock()
	inputs := string(g.inputs)
	g.mu.Unlock()
	if inputs != "abQ" {
		t.Fatalf("unexpected forwarded input: %q", inputs)
	}
	text := screenText(s)
	if !strings.Contains(text, "[ a ]") || !strings.Contains(text, "[   ]") {
		t.Fatalf("board not rendered:\n%s", text)
	}
	if !strings.Contains(text, "game over: quit") {
		t.Fatalf("game over banner missing:\n%s", text)
	}
}

func TestPlayStopsOnContext(t *testing.T) {
	testlog.Start(t)
	u, _ := newSimUI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := u.Play(ctx, &fakeGame{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSummaryLines(t *testing.T) {
	testlog.Start(t)
	lines := SummaryLines("medium", game.FinalStats{Reason: game.ReasonWin})
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "MEDIUM") || !strings.Contains(joined, "ended by:   win") {
		t.Fatalf("unexpected summary:\n%s", joined)
	}
	if !strings.Contains(joined, "accuracy:   n/a") || !strings.Contains(joined, "whack rate: n/a") {
		t.Fatalf("zero denominators must render n/a:\n%s", joined)
	}

	lines = SummaryLines("easy", game.FinalStats{Stats: score.Stats{Hits: 3, Misses: 1, WastedInputs: 1}})
	joined = strings.Join(lines, "\n")
	if !strings.Contains(joined, "75.0%") {
		t.Fatalf("unexpected ratios:\n%s", joined)
	}
}
