package game

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/whackctl/internal/grid"
	"github.com/danmuck/whackctl/internal/score"
	"github.com/danmuck/whackctl/internal/testutil/testlog"
)

func newTrackerFixture(t *testing.T) (*grid.Grid, *score.Scoreboard, *Flag, *Queue, *Tracker) {
	t.Helper()
	g, err := grid.New(3, 3)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	sb := score.New()
	f := NewFlag(context.Background())
	q := NewQueue(4, f.Done())
	return g, sb, f, q, NewTracker(g, sb, f, q)
}

func TestTrackerHitClearsCell(t *testing.T) {
	testlog.Start(t)
	g, sb, _, _, tr := newTrackerFixture(t)
	g.TryClaim(2, 1, 'a')

	if got := tr.Handle('a'); got != InputHit {
		t.Fatalf("unexpected result: %q", got)
	}
	if !g.Peek(2, 1).Empty() {
		t.Fatalf("expected cell cleared by hit")
	}
	stats := sb.Snapshot()
	if stats.Hits != 1 || stats.Misses != 0 || stats.WastedInputs != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestTrackerWastedInput(t *testing.T) {
	testlog.Start(t)
	g, sb, _, _, tr := newTrackerFixture(t)
	g.TryClaim(0, 0, 'a')

	if got := tr.Handle('z'); got != InputWasted {
		t.Fatalf("unexpected result: %q", got)
	}
	if g.Peek(0, 0) != grid.Occupied('a') {
		t.Fatalf("wasted input must not touch the grid")
	}
	stats := sb.Snapshot()
	if stats.WastedInputs != 1 || stats.Hits != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestTrackerClearsEveryMatchingCell(t *testing.T) {
	testlog.Start(t)
	g, sb, _, _, tr := newTrackerFixture(t)
	g.TryClaim(0, 0, 'k')
	g.TryClaim(1, 1, 'k')

	if got := tr.Handle('k'); got != InputHit {
		t.Fatalf("unexpected result: %q", got)
	}
	if sb.Hits() != 2 {
		t.Fatalf("expected two hits from one token, got %d", sb.Hits())
	}
	if g.Occupied() != 0 {
		t.Fatalf("expected grid cleared")
	}
}

func TestTrackerQuitSetsFlagAndStops(t *testing.T) {
	testlog.Start(t)
	_, sb, f, q, tr := newTrackerFixture(t)

	done := make(chan error, 1)
	go func() {
		done <- tr.Run(f.Context())
	}()
	if err := q.Submit(QuitToken); err != nil {
		t.Fatalf("submit quit: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("tracker run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("tracker did not stop on quit")
	}
	if f.Reason() != ReasonQuit {
		t.Fatalf("unexpected reason: %v", f.Reason())
	}
	if sb.Snapshot() != (score.Stats{}) {
		t.Fatalf("quit must not score: %+v", sb.Snapshot())
	}
	if err := q.Submit('a'); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver after quit, got %v", err)
	}
}

func TestTrackerRunStopsOnFlag(t *testing.T) {
	testlog.Start(t)
	_, _, f, _, tr := newTrackerFixture(t)
	done := make(chan error, 1)
	go func() {
		done <- tr.Run(f.Context())
	}()
	f.Set(ReasonWin)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("tracker run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("tracker blocked after flag set")
	}
}

func TestForwardReaderSkipsSpaceAndQuitsOnEOF(t *testing.T) {
	testlog.Start(t)
	var got []rune
	err := ForwardReader(context.Background(), strings.NewReader("a b\nc\n"), func(r rune) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("forward reader: %v", err)
	}
	want := []rune{'a', 'b', 'c', QuitToken}
	if string(got) != string(want) {
		t.Fatalf("unexpected tokens: %q", string(got))
	}
}

func TestForwardReaderStopsWhenGameOver(t *testing.T) {
	testlog.Start(t)
	calls := 0
	err := ForwardReader(context.Background(), strings.NewReader("abc"), func(r rune) error {
		calls++
		return ErrGameOver
	})
	if err != nil {
		t.Fatalf("forward reader: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one submit before stopping, got %d", calls)
	}
}
