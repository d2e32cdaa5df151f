package score

import (
	"sync"
	"testing"

	"github.com/danmuck/whackctl/internal/testutil/testlog"
)

func TestRatiosUndefinedBeforeAnyInput(t *testing.T) {
	testlog.Start(t)
	var s Stats
	if _, ok := s.Accuracy(); ok {
		t.Fatalf("expected accuracy undefined")
	}
	if _, ok := s.WhackRate(); ok {
		t.Fatalf("expected whack rate undefined")
	}
	if got := FormatRatio(s.Accuracy()); got != "n/a" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestRatios(t *testing.T) {
	testlog.Start(t)
	s := Stats{Hits: 3, Misses: 1, WastedInputs: 1}
	acc, ok := s.Accuracy()
	if !ok || acc != 0.75 {
		t.Fatalf("unexpected accuracy: %v %v", acc, ok)
	}
	rate, ok := s.WhackRate()
	if !ok || rate != 0.75 {
		t.Fatalf("unexpected whack rate: %v %v", rate, ok)
	}
	if got := FormatRatio(acc, ok); got != "75.0%" {
		t.Fatalf("unexpected format: %q", got)
	}
	if s.Inputs() != 4 {
		t.Fatalf("unexpected inputs: %d", s.Inputs())
	}
}

func TestScoreboardConcurrentIncrements(t *testing.T) {
	testlog.Start(t)
	sb := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sb.AddHits(1)
				sb.Miss()
				sb.Waste()
			}
		}()
	}
	wg.Wait()
	got := sb.Snapshot()
	if got.Hits != 1000 || got.Misses != 1000 || got.WastedInputs != 1000 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}
