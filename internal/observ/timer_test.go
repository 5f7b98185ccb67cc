package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerTrackAndSummary(t *testing.T) {
	tm := NewTimer()
	done := tm.Track("parse")
	done("3 files")
	idx := tm.Begin("generate")
	tm.End(idx, "")
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(rep.Phases))
	}
	if rep.Phases[0].Note != "3 files" {
		t.Fatalf("note lost: %+v", rep.Phases[0])
	}
	s := tm.Summary()
	for _, want := range []string{"timings:", "parse", "generate", "total", "// 3 files"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Track("root")("")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 16 {
		t.Fatalf("expected 16 phases, got %d", n)
	}
}

func TestEmptyReport(t *testing.T) {
	tm := NewTimer()
	if rep := tm.Report(); rep.TotalMS != 0 || len(rep.Phases) != 0 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if tm.Wall() != 0 {
		t.Fatalf("empty timer has wall time %v", tm.Wall())
	}
}

func TestWallSpansPhases(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("a")
	time.Sleep(2 * time.Millisecond)
	b := tm.Begin("b")
	tm.End(a, "")
	time.Sleep(2 * time.Millisecond)
	tm.End(b, "")
	wall := tm.Wall()
	if wall < 4*time.Millisecond {
		t.Fatalf("wall = %v", wall)
	}
	rep := tm.Report()
	if sum := rep.Phases[0].DurationMS + rep.Phases[1].DurationMS; rep.TotalMS > sum {
		t.Fatalf("total %.2f exceeds phase sum %.2f", rep.TotalMS, sum)
	}
}
