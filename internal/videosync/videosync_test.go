package videosync

import (
	"testing"
	"time"
)

type fakeSurface struct {
	seeks []float64
	plays []bool
}

func (f *fakeSurface) Seek(seconds float64)    { f.seeks = append(f.seeks, seconds) }
func (f *fakeSurface) SetPlaying(playing bool) { f.plays = append(f.plays, playing) }

// fakeClock lets tests move wall-clock time by hand.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBridge() (*Bridge, *fakeSurface, *fakeClock) {
	s := &fakeSurface{}
	c := &fakeClock{t: time.Unix(1000, 0)}
	b := New(s)
	b.now = c.now
	return b, s, c
}

func TestSyncSeeksOnLargeDrift(t *testing.T) {
	b, s, c := newTestBridge()
	b.Ready()

	// Video reported 10.0 half a second ago while playing: predicted 10.5.
	b.ReportState(true)
	b.ReportTime(10.0)
	c.advance(500 * time.Millisecond)

	if !b.Sync(12.0, false) {
		t.Fatal("expected a seek for 1.5s drift")
	}
	if len(s.seeks) != 1 || s.seeks[0] != 12.0 {
		t.Fatalf("seeks = %v, want [12]", s.seeks)
	}
}

func TestSyncSkipsSmallRecentDrift(t *testing.T) {
	b, s, c := newTestBridge()
	b.Ready()

	b.ReportState(true)
	b.ReportTime(10.0)
	b.Sync(20.0, true) // establishes a recent command
	c.advance(100 * time.Millisecond)

	// Predicted 10.1, target 10.2: drift 0.1 < threshold and the last
	// command is only 100ms old.
	if b.Sync(10.2, false) {
		t.Fatal("expected the close, recent sync to be skipped")
	}
	if len(s.seeks) != 1 {
		t.Fatalf("seeks = %v, want exactly the forced one", s.seeks)
	}
}

func TestSyncIssuesWhenCommandWindowExpired(t *testing.T) {
	b, s, c := newTestBridge()
	b.Ready()

	b.ReportState(false)
	b.ReportTime(10.0)
	b.Sync(10.0, true)
	c.advance(700 * time.Millisecond)

	// Drift is tiny but the spacing window has passed, so the seek goes out.
	if !b.Sync(10.1, false) {
		t.Fatal("expected a seek after the spacing window expired")
	}
	if len(s.seeks) != 2 {
		t.Fatalf("seeks = %v, want two", s.seeks)
	}
}

func TestSyncPausedVideoDoesNotExtrapolate(t *testing.T) {
	b, _, c := newTestBridge()
	b.Ready()

	b.ReportState(false)
	b.ReportTime(10.0)
	b.Sync(10.0, true)
	c.advance(300 * time.Millisecond)

	// A paused video stays at 10.0; target 10.2 drifts only 0.2.
	if b.Sync(10.2, false) {
		t.Fatal("paused prediction should not have drifted past the threshold")
	}
}

func TestForceBypassesThrottle(t *testing.T) {
	b, s, _ := newTestBridge()
	b.Ready()

	b.ReportState(true)
	b.ReportTime(10.0)
	b.Sync(10.0, true)
	if !b.Sync(10.01, true) {
		t.Fatal("forced sync was skipped")
	}
	if len(s.seeks) != 2 {
		t.Fatalf("seeks = %v, want both forced seeks", s.seeks)
	}
}

func TestPendingCommandsFlushOnceOnReady(t *testing.T) {
	b, s, _ := newTestBridge()

	b.Sync(3.0, false)
	b.Sync(7.5, true) // most recent target wins
	b.SetPlaying(true)
	if len(s.seeks) != 0 || len(s.plays) != 0 {
		t.Fatalf("commands reached a surface that is not ready: %v %v", s.seeks, s.plays)
	}

	b.Ready()
	if len(s.seeks) != 1 || s.seeks[0] != 7.5 {
		t.Fatalf("seeks = %v, want [7.5]", s.seeks)
	}
	if len(s.plays) != 1 || !s.plays[0] {
		t.Fatalf("plays = %v, want [true]", s.plays)
	}

	// A second Ready must not replay the buffer.
	b.Ready()
	if len(s.seeks) != 1 || len(s.plays) != 1 {
		t.Fatalf("Ready flushed twice: %v %v", s.seeks, s.plays)
	}
}

func TestSetPlayingForwardsWhenReady(t *testing.T) {
	b, s, _ := newTestBridge()
	b.Ready()
	b.SetPlaying(true)
	b.SetPlaying(false)
	if len(s.plays) != 2 || !s.plays[0] || s.plays[1] {
		t.Fatalf("plays = %v, want [true false]", s.plays)
	}
}
