package main

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/wbarker/washctl/internal/cycle"
	"github.com/wbarker/washctl/internal/hw"
	"github.com/wbarker/washctl/internal/mqtt"
	"github.com/wbarker/washctl/internal/status"
)

// loopHarness wires runLoop to fakes and unbuffered channels so every
// delivered event is fully handled before the next send returns.
type loopHarness struct {
	bus     *hw.FakeBus
	disp    *hw.FakeDisplay
	leds    *hw.FakeLEDBar
	pwm     *hw.FakePWM
	pub     *mqtt.FakePublisher
	tracker *status.Tracker

	tick     chan time.Time
	refresh  chan time.Time
	startBtn chan struct{}
	resetBtn chan struct{}
	sig      chan os.Signal
	done     chan error
}

func newLoopHarness(in cycle.Inputs, heartbeat time.Duration) *loopHarness {
	h := &loopHarness{
		bus:      hw.NewFakeBus(in),
		disp:     &hw.FakeDisplay{},
		leds:     &hw.FakeLEDBar{},
		pwm:      &hw.FakePWM{},
		pub:      mqtt.NewFakePublisher(),
		tracker:  status.NewTracker(time.Now(), status.Config{}),
		tick:     make(chan time.Time),
		refresh:  make(chan time.Time),
		startBtn: make(chan struct{}),
		resetBtn: make(chan struct{}),
		sig:      make(chan os.Signal),
		done:     make(chan error, 1),
	}
	go func() {
		h.done <- runLoop(h.bus, h.disp, h.leds, h.pwm, h.pub, h.pub, h.tracker,
			heartbeat, time.Now, h.tick, h.refresh, h.startBtn, h.resetBtn, h.sig)
	}()
	return h
}

func (h *loopHarness) shutdown(t *testing.T) {
	t.Helper()
	h.sig <- syscall.SIGTERM
	if err := <-h.done; err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
}

func TestRunLoopFullScenario(t *testing.T) {
	h := newLoopHarness(cycle.Inputs{Level: 1, Extended: false}, 0)

	h.startBtn <- struct{}{}
	for i := 0; i < 40; i++ {
		h.tick <- time.Now()
	}
	h.refresh <- time.Now()
	h.resetBtn <- struct{}{}
	h.shutdown(t)

	// CYCLE_STARTED, PHASE_CHANGED (wash->rinse at tick 32), CYCLE_RESET
	if len(h.pub.Events) != 3 {
		t.Fatalf("expected 3 cycle events, got %d: %v", len(h.pub.Events), h.pub.Events)
	}
	if h.pub.Events[0].Type != cycle.EventStarted || h.pub.Events[0].Mode != cycle.ModeNormal {
		t.Errorf("event 0: %+v", h.pub.Events[0])
	}
	if h.pub.Events[1].Type != cycle.EventPhase || h.pub.Events[1].Phase != cycle.PhaseRinse || h.pub.Events[1].Elapsed != 32 {
		t.Errorf("event 1: %+v", h.pub.Events[1])
	}
	if h.pub.Events[2].Type != cycle.EventReset {
		t.Errorf("event 2: %+v", h.pub.Events[2])
	}

	// Shutdown event carries the signal name.
	if len(h.pub.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(h.pub.SystemEvents))
	}
	if e := h.pub.SystemEvents[0]; e.Event != "SHUTDOWN" || e.Reason != "SIGTERM" {
		t.Errorf("system event: %+v", e)
	}

	// Reset then shutdown leave the panel dark.
	if h.leds.Current() != 0 {
		t.Errorf("leds left at %04b", h.leds.Current())
	}
	if h.pwm.Current() != cycle.DutyOff {
		t.Errorf("pwm left at %d", h.pwm.Current())
	}
	if h.disp.Last() != 0 {
		t.Errorf("display left at %08b", h.disp.Last())
	}
}

func TestRunLoopInvalidStartIsIgnored(t *testing.T) {
	// Fault sentinel on the bus: start must not begin a cycle.
	h := newLoopHarness(cycle.Inputs{Level: 3, Extended: true}, 0)

	h.startBtn <- struct{}{}
	for i := 0; i < 5; i++ {
		h.tick <- time.Now()
	}

	snap := h.tracker.Snapshot()
	if snap.State != cycle.StateIdle {
		t.Errorf("expected IDLE, got %s", snap.State)
	}
	if snap.Elapsed != 0 {
		t.Errorf("elapsed advanced to %d", snap.Elapsed)
	}

	h.shutdown(t)
	if len(h.pub.Events) != 0 {
		t.Errorf("expected no cycle events, got %v", h.pub.Events)
	}
}

func TestRunLoopResetWhileIdleIsSafe(t *testing.T) {
	h := newLoopHarness(cycle.Inputs{Level: 0}, 0)

	h.resetBtn <- struct{}{}
	h.resetBtn <- struct{}{}

	snap := h.tracker.Snapshot()
	if snap.State != cycle.StateIdle || snap.Elapsed != 0 {
		t.Errorf("unexpected state after idle resets: %+v", snap)
	}
	h.shutdown(t)
}

func TestRunLoopHeartbeatFiresWhileIdle(t *testing.T) {
	h := newLoopHarness(cycle.Inputs{Level: 0}, time.Nanosecond)

	h.tick <- time.Now()
	h.shutdown(t)

	foundHB := false
	for _, e := range h.pub.SystemEvents {
		if e.Event == "HEARTBEAT" {
			foundHB = true
		}
	}
	if !foundHB {
		t.Error("expected a heartbeat on the tick cadence while idle")
	}
}

func TestRunLoopRefreshAlternatesDigits(t *testing.T) {
	h := newLoopHarness(cycle.Inputs{Level: 2, Extended: true}, 0)

	h.refresh <- time.Now()
	h.refresh <- time.Now()
	h.shutdown(t)

	// First refresh is the right digit (level), second the left (mode
	// label); the shutdown blank write follows.
	if len(h.disp.Writes) != 3 {
		t.Fatalf("expected 3 display writes, got %d", len(h.disp.Writes))
	}
	if h.disp.Writes[0]>>7 != 0 {
		t.Errorf("first refresh should light digit 0, wrote %08b", h.disp.Writes[0])
	}
	if h.disp.Writes[1]>>7 != 1 {
		t.Errorf("second refresh should light digit 1, wrote %08b", h.disp.Writes[1])
	}
}

func TestRunLoopSurvivesBusReadError(t *testing.T) {
	h := newLoopHarness(cycle.Inputs{Level: 0}, 0)
	h.bus.ReadError = os.ErrClosed

	h.startBtn <- struct{}{}
	h.refresh <- time.Now()

	snap := h.tracker.Snapshot()
	if snap.State != cycle.StateIdle {
		t.Errorf("expected IDLE after failed reads, got %s", snap.State)
	}
	h.shutdown(t)
}
