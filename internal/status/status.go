// Package status provides a thread-safe status tracker for the washctl
// daemon. The dispatch loop writes it; HTTP handlers and system-event
// payloads read point-in-time snapshots.
package status

import (
	"sync"
	"time"

	"github.com/wbarker/washctl/internal/cycle"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	RefreshMs   int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state. It is a value type,
// safe to use after the lock is released.
type Snapshot struct {
	State         cycle.State
	Mode          cycle.Mode
	Phase         cycle.Phase
	Elapsed       uint8
	LEDMask       uint8
	Duty          uint8
	WaterLevel    uint8
	Counts        cycle.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     cycle.StateIdle,
			Mode:      cycle.ModeInvalid,
			Duty:      cycle.DutyOff,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the controller-derived state. Called from the dispatch loop
// after every tick and button event.
func (t *Tracker) Update(state cycle.State, mode cycle.Mode, phase cycle.Phase, elapsed, leds, duty uint8, counts cycle.EventCounts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Mode = mode
	t.snap.Phase = phase
	t.snap.Elapsed = elapsed
	t.snap.LEDMask = leds
	t.snap.Duty = duty
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetWaterLevel records the last sampled water-level selection.
func (t *Tracker) SetWaterLevel(level uint8) {
	t.mu.Lock()
	t.snap.WaterLevel = level
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
