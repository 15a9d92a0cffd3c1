// Package cycle contains the pure cycle-timing state machine for the washer
// controller. This package has NO hardware dependencies (no GPIO, MQTT, OS,
// or time.Sleep). Time enters only as delivered tick events and explicit
// time.Time parameters.
package cycle

import "time"

// Mode is the wash mode derived from the input bus.
type Mode string

const (
	ModeExtended Mode = "EXTENDED"
	ModeNormal   Mode = "NORMAL"
	ModeInvalid  Mode = "INVALID"
)

// State represents the logical state of the cycle controller.
type State string

const (
	StateIdle     State = "IDLE"
	StateActive   State = "ACTIVE"
	StateFinished State = "FINISHED"
)

// Phase is one of the three animation phases of an active cycle.
type Phase string

const (
	PhaseWash  Phase = "WASH"
	PhaseRinse Phase = "RINSE"
	PhaseSpin  Phase = "SPIN"
)

// Inputs is a single sample of the mode/level input bus.
type Inputs struct {
	// Level is the 2-bit water level selection (0-3). Both bits set is
	// also the fault sentinel.
	Level uint8
	// Extended is the mode-select bit: true = extended wash.
	Extended bool
}

// faultLevel is the input pattern signalling a switch fault: both
// low-order level bits set.
const faultLevel = 3

// Classify derives the wash mode from an input sample. It is a pure
// function of the instantaneous snapshot; callers must re-sample on every
// use since the switches can change between cycle start and each tick.
func Classify(in Inputs) Mode {
	if in.Level&faultLevel == faultLevel {
		return ModeInvalid
	}
	if in.Extended {
		return ModeExtended
	}
	return ModeNormal
}

// PWM duty values for the indicator LED at 10%, 50% and 90% brightness.
// Polarity is inverted: lower = brighter, DutyOff = fully off.
const (
	DutyWash  uint8 = 230
	DutyRinse uint8 = 128
	DutySpin  uint8 = 26
	DutyOff   uint8 = 255
)

// Phase thresholds in elapsed ticks. Wash length is identical in both
// modes; extended mode doubles the rinse allocation (64 vs 32 ticks).
const (
	washEndTicks        uint8 = 32
	normalRinseEndTicks uint8 = 64
	normalDoneTicks     uint8 = 96
	extRinseEndTicks    uint8 = 96
	extDoneTicks        uint8 = 128
)

// EventType labels a cycle transition to be published.
type EventType string

const (
	EventStarted  EventType = "CYCLE_STARTED"
	EventPhase    EventType = "PHASE_CHANGED"
	EventFinished EventType = "CYCLE_FINISHED"
	EventReset    EventType = "CYCLE_RESET"
)

// Event describes one cycle transition.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Mode      Mode
	Phase     Phase
	Elapsed   uint8
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Started      int
	PhaseChanges int
	Finished     int
	Resets       int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
