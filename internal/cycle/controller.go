package cycle

import "time"

// Controller is the cycle-timing state machine. It owns the elapsed-tick
// counter and the latched finished flag, and tracks the output state (LED
// mask, PWM duty, tick-source enable) that the dispatch layer applies to
// the hardware sinks after every transition.
//
// Controller is not safe for concurrent use: the dispatch loop must be the
// only caller, and every other reader observes it through the status
// tracker's snapshots.
type Controller struct {
	active bool
	// finished latches the "done" display glyph. It survives the output
	// reset performed on completion and clears only on the next button
	// event (two-step reset semantics).
	finished bool
	// armed gates the start trigger: disarmed while a cycle runs,
	// re-armed by any reset.
	armed   bool
	elapsed uint8

	phase  Phase
	leds   uint8
	duty   uint8
	tickOn bool

	counts        EventCounts
	startTime     time.Time
	lastHeartbeat time.Time
}

// NewController creates an idle controller. The startTime is used for
// calculating uptime in heartbeat events.
func NewController(startTime time.Time) *Controller {
	return &Controller{
		armed:         true,
		duty:          DutyOff,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Start handles a start-button edge. It is delivered only while the start
// trigger is armed, clears the latched finished flag, and begins a cycle
// only if the sampled mode is valid. Pressing start with a fault present
// therefore drops the "done" glyph without starting anything.
func (c *Controller) Start(m Mode, now time.Time) []Event {
	if !c.armed {
		return nil
	}
	c.finished = false
	if m != ModeExtended && m != ModeNormal {
		return nil
	}

	c.elapsed = 0
	c.phase = PhaseWash
	c.leds = 1 // LED position 0
	c.duty = DutyWash
	c.tickOn = true
	c.armed = false
	c.active = true
	c.counts.Started++

	return []Event{{
		Timestamp: now,
		Type:      EventStarted,
		Mode:      m,
		Phase:     PhaseWash,
	}}
}

// Tick advances an active cycle by one phase-timer firing. The mode is
// re-sampled by the caller on every tick: an invalid sample freezes the
// cycle in place rather than aborting it (a fault blocks starting but only
// pauses a running cycle).
func (c *Controller) Tick(m Mode, now time.Time) []Event {
	if !c.active {
		return nil
	}

	var rinseEnd, done uint8
	switch m {
	case ModeExtended:
		rinseEnd, done = extRinseEndTicks, extDoneTicks
	case ModeNormal:
		rinseEnd, done = normalRinseEndTicks, normalDoneTicks
	default:
		return nil
	}

	c.elapsed++
	prev := c.phase
	switch {
	case c.elapsed < washEndTicks:
		c.phase = PhaseWash
		c.duty = DutyWash
		c.leds = WashPattern(c.elapsed)
	case c.elapsed < rinseEnd:
		c.phase = PhaseRinse
		c.duty = DutyRinse
		c.leds = RinsePattern(c.elapsed)
	case c.elapsed < done:
		c.phase = PhaseSpin
		c.duty = DutySpin
		c.leds = SpinPattern(c.elapsed)
	default:
		elapsed := c.elapsed
		c.resetOutputs()
		c.finished = true
		c.counts.Finished++
		return []Event{{
			Timestamp: now,
			Type:      EventFinished,
			Mode:      m,
			Elapsed:   elapsed,
		}}
	}

	if c.phase != prev {
		c.counts.PhaseChanges++
		return []Event{{
			Timestamp: now,
			Type:      EventPhase,
			Mode:      m,
			Phase:     c.phase,
			Elapsed:   c.elapsed,
		}}
	}
	return nil
}

// Reset handles a reset-button edge: full output reset plus clearing the
// latched finished flag. Accepted in every state and idempotent.
func (c *Controller) Reset(now time.Time) []Event {
	c.resetOutputs()
	c.finished = false
	c.counts.Resets++
	return []Event{{
		Timestamp: now,
		Type:      EventReset,
	}}
}

// resetOutputs returns every output to its idle level and re-arms the
// start trigger. It does not touch the finished flag; callers decide
// (button reset clears it, completion sets it).
func (c *Controller) resetOutputs() {
	c.elapsed = 0
	c.phase = ""
	c.leds = 0
	c.duty = DutyOff
	c.tickOn = false
	c.armed = true
	c.active = false
}

// State returns the logical controller state.
func (c *Controller) State() State {
	switch {
	case c.active:
		return StateActive
	case c.finished:
		return StateFinished
	default:
		return StateIdle
	}
}

// Phase returns the current phase, or "" when no cycle is active.
func (c *Controller) Phase() Phase { return c.phase }

// Elapsed returns the tick counter of the current cycle.
func (c *Controller) Elapsed() uint8 { return c.elapsed }

// LEDMask returns the 4-bit progress-bar mask to drive.
func (c *Controller) LEDMask() uint8 { return c.leds }

// Duty returns the indicator-LED PWM duty to drive (inverted polarity).
func (c *Controller) Duty() uint8 { return c.duty }

// TickEnabled reports whether the phase tick source should be running.
func (c *Controller) TickEnabled() bool { return c.tickOn }

// Finished reports whether the "done" glyph is latched on the display.
func (c *Controller) Finished() bool { return c.finished }

// CountsSnapshot returns a copy of the event counts.
func (c *Controller) CountsSnapshot() EventCounts { return c.counts }

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the interval has not
// elapsed, or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}
	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.counts,
	}
}
