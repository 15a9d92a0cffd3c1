package hw

import (
	"errors"

	"github.com/wbarker/washctl/internal/cycle"
)

// FakeBus is a test double that returns scripted input-bus samples.
type FakeBus struct {
	// Samples contains scripted bus snapshots to return. Each call to
	// Read() consumes the next sample; when exhausted the last sample
	// is returned repeatedly.
	Samples []cycle.Inputs

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeBus creates a FakeBus with the given samples.
func NewFakeBus(samples ...cycle.Inputs) *FakeBus {
	return &FakeBus{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeBus) Read() (cycle.Inputs, error) {
	if f.ReadError != nil {
		return cycle.Inputs{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return cycle.Inputs{}, errors.New("no samples configured")
	}
	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample, nil
}

// Close marks the bus as closed.
func (f *FakeBus) Close() error {
	f.Closed = true
	return nil
}

// Set replaces the script with a single sample, so subsequent reads all
// observe it. Handy for "switches held steady" scenarios.
func (f *FakeBus) Set(in cycle.Inputs) {
	f.Samples = []cycle.Inputs{in}
	f.index = 0
}

// FakeButtons delivers button edges pushed by the test.
type FakeButtons struct {
	start chan struct{}
	reset chan struct{}

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeButtons creates a FakeButtons with buffered event channels.
func NewFakeButtons() *FakeButtons {
	return &FakeButtons{
		start: make(chan struct{}, 8),
		reset: make(chan struct{}, 8),
	}
}

// Start returns the start-edge channel.
func (f *FakeButtons) Start() <-chan struct{} { return f.start }

// Reset returns the reset-edge channel.
func (f *FakeButtons) Reset() <-chan struct{} { return f.reset }

// PressStart injects one start-button edge.
func (f *FakeButtons) PressStart() { f.start <- struct{}{} }

// PressReset injects one reset-button edge.
func (f *FakeButtons) PressReset() { f.reset <- struct{}{} }

// Close marks the buttons as closed.
func (f *FakeButtons) Close() error {
	f.Closed = true
	return nil
}

// FakeDisplay records every display byte written.
type FakeDisplay struct {
	Writes []byte

	// WriteError, if set, will be returned by Write()
	WriteError error
}

// Write records the display byte.
func (f *FakeDisplay) Write(b byte) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, b)
	return nil
}

// Last returns the most recent display byte, or 0 if none.
func (f *FakeDisplay) Last() byte {
	if len(f.Writes) == 0 {
		return 0
	}
	return f.Writes[len(f.Writes)-1]
}

// FakeLEDBar records every progress-bar mask written.
type FakeLEDBar struct {
	Masks []uint8
}

// Set records the mask.
func (f *FakeLEDBar) Set(mask uint8) error {
	f.Masks = append(f.Masks, mask)
	return nil
}

// Current returns the most recent mask, or 0 if none.
func (f *FakeLEDBar) Current() uint8 {
	if len(f.Masks) == 0 {
		return 0
	}
	return f.Masks[len(f.Masks)-1]
}

// FakePWM records every duty written.
type FakePWM struct {
	Duties []uint8
}

// SetDuty records the duty.
func (f *FakePWM) SetDuty(duty uint8) error {
	f.Duties = append(f.Duties, duty)
	return nil
}

// Current returns the most recent duty, or DutyOff if none.
func (f *FakePWM) Current() uint8 {
	if len(f.Duties) == 0 {
		return cycle.DutyOff
	}
	return f.Duties[len(f.Duties)-1]
}
