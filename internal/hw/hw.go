// Package hw abstracts the washer's I/O lines.
// The real implementations use the Linux GPIO character device; the fakes
// allow testing without hardware.
package hw

import "github.com/wbarker/washctl/internal/cycle"

// InputBus samples the mode/level switch bus on demand.
type InputBus interface {
	// Read returns an instantaneous snapshot of the input bus.
	Read() (cycle.Inputs, error)

	// Close releases GPIO resources.
	Close() error
}

// Buttons delivers debounced rising-edge events from the start and reset
// buttons. The channels are buffered; an edge arriving while a previous
// one is still pending is coalesced.
type Buttons interface {
	Start() <-chan struct{}
	Reset() <-chan struct{}
	Close() error
}

// DisplaySink receives the seven-segment output byte (segment mask plus
// digit select in bit 7).
type DisplaySink interface {
	Write(b byte) error
}

// LEDBar drives the four progress-bar LEDs from a 4-bit mask.
type LEDBar interface {
	Set(mask uint8) error
}

// PWM sets the indicator-LED duty. Polarity is inverted: 0 is full
// brightness, 255 is fully off.
type PWM interface {
	SetDuty(duty uint8) error
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinStart = 23
	DefaultPinReset = 24
	DefaultPinPWM   = 12
)

// DefaultBusPins are the input-bus lines: level bit 0, level bit 1,
// mode select.
var DefaultBusPins = [3]int{5, 6, 13}

// DefaultSegmentPins are the display lines for output-byte bits 0-7
// (segments a-g plus the digit-select bit).
var DefaultSegmentPins = [8]int{14, 15, 18, 25, 8, 7, 1, 21}

// DefaultLEDPins are the progress-bar lines for mask bits 0-3.
var DefaultLEDPins = [4]int{17, 27, 22, 10}
