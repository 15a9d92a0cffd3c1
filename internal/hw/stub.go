//go:build !linux

package hw

import (
	"errors"
	"time"

	"github.com/wbarker/washctl/internal/cycle"
)

// The real hardware layer needs the Linux GPIO character device; on other
// platforms the constructors fail and callers fall back to fakes or exit.

var errUnsupported = errors.New("hw: not supported on this platform (requires Linux)")

// RealBus is not available on non-Linux platforms.
type RealBus struct{}

// NewRealBus returns an error on non-Linux platforms.
func NewRealBus(chipName string, pins [3]int) (*RealBus, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealBus) Read() (cycle.Inputs, error) {
	return cycle.Inputs{}, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealBus) Close() error { return nil }

// RealButtons is not available on non-Linux platforms.
type RealButtons struct{}

// NewRealButtons returns an error on non-Linux platforms.
func NewRealButtons(chipName string, pinStart, pinReset int) (*RealButtons, error) {
	return nil, errUnsupported
}

// Start is not implemented on non-Linux platforms.
func (b *RealButtons) Start() <-chan struct{} { return nil }

// Reset is not implemented on non-Linux platforms.
func (b *RealButtons) Reset() <-chan struct{} { return nil }

// Close is not implemented on non-Linux platforms.
func (b *RealButtons) Close() error { return nil }

// RealDisplay is not available on non-Linux platforms.
type RealDisplay struct{}

// NewRealDisplay returns an error on non-Linux platforms.
func NewRealDisplay(chipName string, pins [8]int) (*RealDisplay, error) {
	return nil, errUnsupported
}

// Write is not implemented on non-Linux platforms.
func (d *RealDisplay) Write(b byte) error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (d *RealDisplay) Close() error { return nil }

// RealLEDBar is not available on non-Linux platforms.
type RealLEDBar struct{}

// NewRealLEDBar returns an error on non-Linux platforms.
func NewRealLEDBar(chipName string, pins [4]int) (*RealLEDBar, error) {
	return nil, errUnsupported
}

// Set is not implemented on non-Linux platforms.
func (l *RealLEDBar) Set(mask uint8) error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (l *RealLEDBar) Close() error { return nil }

// NewRealPWM returns an error on non-Linux platforms.
func NewRealPWM(chipName string, pin int, period time.Duration) (*SoftPWM, error) {
	return nil, errUnsupported
}
