package hw

import (
	"sync/atomic"
	"time"
)

// SoftPWM bit-bangs a PWM waveform on a single output line from a
// goroutine. Duty follows the inverted 8-bit scale of the PWM interface:
// 0 is full brightness, 255 fully off. The line setter is called with 1
// for the on portion of each period and 0 for the off portion.
type SoftPWM struct {
	set    func(int) error
	period time.Duration
	duty   atomic.Uint32
	stop   chan struct{}
	done   chan struct{}

	// onClose releases the underlying line after the waveform goroutine
	// has stopped.
	onClose func() error
}

// NewSoftPWM starts a waveform goroutine driving the given line setter
// with the given period. The line starts fully off.
func NewSoftPWM(set func(int) error, period time.Duration) *SoftPWM {
	p := &SoftPWM{
		set:    set,
		period: period,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	p.duty.Store(uint32(255))
	go p.run()
	return p
}

// SetDuty sets the duty for subsequent periods. Safe to call concurrently
// with the waveform goroutine.
func (p *SoftPWM) SetDuty(duty uint8) error {
	p.duty.Store(uint32(duty))
	return nil
}

// Close stops the waveform goroutine, leaves the line low, and releases
// the underlying line if one was attached.
func (p *SoftPWM) Close() error {
	close(p.stop)
	<-p.done
	p.set(0)
	if p.onClose != nil {
		return p.onClose()
	}
	return nil
}

func (p *SoftPWM) run() {
	defer close(p.done)
	for {
		duty := uint8(p.duty.Load())
		on := p.period * time.Duration(255-int(duty)) / 255

		switch {
		case on <= 0:
			p.set(0)
			if p.sleep(p.period) {
				return
			}
		case on >= p.period:
			p.set(1)
			if p.sleep(p.period) {
				return
			}
		default:
			p.set(1)
			if p.sleep(on) {
				return
			}
			p.set(0)
			if p.sleep(p.period - on) {
				return
			}
		}
	}
}

// sleep blocks for d or until Close is called. Reports whether the
// waveform goroutine should exit.
func (p *SoftPWM) sleep(d time.Duration) bool {
	select {
	case <-p.stop:
		return true
	case <-time.After(d):
		return false
	}
}
