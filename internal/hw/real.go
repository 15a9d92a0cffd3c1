//go:build linux

package hw

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/wbarker/washctl/internal/cycle"
)

// buttonDebounce is applied in the kernel to both button lines.
const buttonDebounce = 20 * time.Millisecond

// RealBus samples the mode/level switches through the Linux GPIO
// character device.
type RealBus struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
}

// NewRealBus requests the three input-bus lines (level bit 0, level bit 1,
// mode select) as inputs with pull-down, matching Pi boot defaults.
func NewRealBus(chipName string, pins [3]int) (*RealBus, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	lines, err := chip.RequestLines(pins[:], gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request bus pins %v: %w", pins, err)
	}

	return &RealBus{chip: chip, lines: lines}, nil
}

// Read returns an instantaneous snapshot of the input bus.
func (r *RealBus) Read() (cycle.Inputs, error) {
	vals := make([]int, 3)
	if err := r.lines.Values(vals); err != nil {
		return cycle.Inputs{}, fmt.Errorf("read bus: %w", err)
	}
	return cycle.Inputs{
		Level:    uint8(vals[0]) | uint8(vals[1])<<1,
		Extended: vals[2] != 0,
	}, nil
}

// Close releases the bus lines.
func (r *RealBus) Close() error {
	var errs []error
	if r.lines != nil {
		if err := r.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bus lines: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealButtons delivers kernel-debounced rising edges from the two
// push-buttons.
type RealButtons struct {
	chip      *gpiocdev.Chip
	startLine *gpiocdev.Line
	resetLine *gpiocdev.Line
	start     chan struct{}
	reset     chan struct{}
}

// NewRealButtons requests the start and reset pins as edge-event inputs.
// Events are delivered on buffered channels; an edge arriving while the
// previous one is still pending is dropped, which coalesces bounce the
// kernel filter let through.
func NewRealButtons(chipName string, pinStart, pinReset int) (*RealButtons, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	b := &RealButtons{
		chip:  chip,
		start: make(chan struct{}, 1),
		reset: make(chan struct{}, 1),
	}

	b.startLine, err = chip.RequestLine(pinStart,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithDebounce(buttonDebounce),
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			select {
			case b.start <- struct{}{}:
			default:
			}
		}))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request start pin %d: %w", pinStart, err)
	}

	b.resetLine, err = chip.RequestLine(pinReset,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithDebounce(buttonDebounce),
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			select {
			case b.reset <- struct{}{}:
			default:
			}
		}))
	if err != nil {
		b.startLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request reset pin %d: %w", pinReset, err)
	}

	return b, nil
}

// Start returns the start-edge channel.
func (b *RealButtons) Start() <-chan struct{} { return b.start }

// Reset returns the reset-edge channel.
func (b *RealButtons) Reset() <-chan struct{} { return b.reset }

// Close releases the button lines.
func (b *RealButtons) Close() error {
	var errs []error
	if b.startLine != nil {
		if err := b.startLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close start pin: %w", err))
		}
	}
	if b.resetLine != nil {
		if err := b.resetLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close reset pin: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealDisplay drives the eight seven-segment lines from the display byte.
type RealDisplay struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
}

// NewRealDisplay requests the eight display lines as outputs, all low.
func NewRealDisplay(chipName string, pins [8]int) (*RealDisplay, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	lines, err := chip.RequestLines(pins[:], gpiocdev.AsOutput(0, 0, 0, 0, 0, 0, 0, 0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request display pins %v: %w", pins, err)
	}
	return &RealDisplay{chip: chip, lines: lines}, nil
}

// Write puts the display byte on the lines, bit i on line i.
func (d *RealDisplay) Write(b byte) error {
	vals := make([]int, 8)
	for i := range vals {
		vals[i] = int(b >> i & 1)
	}
	if err := d.lines.SetValues(vals); err != nil {
		return fmt.Errorf("write display: %w", err)
	}
	return nil
}

// Close blanks the display and releases its lines.
func (d *RealDisplay) Close() error {
	d.Write(0)
	var errs []error
	if err := d.lines.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close display lines: %w", err))
	}
	if err := d.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close chip: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealLEDBar drives the four progress-bar LEDs.
type RealLEDBar struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
}

// NewRealLEDBar requests the four LED lines as outputs, all off.
func NewRealLEDBar(chipName string, pins [4]int) (*RealLEDBar, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	lines, err := chip.RequestLines(pins[:], gpiocdev.AsOutput(0, 0, 0, 0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request led pins %v: %w", pins, err)
	}
	return &RealLEDBar{chip: chip, lines: lines}, nil
}

// Set drives the bar from the 4-bit mask, bit i on line i.
func (l *RealLEDBar) Set(mask uint8) error {
	vals := make([]int, 4)
	for i := range vals {
		vals[i] = int(mask >> i & 1)
	}
	if err := l.lines.SetValues(vals); err != nil {
		return fmt.Errorf("write led bar: %w", err)
	}
	return nil
}

// Close turns the bar off and releases its lines.
func (l *RealLEDBar) Close() error {
	l.Set(0)
	var errs []error
	if err := l.lines.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close led lines: %w", err))
	}
	if err := l.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close chip: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// NewRealPWM requests the indicator-LED pin as an output and runs a
// software PWM on it with the given period.
func NewRealPWM(chipName string, pin int, period time.Duration) (*SoftPWM, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request pwm pin %d: %w", pin, err)
	}
	pwm := NewSoftPWM(line.SetValue, period)
	pwm.onClose = func() error {
		line.SetValue(0)
		line.Close()
		return chip.Close()
	}
	return pwm, nil
}
