// Package display renders the two-digit multiplexed seven-segment output.
// A display byte carries the segment mask in its low seven bits and the
// digit select in bit 7 (0 = right digit, 1 = left digit).
package display

import "github.com/wbarker/washctl/internal/cycle"

// glyphs holds the segment masks for the five displayable values:
// indices 0-2 are water levels, 3 is the extended-mode label, 4 the
// normal-mode label.
var glyphs = [5]byte{8, 1, 64, 121, 84}

// doneGlyph (a zero) is shown on both digits once a cycle has finished.
const doneGlyph byte = 63

// segmentMask keeps glyph values out of the digit-select bit.
const segmentMask byte = 0x7F

// Render returns the output byte for one digit. While the finished flag is
// latched both digits show the done glyph, distinguished only by the
// digit-select bit. Callers guarantee index in 0-4 and digit in 0-1.
func Render(index, digit uint8, finished bool) byte {
	if finished {
		return doneGlyph | byte(digit)<<7
	}
	return glyphs[index]&segmentMask | byte(digit)<<7
}

// IndexFor picks the glyph index for a digit from a live input sample:
// the right digit (0) shows the water level, the left digit (1) the
// selected mode's label. The result is always a valid glyph index.
func IndexFor(in cycle.Inputs, digit uint8) uint8 {
	if digit == 0 {
		return in.Level & 3
	}
	if in.Extended {
		return 3
	}
	return 4
}

// Mux tracks which physical digit is lit and alternates on every refresh,
// mirroring the hardware multiplexing of the two digits.
type Mux struct {
	digit uint8
}

// Next produces the output byte for the current refresh from a live input
// sample and flips the digit for the next refresh.
func (m *Mux) Next(in cycle.Inputs, finished bool) byte {
	b := Render(IndexFor(in, m.digit), m.digit, finished)
	m.digit = 1 - m.digit
	return b
}

// Digit returns the digit the next refresh will light.
func (m *Mux) Digit() uint8 { return m.digit }
