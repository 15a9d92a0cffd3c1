package display

import (
	"testing"

	"github.com/wbarker/washctl/internal/cycle"
)

func TestRenderDigitSelectRoundTrip(t *testing.T) {
	for index := uint8(0); index < 5; index++ {
		for digit := uint8(0); digit < 2; digit++ {
			b := Render(index, digit, false)
			if got := b >> 7; got != digit {
				t.Errorf("index %d digit %d: top bit %d does not recover digit", index, digit, got)
			}
			if b&0x7F != glyphs[index]&0x7F {
				t.Errorf("index %d digit %d: segments %07b, want %07b", index, digit, b&0x7F, glyphs[index]&0x7F)
			}
		}
	}
}

func TestRenderFinishedGlyph(t *testing.T) {
	// Both digits show the done glyph, distinguished only by the
	// digit-select bit, regardless of index.
	for index := uint8(0); index < 5; index++ {
		right := Render(index, 0, true)
		left := Render(index, 1, true)
		if right != doneGlyph {
			t.Errorf("index %d: right digit %08b, want %08b", index, right, doneGlyph)
		}
		if left != doneGlyph|0x80 {
			t.Errorf("index %d: left digit %08b, want %08b", index, left, doneGlyph|0x80)
		}
		if right&0x7F != left&0x7F {
			t.Errorf("index %d: finished digits differ beyond digit select", index)
		}
	}
}

func TestIndexFor(t *testing.T) {
	tests := []struct {
		name  string
		in    cycle.Inputs
		digit uint8
		want  uint8
	}{
		{"right digit shows level 0", cycle.Inputs{Level: 0}, 0, 0},
		{"right digit shows level 2", cycle.Inputs{Level: 2}, 0, 2},
		{"right digit shows level 3", cycle.Inputs{Level: 3}, 0, 3},
		{"right digit ignores mode", cycle.Inputs{Level: 1, Extended: true}, 0, 1},
		{"left digit extended label", cycle.Inputs{Extended: true}, 1, 3},
		{"left digit normal label", cycle.Inputs{Extended: false}, 1, 4},
		{"left digit ignores level", cycle.Inputs{Level: 2, Extended: false}, 1, 4},
	}
	for _, tt := range tests {
		if got := IndexFor(tt.in, tt.digit); got != tt.want {
			t.Errorf("%s: IndexFor(%+v, %d) = %d, want %d", tt.name, tt.in, tt.digit, got, tt.want)
		}
	}
}

func TestIndexForAlwaysValid(t *testing.T) {
	for level := uint8(0); level < 8; level++ {
		for _, ext := range []bool{false, true} {
			for digit := uint8(0); digit < 2; digit++ {
				idx := IndexFor(cycle.Inputs{Level: level, Extended: ext}, digit)
				if idx > 4 {
					t.Errorf("IndexFor(level=%d ext=%v digit=%d) = %d out of glyph range", level, ext, digit, idx)
				}
			}
		}
	}
}

func TestMuxAlternatesDigits(t *testing.T) {
	m := &Mux{}
	in := cycle.Inputs{Level: 1, Extended: true}

	for i := 0; i < 6; i++ {
		wantDigit := uint8(i % 2)
		if m.Digit() != wantDigit {
			t.Fatalf("refresh %d: digit %d, want %d", i, m.Digit(), wantDigit)
		}
		b := m.Next(in, false)
		if b>>7 != wantDigit {
			t.Errorf("refresh %d: output digit bit %d, want %d", i, b>>7, wantDigit)
		}
	}
}

func TestMuxRendersLevelThenMode(t *testing.T) {
	m := &Mux{}
	in := cycle.Inputs{Level: 2, Extended: false}

	right := m.Next(in, false)
	left := m.Next(in, false)

	if want := glyphs[2] & 0x7F; right != want {
		t.Errorf("right digit: %08b, want %08b (level glyph)", right, want)
	}
	if want := glyphs[4]&0x7F | 0x80; left != want {
		t.Errorf("left digit: %08b, want %08b (normal label)", left, want)
	}
}
