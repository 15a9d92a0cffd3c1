package cycle

// The three progress-bar pattern generators. Each maps the global elapsed
// tick count to a 4-bit LED mask and is total over the full uint8 domain.
// One visual step lasts two ticks; every pattern repeats on a 16-tick
// window ("sweep then hold").

const allOn uint8 = 0b1111

// WashPattern chases a single LED from position 0 to 3 for the first 8
// ticks of every 16-tick window, then holds all four LEDs on.
func WashPattern(elapsed uint8) uint8 {
	if (elapsed/2)%16 < 8 {
		return 1 << ((elapsed / 2) % 4)
	}
	return allOn
}

// RinsePattern chases from position 3 down to 0 for the first 8 ticks of
// the window, then blinks: all on for two ticks, all off for two ticks.
func RinsePattern(elapsed uint8) uint8 {
	if (elapsed/2)%16 < 8 {
		return 1 << (3 - (elapsed/2)%4)
	}
	if elapsed%4 < 2 {
		return allOn
	}
	return 0
}

// SpinPattern sweeps out and back within the first 8 ticks of the window
// (twice the speed of wash), then blinks all four LEDs every single tick,
// twice the blink rate of rinse.
func SpinPattern(elapsed uint8) uint8 {
	switch {
	case (elapsed/2)%16 < 4:
		return 1 << ((elapsed / 2) % 4)
	case (elapsed/2)%16 < 8:
		return 1 << (3 - (elapsed/2)%4)
	case elapsed%2 == 0:
		return allOn
	default:
		return 0
	}
}
