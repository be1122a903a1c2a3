package freakgen

import (
	"math"
	"strconv"
)

// MaxRaw is the largest value of the MIDI CC domain.
const MaxRaw = 127

// Percent maps a raw value to 0..100.
func Percent(raw int) int {
	return int(math.Round(float64(raw) / MaxRaw * 100))
}

// PercentString renders a raw value as a percentage, e.g. "57%".
func PercentString(raw int) string {
	return strconv.Itoa(Percent(raw)) + "%"
}

// PercentRange returns the raw range that covers the percentage band
// minPc..maxPc.
func PercentRange(minPc, maxPc int) (lo, hi int) {
	return minPc * MaxRaw / 100, maxPc * MaxRaw / 100
}

// FormatShape renders a manual-only curve shape amount, 1..100.
func FormatShape(v int) string {
	return strconv.Itoa(v) + "%"
}

// Bipolar maps a raw value centered at 64 to -100..100.
func Bipolar(raw int) int {
	return int(math.Round(float64(raw-64) / 63 * 100))
}

// BipolarString renders a bipolar raw value, e.g. "-48".
func BipolarString(raw int) string {
	return strconv.Itoa(Bipolar(raw))
}

// Interpolate maps raw linearly from rawLo..rawHi onto lo..hi, rounding to
// the nearest integer.
func Interpolate(raw, rawLo, rawHi, lo, hi int) int {
	if rawHi == rawLo {
		return lo
	}
	return lo + int(math.Round(float64(raw-rawLo)*float64(hi-lo)/float64(rawHi-rawLo)))
}

// KiloHertz renders a raw cutoff over the 0.5..20 kHz span.
func KiloHertz(raw int) string {
	return strconv.FormatFloat(float64(raw)/MaxRaw*19.5+0.5, 'f', 1, 64) + "kHz"
}

// Hertz renders a raw value over the lo..hi Hz span.
func Hertz(raw, lo, hi int) string {
	return strconv.Itoa(Interpolate(raw, 0, MaxRaw, lo, hi)) + "Hz"
}

// LFOHertz renders the free running LFO rate, 0..50 Hz.
func LFOHertz(raw int) string {
	return strconv.FormatFloat(float64(raw)/MaxRaw*50, 'f', 2, 64) + " Hz"
}

// FormatTime renders milliseconds the way the panel shows them: "350ms" below
// one second, "1.25s" from one second on.
func FormatTime(ms int) string {
	if ms >= 1000 {
		return strconv.FormatFloat(float64(ms)/1000, 'f', 2, 64) + "s"
	}
	return strconv.Itoa(ms) + "ms"
}

// TimeString renders a raw value over the lo..hi ms span.
func TimeString(raw, lo, hi int) string {
	return FormatTime(Interpolate(raw, 0, MaxRaw, lo, hi))
}

// IndexToRaw spreads index i of an n element vocabulary over 0..127.
func IndexToRaw(i, n int) int {
	if n <= 1 {
		return 0
	}
	return Interpolate(i, 0, n-1, 0, MaxRaw)
}

// RawToIndex is the inverse of IndexToRaw.
func RawToIndex(raw, n int) int {
	if n <= 1 {
		return 0
	}
	return Interpolate(raw, 0, MaxRaw, 0, n-1)
}

// ClampRaw clamps v to the MIDI CC domain.
func ClampRaw(v int) int {
	return min(max(v, 0), MaxRaw)
}
