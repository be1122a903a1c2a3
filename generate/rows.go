package generate

import "github.com/freakgen/freakgen"

func textRow(label, value, tooltip string) freakgen.Row {
	return freakgen.Row{Label: label, Value: value, Tooltip: tooltip}
}

func percentRow(label string, raw int, tooltip string) freakgen.Row {
	return freakgen.Row{Label: label, Value: freakgen.PercentString(raw), Raw: freakgen.IntPtr(raw), Kind: freakgen.KindPercent, Tooltip: tooltip}
}

// percentBandRow samples a raw value inside the minPc..maxPc band.
func percentBandRow(r Rand, label string, minPc, maxPc int, tooltip string) freakgen.Row {
	lo, hi := freakgen.PercentRange(minPc, maxPc)
	return percentRow(label, between(r, lo, hi), tooltip)
}

// timeRow samples a raw value and derives a lo..hi ms display from it.
func timeRow(r Rand, label string, lo, hi int, tooltip string) freakgen.Row {
	raw := anyRaw(r)
	return freakgen.Row{Label: label, Value: freakgen.TimeString(raw, lo, hi), Raw: freakgen.IntPtr(raw), Kind: freakgen.KindTime, Tooltip: tooltip}
}

func choiceRow(label, value string, raw int, tooltip string) freakgen.Row {
	return freakgen.Row{Label: label, Value: value, Raw: freakgen.IntPtr(raw), Kind: freakgen.KindChoice, Tooltip: tooltip}
}
