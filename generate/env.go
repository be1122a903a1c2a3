package generate

import "github.com/freakgen/freakgen"

// decayRanges bounds Decay/Release per style, in ms. Styles missing from the
// map use defaultDecay.
var decayRanges = map[freakgen.Style][2]int{
	freakgen.StylePercussion: {20, 400},
	freakgen.StyleBass:       {100, 2000},
	freakgen.StylePad:        {1000, 8000},
}

var defaultDecay = [2]int{200, 4000}

// DecayRange returns the Decay/Release span of the style in ms.
func DecayRange(style freakgen.Style) (lo, hi int) {
	d, ok := decayRanges[style]
	if !ok {
		d = defaultDecay
	}
	return d[0], d[1]
}

// Envelope generates the Amp & Filter envelope block.
func Envelope(r Rand, style freakgen.Style) freakgen.Block {
	attack := attackRow(r, style)

	lo, hi := DecayRange(style)
	decay := timeRow(r, "Decay/Rel", lo, hi, "Adjust the Decay/Release slider in the Envelope section.")

	var amtRaw int
	switch style {
	case freakgen.StylePercussion, freakgen.StyleBrass, freakgen.StylePad:
		amtRaw = between(r, 80, 127)
	default:
		amtRaw = anyRaw(r)
	}
	amount := freakgen.Row{
		Label:   "Filter Amt",
		Value:   freakgen.BipolarString(amtRaw),
		Raw:     freakgen.IntPtr(amtRaw),
		Kind:    freakgen.KindBipolar,
		Tooltip: "Turn the Filter Amt knob in the Envelope section.",
	}

	const susTip = "Adjust the Sustain slider in the Envelope section."
	sustain := percentBandRow(r, "Sustain", 0, 100, susTip)
	if (style == freakgen.StyleBass || style == freakgen.StyleLead) && chance(r, 0.7) {
		sustain = percentRow("Sustain", between(r, 100, 127), susTip)
	}
	return freakgen.Block{attack, decay, sustain, amount}
}

func attackRow(r Rand, style freakgen.Style) freakgen.Row {
	const tip = "Adjust the Attack slider in the Envelope section."
	switch style {
	case freakgen.StylePercussion:
		return freakgen.Row{Label: "Attack", Value: freakgen.FormatTime(0), Raw: freakgen.IntPtr(0), Kind: freakgen.KindTime, Tooltip: tip}
	case freakgen.StylePad:
		return timeRow(r, "Attack", 1000, 3000, tip)
	}
	return freakgen.Row{Label: "Attack", Value: freakgen.FormatTime(5), Raw: freakgen.IntPtr(anyRaw(r)), Kind: freakgen.KindFixed, Tooltip: tip}
}
