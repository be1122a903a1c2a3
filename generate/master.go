package generate

import (
	"strconv"

	"github.com/freakgen/freakgen"
)

// glideRange describes how an intensity may add glide: the probability, the
// time span and the raw CC span the time is spread over.
type glideRange struct {
	prob           float64
	minMs, maxMs   int
	minRaw, maxRaw int
}

var glideRanges = map[freakgen.Intensity]glideRange{
	freakgen.High:    {prob: 0.25, minMs: 10, maxMs: 500, minRaw: 5, maxRaw: 40},
	freakgen.Extreme: {prob: 0.50, minMs: 10, maxMs: 10000, minRaw: 5, maxRaw: 100},
}

// Master generates the Master & Voice block. forceMono is set when the
// oscillator engine only works monophonically.
func Master(r Rand, style freakgen.Style, intensity freakgen.Intensity, forceMono bool) freakgen.Block {
	mode := voiceMode(r, style, forceMono)
	spread := ""
	if mode == freakgen.Unison {
		jitter := r.Float64()*0.246 - 0.123
		spread = strconv.FormatFloat(pick(r, freakgen.UnisonSpots)+jitter, 'f', 3, 64)
	}
	filterTypes := freakgen.FilterTypes
	if style == freakgen.StylePercussion {
		filterTypes = []string{"BP", "HP"}
	}
	filterType := pick(r, filterTypes)
	cutRaw := anyRaw(r)
	cutoff := freakgen.KiloHertz(cutRaw)
	if style == freakgen.StylePercussion {
		cutoff = freakgen.Hertz(cutRaw, 500, 5000)
	}
	res := percentBandRow(r, "Resonance", 10, 80, "Turn the Resonance knob in the Analog Filter section.")
	octave := "0"
	if style == freakgen.StyleBass {
		octave = "-2"
	}
	return freakgen.Block{
		textRow("Octave", octave, "Use the Octave |< >| buttons above the keyboard."),
		textRow("Voice Mode", mode, "Press 'Paraphonic'. Shift+Para for Unison/Mono."),
		textRow("Unison Spread", spread, "Amount of detune. (Check Utility menu or Shift functions for Unison Spread)."),
		glide(r, intensity),
		textRow("Filter Type", filterType, "Press the 'Filter Type' button to cycle (LP/BP/HP)."),
		{Label: "Cutoff", Value: cutoff, Raw: freakgen.IntPtr(cutRaw), Kind: freakgen.KindFrequency, Tooltip: "Turn the Cutoff knob in the Analog Filter section."},
		res,
	}
}

func voiceMode(r Rand, style freakgen.Style, forceMono bool) string {
	switch {
	case forceMono, style == freakgen.StyleLead, style == freakgen.StyleBass, style == freakgen.StylePercussion:
		return freakgen.Monophonic
	case style == freakgen.StylePad:
		if chance(r, 0.7) {
			return freakgen.Paraphonic
		}
		return pick(r, []string{freakgen.Monophonic, freakgen.Unison})
	}
	return pick(r, freakgen.VoiceModes)
}

// glide returns the glide row. Without glide the display is empty and the raw
// value 0, which turns glide off on the instrument.
func glide(r Rand, intensity freakgen.Intensity) freakgen.Row {
	row := freakgen.Row{Label: "Glide", Raw: freakgen.IntPtr(0), Kind: freakgen.KindTime, Tooltip: "Turn the Glide knob."}
	g, ok := glideRanges[intensity]
	if !ok || !chance(r, g.prob) {
		return row
	}
	raw := between(r, g.minRaw, g.maxRaw)
	row.Raw = freakgen.IntPtr(raw)
	row.Value = freakgen.FormatTime(freakgen.Interpolate(raw, g.minRaw, g.maxRaw, g.minMs, g.maxMs))
	return row
}

// GlideMillis recovers the glide time of a glide row from its raw value. ok
// is false when the row carries no glide.
func GlideMillis(intensity freakgen.Intensity, raw int) (ms int, ok bool) {
	g, found := glideRanges[intensity]
	if !found || raw < g.minRaw || raw > g.maxRaw {
		return 0, false
	}
	return freakgen.Interpolate(raw, g.minRaw, g.maxRaw, g.minMs, g.maxMs), true
}
