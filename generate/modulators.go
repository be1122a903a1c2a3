package generate

import "github.com/freakgen/freakgen"

// Active tells which internal modulators the modulation matrix actually
// routes from. It is derived from a generated matrix and is required by the
// Cycling and LFO generators, which is what forces the matrix to be generated
// before them.
type Active struct {
	CycEnv bool
	LFO    bool
}

// ActiveFrom derives the active modulators from a matrix.
func ActiveFrom(m *freakgen.Matrix) Active {
	return Active{CycEnv: m.Uses(freakgen.CycEnv), LFO: m.Uses(freakgen.LFO)}
}

// Cycling generates the Cycling Envelope block. Shape sub-parameters are only
// exposed above Simple intensity; they have no CC and carry no raw value.
func Cycling(r Rand, intensity freakgen.Intensity, active Active) freakgen.Block {
	if !active.CycEnv {
		return freakgen.BlankBlock()
	}
	mode := pick(r, freakgen.CycModes)
	shapes := intensity != freakgen.Simple

	ret := freakgen.Block{
		textRow("Mode", mode, "Press the Mode button in the Cycling Envelope section."),
		timeRow(r, "Rise", 10, 1000, "Turn the Rise knob in the Cycling Envelope section."),
	}
	if shapes {
		ret = append(ret, textRow("Rise Shape", freakgen.FormatShape(between(r, 1, 100)), "Hold Shift and turn the Rise knob."))
	}
	ret = append(ret, timeRow(r, "Fall", 10, 1000, "Turn the Fall knob in the Cycling Envelope section."))
	if shapes {
		ret = append(ret, textRow("Fall Shape", freakgen.FormatShape(between(r, 1, 100)), "Hold Shift and turn the Fall knob."))
	}
	const holdTip = "Turn the Hold/Sustain knob in the Cycling Envelope section."
	if mode == "Env" {
		ret = append(ret, percentRow("Sustain", anyRaw(r), holdTip))
	} else {
		ret = append(ret, timeRow(r, "Hold", 0, 5000, holdTip))
	}
	ret = append(ret, percentBandRow(r, "Amount", 0, 100, "Turn the Amount knob in the Cycling Envelope section."))
	return ret
}

// LFOBlock generates the LFO block. The raw rate is kept even when the rate
// is tempo synced, so it always holds the free running knob position.
func LFOBlock(r Rand, active Active) freakgen.Block {
	if !active.LFO {
		return freakgen.BlankBlock()
	}
	sync := pick(r, []string{"ON", "OFF"})
	raw := anyRaw(r)
	rate := freakgen.Row{Label: "Rate", Raw: freakgen.IntPtr(raw), Tooltip: "Turn the Rate knob in the LFO section."}
	if sync == "ON" {
		rate.Value = pick(r, freakgen.LFOSyncRates)
		rate.Kind = freakgen.KindFixed
	} else {
		rate.Value = freakgen.LFOHertz(raw)
		rate.Kind = freakgen.KindFrequency
	}
	return freakgen.Block{
		textRow("Shape", pick(r, freakgen.LFOShapes), "Press the Shape button in the LFO section."),
		textRow("Sync", sync, "Press the Sync button in the LFO section."),
		rate,
	}
}
