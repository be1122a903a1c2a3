package generate

import (
	"strconv"

	"github.com/freakgen/freakgen"
)

var knobTooltips = [3]string{
	"Turn the Wave knob (Orange).",
	"Turn the Timbre knob (White).",
	"Turn the Shape knob (White).",
}

// Oscillator generates the oscillator block. A nil engine picks one at random
// among the engines the style allows.
func Oscillator(r Rand, style freakgen.Style, engine *freakgen.Engine) freakgen.Block {
	var e freakgen.Engine
	if engine != nil {
		e = *engine
	} else {
		e = pick(r, style.Engines())
	}
	info := e.Info()
	labels := e.Labels()
	knobs := make([]freakgen.Row, 3)
	for i := range knobs {
		knobs[i] = percentRow(labels[i], anyRaw(r), knobTooltips[i])
	}
	switch e {
	case freakgen.Chords:
		idx := r.IntN(len(freakgen.ChordTypes))
		knobs[0] = choiceRow(labels[0], freakgen.ChordTypes[idx], freakgen.IndexToRaw(idx, len(freakgen.ChordTypes)), knobTooltips[0])
	case freakgen.Wavetable:
		table := between(r, 1, 16)
		knobs[0] = choiceRow(labels[0], strconv.Itoa(table), freakgen.IndexToRaw(table-1, 16), knobTooltips[0])
	}
	typeRow := freakgen.Row{
		Label:   "Type",
		Value:   info.Name,
		Raw:     freakgen.IntPtr(info.TypeCC),
		Tooltip: "Turn the Type knob in the Digital Oscillator section.",
	}
	return append(freakgen.Block{typeRow}, knobs...)
}

// EngineOf returns the engine an oscillator block was generated with.
func EngineOf(osc freakgen.Block) (freakgen.Engine, bool) {
	e, err := freakgen.ParseEngine(osc.Value("Type"))
	return e, err == nil
}
