// Package dispatch turns patches into MIDI control changes and the list of
// settings that have to be made by hand on the instrument.
package dispatch

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/freakgen/freakgen"
)

// Controller numbers of the MicroFreak.
const (
	CCBankMSB     = 0
	CCGlide       = 5
	CCType        = 9
	CCWave        = 10
	CCTimbre      = 12
	CCShape       = 13
	CCCutoff      = 23
	CCCycAmount   = 24
	CCFilterAmt   = 26
	CCCycHold     = 28
	CCSustain     = 29
	CCBankLSB     = 32
	CCResonance   = 83
	CCLFORateFree = 93
	CCLFORateSync = 94
	CCCycRise     = 102
	CCCycFall     = 103
	CCAttack      = 105
	CCDecay       = 106
)

type (
	// Control is one control change of a plan.
	Control struct {
		Param      string `json:"param" yaml:"param"`
		Controller uint8  `json:"cc" yaml:"cc"`
		Value      uint8  `json:"value" yaml:"value"`
	}

	// Instruction is a setting without a controller, to be made on the
	// panel.
	Instruction struct {
		Param string `json:"param" yaml:"param"`
		Value string `json:"value" yaml:"value"`
	}

	// Plan is everything needed to put a patch on the instrument.
	Plan struct {
		Controls []Control     `json:"controls" yaml:"controls"`
		Manual   []Instruction `json:"manual" yaml:"manual"`
	}
)

func (i Instruction) String() string {
	return i.Param + ": " + i.Value
}

type planner struct {
	Plan
}

func (p *planner) cc(param string, controller uint8, value int) {
	p.Controls = append(p.Controls, Control{Param: param, Controller: controller, Value: uint8(freakgen.ClampRaw(value))})
}

func (p *planner) row(b freakgen.Block, label string, controller uint8) {
	r, ok := b.Find(label)
	if !ok {
		return
	}
	p.control(label, controller, r)
}

// control sends r on controller, or lists it as a manual setting when its
// controller value cannot be known.
func (p *planner) control(param string, controller uint8, r freakgen.Row) {
	v, ok := rowValue(r)
	if !ok {
		if r.Value != "" {
			p.manual(param, r.Value)
		}
		return
	}
	p.cc(param, controller, v)
}

func (p *planner) manual(param, value string) {
	p.Manual = append(p.Manual, Instruction{Param: param, Value: value})
}

// NewPlan builds the dispatch plan of a patch: a control change for every
// row the instrument exposes a controller for, in panel order, and a manual
// instruction for everything else.
func NewPlan(patch freakgen.Patch) Plan {
	var p planner
	p.osc(patch.Osc)
	p.master(patch.Master)
	p.env(patch.Env)
	p.lfo(patch.LFO)
	p.cyc(patch.Cyc)
	p.matrix(patch.Matrix)
	return p.Plan
}

func (p *planner) osc(b freakgen.Block) {
	if t, ok := b.Find("Type"); ok {
		if e, err := freakgen.ParseEngine(t.Value); err == nil {
			p.cc("Type", CCType, e.Info().TypeCC)
		} else {
			p.manual("Osc Type", t.Value)
		}
	}
	if len(b) >= 4 {
		for i, controller := range []uint8{CCWave, CCTimbre, CCShape} {
			p.control(b[i+1].Label, controller, b[i+1])
		}
	}
}

func (p *planner) master(b freakgen.Block) {
	if oct := b.Value("Octave"); oct != "" && oct != "0" {
		if !strings.HasPrefix(oct, "-") && !strings.HasPrefix(oct, "+") {
			oct = "+" + oct
		}
		p.manual("Octave", oct)
	}
	if v := b.Value("Voice Mode"); v != "" {
		p.manual("Voice Mode", v)
	}
	if v := b.Value("Unison Spread"); v != "" && v != "0" {
		p.manual("Unison Spread", v)
	}
	if v := b.Value("Filter Type"); v != "" {
		p.manual("Filter Type", v)
	}
	p.row(b, "Cutoff", CCCutoff)
	p.row(b, "Resonance", CCResonance)
	p.row(b, "Glide", CCGlide)
}

func (p *planner) env(b freakgen.Block) {
	p.row(b, "Attack", CCAttack)
	p.row(b, "Decay/Rel", CCDecay)
	p.row(b, "Sustain", CCSustain)
	p.row(b, "Filter Amt", CCFilterAmt)
}

func (p *planner) lfo(b freakgen.Block) {
	if b.IsBlank() {
		return
	}
	if v := b.Value("Shape"); v != "" {
		p.manual("LFO Shape", v)
	}
	sync := b.Value("Sync")
	if sync != "" {
		p.manual("LFO Sync", sync)
	}
	if r, ok := b.Find("Rate"); ok {
		if strings.EqualFold(sync, "ON") {
			p.control("LFO Rate Sync", CCLFORateSync, r)
		} else {
			p.control("LFO Rate Free", CCLFORateFree, r)
		}
	}
}

func (p *planner) cyc(b freakgen.Block) {
	if len(b) == 0 || b.IsBlank() {
		return
	}
	if v := b.Value("Mode"); v != "" {
		p.manual("Cycling Env Mode", v)
	}
	for _, label := range []string{"Rise Shape", "Fall Shape"} {
		if v := b.Value(label); v != "" {
			p.manual("Cycling Env "+label, v)
		}
	}
	p.row(b, "Rise", CCCycRise)
	p.row(b, "Fall", CCCycFall)
	if _, ok := b.Find("Hold"); ok {
		p.row(b, "Hold", CCCycHold)
	} else {
		p.row(b, "Sustain", CCCycHold)
	}
	p.row(b, "Amount", CCCycAmount)
}

func (p *planner) matrix(m *freakgen.Matrix) {
	if m == nil {
		return
	}
	for i, target := range m.Config {
		if i < len(freakgen.AssignSlots) && target != freakgen.Blank {
			p.manual(string(freakgen.AssignSlots[i]), target)
		}
	}
	for _, c := range m.Connections {
		if c.Amount == 0 {
			continue
		}
		dest := string(c.Destination)
		if c.Destination.IsAssign() {
			dest += " (" + c.Target + ")"
		}
		p.manual(string(c.Source)+" → "+dest, strconv.FormatFloat(c.Amount, 'f', -1, 64))
	}
}

// rowValue returns the controller value of a row: its raw value, or for
// rows without one, the value of a percentage or bipolar display. Other
// displays, times among them, depend on a span the row does not carry and
// report ok false.
func rowValue(r freakgen.Row) (v int, ok bool) {
	if raw, ok := r.RawValue(); ok {
		return raw, true
	}
	s := strings.TrimSpace(r.Value)
	if n, found := strings.CutSuffix(s, "%"); found {
		pct, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return int(float64(pct) * 1.27), true
	}
	if r.Kind == freakgen.KindBipolar {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return int(math.Round(64 + float64(n)*0.64)), true
	}
	return 0, false
}

// ProgramNumber clamps a preset number to 1..384 and splits it into the
// bank select MSB and the program number.
func ProgramNumber(preset int) (clamped, bank, program int) {
	clamped = min(max(preset, 1), 384)
	return clamped, (clamped - 1) / 128, (clamped - 1) % 128
}

// Summary is a one line description of a plan.
func (p Plan) Summary() string {
	return fmt.Sprintf("%d controls, %d manual settings", len(p.Controls), len(p.Manual))
}
