// Package generate builds random, internally consistent MicroFreak patches.
//
// Every function here is a pure function of its arguments and the Rand it is
// given: nothing reads ambient state, so a seeded Rand reproduces a patch
// exactly.
package generate

import (
	"errors"
	"strings"

	"github.com/freakgen/freakgen"
)

// RandomEngine asks the oscillator generator to pick the engine.
const RandomEngine = "random"

// Request is everything one generation pass depends on.
type Request struct {
	Style     freakgen.Style
	Intensity freakgen.Intensity
	// Engine forces the oscillator engine by name; "" or RandomEngine lets
	// the style pick.
	Engine string
	// Locks tells which modules are copied from Previous instead of being
	// generated. A lock on a module Previous does not have is ignored.
	Locks    freakgen.LockSet
	Previous *freakgen.Patch
}

// Normalize replaces invalid request fields with their fallbacks: unknown
// styles become random, unknown intensities simple and unknown engines
// random. The returned error reports what was replaced; the request is
// usable either way.
func (req Request) Normalize() (Request, error) {
	var errs []error
	var err error
	if req.Style, err = freakgen.ParseStyle(string(req.Style)); err != nil {
		errs = append(errs, err)
	}
	if req.Intensity, err = freakgen.ParseIntensity(string(req.Intensity)); err != nil {
		errs = append(errs, err)
	}
	if e := strings.TrimSpace(req.Engine); e == "" || strings.EqualFold(e, RandomEngine) {
		req.Engine = RandomEngine
	} else if _, err := freakgen.ParseEngine(e); err != nil {
		req.Engine = RandomEngine
		errs = append(errs, err)
	}
	return req, errors.Join(errs...)
}

func (req Request) locked(m freakgen.Module) bool {
	return req.Locks.Locked(m) && req.Previous.Has(m)
}

func (req Request) engine() *freakgen.Engine {
	if req.Engine == RandomEngine {
		return nil
	}
	e, err := freakgen.ParseEngine(req.Engine)
	if err != nil {
		return nil
	}
	return &e
}

// ResolveStyle turns StyleRandom into a uniformly chosen concrete style.
func ResolveStyle(r Rand, style freakgen.Style) freakgen.Style {
	if style == freakgen.StyleRandom || !style.Valid() {
		return pick(r, freakgen.Styles)
	}
	return style
}

// Patch runs one generation pass. Modules are generated in dependency order:
// the oscillator decides whether the voice must be mono, the master's voice
// mode shapes the matrix assign pool, and the matrix decides whether the
// cycling envelope and the LFO are active. Locked modules are copied from the
// previous patch and feed the later steps just like fresh ones.
func Patch(r Rand, req Request) freakgen.Patch {
	req, _ = req.Normalize()
	prev := req.Previous
	concrete := ResolveStyle(r, req.Style)

	var osc freakgen.Block
	if req.locked(freakgen.ModuleOsc) {
		osc = prev.Osc.Copy()
	} else {
		osc = Oscillator(r, concrete, req.engine())
	}
	engine, known := EngineOf(osc)
	forceMono := known && engine == freakgen.Chords

	var master freakgen.Block
	if req.locked(freakgen.ModuleMaster) {
		master = prev.Master.Copy()
	} else {
		master = Master(r, concrete, req.Intensity, forceMono)
	}

	var env freakgen.Block
	if req.locked(freakgen.ModuleEnv) {
		env = prev.Env.Copy()
	} else {
		env = Envelope(r, concrete)
	}

	var matrix freakgen.Matrix
	if req.locked(freakgen.ModuleMatrix) {
		matrix = prev.Matrix.Copy()
	} else {
		matrix = Matrix(r, concrete, req.Intensity, master.Value("Voice Mode"))
	}
	active := ActiveFrom(&matrix)

	var cyc freakgen.Block
	if req.locked(freakgen.ModuleCyc) {
		cyc = prev.Cyc.Copy()
	} else {
		cyc = Cycling(r, req.Intensity, active)
	}

	var lfo freakgen.Block
	if req.locked(freakgen.ModuleLFO) {
		lfo = prev.LFO.Copy()
	} else {
		lfo = LFOBlock(r, active)
	}

	name := osc.Value("Type")
	if name == "" {
		name = "Unknown"
	}
	return freakgen.Patch{
		Master:    master,
		Osc:       osc,
		Env:       env,
		Cyc:       cyc,
		LFO:       lfo,
		Matrix:    &matrix,
		Style:     req.Style,
		RealStyle: concrete,
		Intensity: req.Intensity,
		Engine:    name,
	}
}
