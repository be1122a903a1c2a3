package freakgen

import "slices"

type (
	// Patch is one complete generated preset: a block of rows per module, the
	// modulation matrix and the metadata of the request that produced it.
	Patch struct {
		Master Block `json:"master,omitempty" yaml:"master,omitempty"`
		Osc    Block `json:"osc,omitempty" yaml:"osc,omitempty"`
		Env    Block `json:"env,omitempty" yaml:"env,omitempty"`
		Cyc    Block `json:"cyc,omitempty" yaml:"cyc,omitempty"`
		LFO    Block `json:"lfo,omitempty" yaml:"lfo,omitempty"`

		// Matrix is nil until the matrix has been generated at least once.
		Matrix *Matrix `json:"matrixData,omitempty" yaml:"matrixData,omitempty"`

		// Style is the style that was selected, possibly "random". RealStyle
		// is the concrete style the patch was actually generated with.
		Style     Style     `json:"style,omitempty" yaml:"style,omitempty"`
		RealStyle Style     `json:"realStyle,omitempty" yaml:"realStyle,omitempty"`
		Intensity Intensity `json:"intensity,omitempty" yaml:"intensity,omitempty"`
		Engine    string    `json:"engine,omitempty" yaml:"engine,omitempty"`
	}

	// Block is the ordered list of rows of one module.
	Block []Row

	// Row is a single displayed parameter. Value == "" means the parameter is
	// not applicable and should not be rendered. Raw, when present, is the
	// MIDI CC domain value 0..127 the display value was derived from.
	Row struct {
		Label   string `json:"label" yaml:"label"`
		Value   string `json:"val,omitempty" yaml:"val,omitempty"`
		Raw     *int   `json:"raw,omitempty" yaml:"raw,omitempty"`
		Kind    Kind   `json:"kind,omitempty" yaml:"kind,omitempty"`
		Tooltip string `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	}

	// Kind tells which mapping links the raw value of a row to its display
	// value.
	Kind string
)

const (
	KindText      Kind = ""          // free text or enumerated label, no mapping
	KindPercent   Kind = "percent"   // round(raw/127*100) + "%"
	KindBipolar   Kind = "bipolar"   // round((raw-64)/63*100)
	KindFrequency Kind = "frequency" // linear Hz or kHz span
	KindTime      Kind = "time"      // linear ms span, ms/s formatting
	KindChoice    Kind = "choice"    // index into a vocabulary, spread over 0..127
	KindFixed     Kind = "fixed"     // fixed display, raw is a free knob position
)

// Blank is shown by modules and assign slots that nothing in the modulation
// matrix uses.
const Blank = "INT - Blank"

// BlankBlock returns the single row block of an inactive modulator.
func BlankBlock() Block {
	return Block{{Label: "Status", Value: Blank, Tooltip: "This module is not active in the modulation matrix."}}
}

// IntPtr returns a pointer to a copy of v, for Row.Raw.
func IntPtr(v int) *int {
	return &v
}

// RawValue unpacks the raw value of the row.
func (r Row) RawValue() (int, bool) {
	if r.Raw == nil {
		return 0, false
	}
	return *r.Raw, true
}

// Visible reports if the row should be rendered at all.
func (r Row) Visible() bool {
	return r.Value != ""
}

// Copy makes a deep copy of a row.
func (r Row) Copy() Row {
	if r.Raw != nil {
		r.Raw = IntPtr(*r.Raw)
	}
	return r
}

// Copy makes a deep copy of a block. A nil block stays nil.
func (b Block) Copy() Block {
	if b == nil {
		return nil
	}
	ret := make(Block, len(b))
	for i, r := range b {
		ret[i] = r.Copy()
	}
	return ret
}

// Find returns the first row with the given label.
func (b Block) Find(label string) (Row, bool) {
	i := slices.IndexFunc(b, func(r Row) bool { return r.Label == label })
	if i < 0 {
		return Row{}, false
	}
	return b[i], true
}

// Value returns the display value of the first row with the given label, or
// "" if there is no such row.
func (b Block) Value(label string) string {
	r, _ := b.Find(label)
	return r.Value
}

// IsBlank reports whether the block is the inactive-modulator sentinel.
func (b Block) IsBlank() bool {
	return len(b) == 1 && b[0].Value == Blank
}

// Copy makes a deep copy of a Patch.
func (p Patch) Copy() Patch {
	ret := p
	ret.Master = p.Master.Copy()
	ret.Osc = p.Osc.Copy()
	ret.Env = p.Env.Copy()
	ret.Cyc = p.Cyc.Copy()
	ret.LFO = p.LFO.Copy()
	if p.Matrix != nil {
		m := p.Matrix.Copy()
		ret.Matrix = &m
	}
	return ret
}

// Block returns the block of the given module. The matrix has no block and
// returns nil.
func (p *Patch) Block(m Module) Block {
	switch m {
	case ModuleMaster:
		return p.Master
	case ModuleOsc:
		return p.Osc
	case ModuleEnv:
		return p.Env
	case ModuleCyc:
		return p.Cyc
	case ModuleLFO:
		return p.LFO
	}
	return nil
}

// Has reports whether the patch carries a value for the module, i.e. whether
// a lock on that module has something to keep.
func (p *Patch) Has(m Module) bool {
	if p == nil {
		return false
	}
	if m == ModuleMatrix {
		return p.Matrix != nil
	}
	return len(p.Block(m)) > 0
}

// Empty reports whether nothing has been generated into the patch yet.
func (p *Patch) Empty() bool {
	return p == nil || p.Matrix == nil
}
