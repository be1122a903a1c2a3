package freakgen

import "slices"

type (
	// Source is a modulation source, i.e. a row of the modulation matrix.
	Source string

	// Destination is a column of the modulation matrix: one of the fixed
	// destinations or one of the three assign slots.
	Destination string

	// Connection is one routing in the modulation matrix. Target is the
	// parameter the connection really modulates: the destination itself for
	// fixed destinations, the assign slot configuration for assign slots.
	Connection struct {
		Source      Source      `json:"s" yaml:"s"`
		Destination Destination `json:"d" yaml:"d"`
		Amount      float64     `json:"a" yaml:"a"`
		Target      string      `json:"targetParam" yaml:"targetParam"`
	}

	// Matrix is the state of the modulation matrix.
	Matrix struct {
		// UsedSources lists, in Sources order, the sources of the surviving
		// connections.
		UsedSources []Source `json:"usedSources" yaml:"usedSources,flow"`
		// UsedAssigns lists the assign slots that were hit while sampling,
		// before unused slots were blanked. Diagnostic only.
		UsedAssigns []Destination `json:"usedAssigns" yaml:"usedAssigns,flow"`
		Connections []Connection  `json:"connections" yaml:"connections"`
		// Config holds the three assign slot bindings; Blank when unused.
		Config []string `json:"config" yaml:"config,flow"`
	}
)

const (
	CycEnv   Source = "CycEnv"
	Envelope Source = "Envelope"
	LFO      Source = "LFO"
	Pressure Source = "Pressure"
	KeyArp   Source = "Key/Arp"
)

const (
	Pitch   Destination = "Pitch"
	Wave    Destination = "Wave"
	Timbre  Destination = "Timbre"
	Cutoff  Destination = "Cutoff"
	Assign1 Destination = "Assign 1"
	Assign2 Destination = "Assign 2"
	Assign3 Destination = "Assign 3"
)

// NumAssigns is the number of assign slots in the matrix.
const NumAssigns = 3

var (
	Sources           = []Source{CycEnv, Envelope, LFO, Pressure, KeyArp}
	FixedDestinations = []Destination{Pitch, Wave, Timbre, Cutoff}
	AssignSlots       = []Destination{Assign1, Assign2, Assign3}
	// Destinations lists the columns of the matrix: fixed ones first.
	Destinations = []Destination{Pitch, Wave, Timbre, Cutoff, Assign1, Assign2, Assign3}
)

// IsAssign reports whether the destination is an assign slot.
func (d Destination) IsAssign() bool {
	return d.AssignIndex() >= 0
}

// AssignIndex returns the 0-based index of the assign slot, or -1 for fixed
// destinations.
func (d Destination) AssignIndex() int {
	return slices.Index(AssignSlots, d)
}

// Uses reports whether the source drives at least one surviving connection.
func (m *Matrix) Uses(s Source) bool {
	return m != nil && slices.Contains(m.UsedSources, s)
}

// Targets reports whether any connection goes to the given destination.
func (m *Matrix) Targets(d Destination) bool {
	return m != nil && slices.ContainsFunc(m.Connections, func(c Connection) bool { return c.Destination == d })
}

// Copy makes a deep copy of a matrix.
func (m Matrix) Copy() Matrix {
	return Matrix{
		UsedSources: slices.Clone(m.UsedSources),
		UsedAssigns: slices.Clone(m.UsedAssigns),
		Connections: slices.Clone(m.Connections),
		Config:      slices.Clone(m.Config),
	}
}
