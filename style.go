package freakgen

import (
	"fmt"
	"strings"
)

type (
	// Style is the musical role the patch is generated for.
	Style string

	// Intensity is the coarse complexity dial of the generator.
	Intensity string
)

const (
	StyleBass       Style = "bass"
	StyleBrass      Style = "brass"
	StyleKeys       Style = "keys"
	StyleLead       Style = "lead"
	StyleOrgan      Style = "organ"
	StylePad        Style = "pad"
	StylePercussion Style = "percussion"
	StyleSequence   Style = "sequence"
	StyleSFX        Style = "sfx"
	StyleStrings    Style = "strings"
	StyleVocoder    Style = "vocoder"
	StyleRandom     Style = "random"
)

const (
	Simple   Intensity = "simple"
	Moderate Intensity = "moderate"
	High     Intensity = "high"
	Extreme  Intensity = "extreme"
)

// Styles lists the concrete styles, i.e. all but StyleRandom. "random"
// resolves to one of these.
var Styles = []Style{
	StyleBass, StyleBrass, StyleKeys, StyleLead, StyleOrgan, StylePad,
	StylePercussion, StyleSequence, StyleSFX, StyleStrings, StyleVocoder,
}

// Intensities lists the intensities from the tamest to the wildest.
var Intensities = []Intensity{Simple, Moderate, High, Extreme}

// styleEngines restricts the engines a style draws from when the engine is
// left random. Styles missing from the map draw from the whole catalog.
var styleEngines = map[Style][]Engine{
	StyleBass:       {Bass, SawX, VirtualAnalog, BasicWaves, Superwave, Harm, Wavetable, TwoOpFM},
	StyleLead:       {VirtualAnalog, BasicWaves, Superwave, Wavetable, SawX, Harm, KarplusStrong, Formant},
	StylePad:        {Superwave, Wavetable, Harmonic, CloudGrains, Sample, VirtualAnalog, Chords, Modal},
	StyleKeys:       {KarplusStrong, TwoOpFM, Modal, Chords, VirtualAnalog, Wavetable},
	StyleStrings:    {KarplusStrong, Modal, Harmonic, ScanGrains},
	StyleBrass:      {VirtualAnalog, SawX, BasicWaves, Wavetable, Formant},
	StyleOrgan:      {BasicWaves, Harmonic, Wavetable, VirtualAnalog},
	StylePercussion: {Noise, TwoOpFM, BasicWaves, HitGrains, KarplusStrong},
	StyleSequence:   {VirtualAnalog, BasicWaves, Wavetable, SawX, TwoOpFM},
	StyleVocoder:    {Vocoder},
}

// Engines returns the engines the style may pick from at random.
func (s Style) Engines() []Engine {
	if e, ok := styleEngines[s]; ok {
		return e
	}
	return AllEngines()
}

// Valid reports whether s is a known style, "random" included.
func (s Style) Valid() bool {
	if s == StyleRandom {
		return true
	}
	for _, c := range Styles {
		if c == s {
			return true
		}
	}
	return false
}

// ParseStyle parses a style tag. Unknown tags are normalized to StyleRandom
// and reported with ErrInvalidStyle.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return StyleRandom, nil
	}
	if !st.Valid() {
		return StyleRandom, fmt.Errorf("%w: %q", ErrInvalidStyle, s)
	}
	return st, nil
}

// Valid reports whether i is a known intensity.
func (i Intensity) Valid() bool {
	switch i {
	case Simple, Moderate, High, Extreme:
		return true
	}
	return false
}

// ParseIntensity parses an intensity tag. Unknown tags are normalized to
// Simple and reported with ErrInvalidIntensity.
func ParseIntensity(s string) (Intensity, error) {
	in := Intensity(strings.ToLower(strings.TrimSpace(s)))
	if in == "" {
		return Simple, nil
	}
	if !in.Valid() {
		return Simple, fmt.Errorf("%w: %q", ErrInvalidIntensity, s)
	}
	return in, nil
}

// Vocabularies of the enumerated parameters.
var (
	ChordTypes   = []string{"Oct", "5th", "sus4", "minor", "m7", "m9", "m11", "69", "maj9", "maj7", "Major"}
	LFOShapes    = []string{"Sine", "Triangle", "Saw", "Square", "S&H (Random)", "S&H Smooth"}
	LFOSyncRates = []string{"8 bars", "4 bars", "2 bars", "1 bar", "1/2", "1/4", "1/8", "1/16"}
	VoiceModes   = []string{"Monophonic", "Paraphonic", "Unison"}
	FilterTypes  = []string{"LP", "BP", "HP"}
	CycModes     = []string{"Env", "Run", "Loop"}

	// UnisonSpots are the detune amounts that sound musical; the generator
	// jitters around them.
	UnisonSpots = []float64{0, 4, 7, 8, 12}

	// AssignTargets is the vocabulary of parameters an assign slot can bind.
	AssignTargets = []string{
		"LFO Rate", "Reso", "Env Dec", "Env Sus", "Cyc Rise", "Cyc Fall", "Cyc Hold",
		"Cyc Amt", "Glide", "Osc Shape", "Spread", "Unispread", "Arp Rate",
	}

	// CycOwnedTargets are the assign targets that belong to the cycling
	// envelope itself. Routing the cycling envelope only into these does
	// nothing audible.
	CycOwnedTargets = []string{"Cyc Rise", "Cyc Fall", "Cyc Hold", "Cyc Amt"}

	// UnisonTargets only make sense when the voice mode is Unison.
	UnisonTargets = []string{"Spread", "Unispread"}
)

const (
	Monophonic = "Monophonic"
	Paraphonic = "Paraphonic"
	Unison     = "Unison"
	Unispread  = "Unispread"
)
