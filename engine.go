package freakgen

import (
	"fmt"
	"strings"
)

type (
	// Engine is one of the digital oscillator synthesis algorithms.
	Engine int

	// EngineInfo documents an engine: its display name, the labels of its
	// three knobs and the value of the oscillator type CC that selects it.
	EngineInfo struct {
		Name   string
		Wave   string
		Timbre string
		Shape  string
		TypeCC int
	}
)

const (
	BasicWaves Engine = iota
	Superwave
	Wavetable
	Harmonic
	KarplusStrong
	VirtualAnalog
	Waveshaper
	TwoOpFM
	Formant
	Chords
	Speech
	Modal
	Noise
	Bass
	SawX
	Vocoder
	Harm
	WaveUser
	Sample
	ScanGrains
	CloudGrains
	HitGrains
	NumEngines
)

var engineInfos = [NumEngines]EngineInfo{
	BasicWaves:    {"BasicWaves", "Morph: Sqr->Saw", "Sym/Pulse Width", "Sub-Osc Sine", 5},
	Superwave:     {"Superwave", "Wave Select", "Detune", "Volume", 11},
	Wavetable:     {"Wavetable", "Table Select", "Cycle Pos", "Chorus", 17},
	Harmonic:      {"Harmonic", "Table Morph", "Sine-Tri Morph", "Chorus", 23},
	KarplusStrong: {"KarplusStrong", "Bow Amount", "Strike Pos", "Decay", 29},
	VirtualAnalog: {"Virtual Analog", "Detune", "Shape (Sqr)", "Shape (Saw)", 34},
	Waveshaper:    {"Waveshaper", "Waveform", "Wavefolder", "Asymmetry", 40},
	TwoOpFM:       {"Two Op FM", "Ratio", "Mod Index", "Feedback", 46},
	Formant:       {"Formant", "Ratio", "Formant Freq", "Window Shape", 52},
	Chords:        {"Chords", "Chord Type", "Inv/Freq", "Waveform", 58},
	Speech:        {"Speech", "Library", "Formant Shift", "Word Subset", 64},
	Modal:         {"Modal", "Inharm", "Brightness", "Damping", 69},
	Noise:         {"Noise", "Rate/SampleRed", "Noise Type", "Filt/Reso", 75},
	Bass:          {"Bass", "Saturation", "Pulse Width", "Noise/Sub", 87},
	SawX:          {"SawX", "Saw Spread", "Saw Shape", "Chorus", 93},
	Vocoder:       {"Vocoder", "Waveform", "Timbre", "Shape", 81},
	Harm:          {"Harm", "Spread", "Rectification", "Noise/Clip", 98},
	WaveUser:      {"WaveUser", "Table Select", "Cycle Pos", "Bitdepth", 104},
	Sample:        {"Sample", "Start", "Length", "Loop", 110},
	ScanGrains:    {"Scan Grains", "Scan Speed", "Density", "Chaos", 116},
	CloudGrains:   {"Cloud Grains", "Start Pos", "Density", "Chaos", 122},
	HitGrains:     {"Hit Grains", "Start Pos", "Density", "Chaos", 127},
}

func init() {
	for i, info := range engineInfos {
		if info.Name == "" {
			panic(fmt.Sprintf("engine %d has no entry in engineInfos", i))
		}
	}
}

// Info returns the documentation of the engine.
func (e Engine) Info() EngineInfo {
	if e < 0 || e >= NumEngines {
		return EngineInfo{Name: "Unknown", Wave: "Wave", Timbre: "Timbre", Shape: "Shape"}
	}
	return engineInfos[e]
}

func (e Engine) String() string {
	return e.Info().Name
}

// Labels returns the labels of the Wave, Timbre and Shape knobs.
func (e Engine) Labels() [3]string {
	i := e.Info()
	return [3]string{i.Wave, i.Timbre, i.Shape}
}

// AllEngines returns the whole engine catalog in panel order.
func AllEngines() []Engine {
	ret := make([]Engine, NumEngines)
	for i := range ret {
		ret[i] = Engine(i)
	}
	return ret
}

// EngineNames lists the names of all engines in panel order.
func EngineNames() []string {
	ret := make([]string, NumEngines)
	for i, info := range engineInfos {
		ret[i] = info.Name
	}
	return ret
}

// ParseEngine finds an engine by its name, ignoring case and spaces.
func ParseEngine(name string) (Engine, error) {
	key := normalizeEngineName(name)
	for i, info := range engineInfos {
		if normalizeEngineName(info.Name) == key {
			return Engine(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidEngine, name)
}

func normalizeEngineName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}
