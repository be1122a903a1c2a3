package freakgen

import (
	"fmt"
	"strings"
)

type (
	// Module names one lockable section of a patch.
	Module string

	// LockSet tells which modules keep their previous value on the next
	// generation.
	LockSet struct {
		Master bool `json:"master" yaml:"master"`
		Osc    bool `json:"osc" yaml:"osc"`
		Env    bool `json:"env" yaml:"env"`
		Cyc    bool `json:"cyc" yaml:"cyc"`
		LFO    bool `json:"lfo" yaml:"lfo"`
		Matrix bool `json:"matrix" yaml:"matrix"`
	}
)

const (
	ModuleMaster Module = "master"
	ModuleOsc    Module = "osc"
	ModuleEnv    Module = "env"
	ModuleCyc    Module = "cyc"
	ModuleLFO    Module = "lfo"
	ModuleMatrix Module = "matrix"
)

// Modules lists the modules in generation card order.
var Modules = []Module{ModuleMaster, ModuleOsc, ModuleEnv, ModuleCyc, ModuleLFO, ModuleMatrix}

var moduleTitles = map[Module]string{
	ModuleMaster: "Master & Voice",
	ModuleOsc:    "Oscillator / Type",
	ModuleEnv:    "Amp & Filter Env",
	ModuleCyc:    "Cycling Envelope",
	ModuleLFO:    "LFO",
	ModuleMatrix: "Modulation Matrix",
}

// Title is the card title of the module.
func (m Module) Title() string {
	return moduleTitles[m]
}

// ParseModule parses a module name, case insensitively.
func ParseModule(s string) (Module, error) {
	m := Module(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := moduleTitles[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidModule, s)
	}
	return m, nil
}

// Locked reports whether the module is locked.
func (l LockSet) Locked(m Module) bool {
	switch m {
	case ModuleMaster:
		return l.Master
	case ModuleOsc:
		return l.Osc
	case ModuleEnv:
		return l.Env
	case ModuleCyc:
		return l.Cyc
	case ModuleLFO:
		return l.LFO
	case ModuleMatrix:
		return l.Matrix
	}
	return false
}

// Set returns a copy of the lock set with the lock of m set to locked.
func (l LockSet) Set(m Module, locked bool) LockSet {
	switch m {
	case ModuleMaster:
		l.Master = locked
	case ModuleOsc:
		l.Osc = locked
	case ModuleEnv:
		l.Env = locked
	case ModuleCyc:
		l.Cyc = locked
	case ModuleLFO:
		l.LFO = locked
	case ModuleMatrix:
		l.Matrix = locked
	}
	return l
}

// Toggle returns a copy of the lock set with the lock of m flipped.
func (l LockSet) Toggle(m Module) LockSet {
	return l.Set(m, !l.Locked(m))
}

// ParseLocks parses a comma separated list of module names into a lock set.
func ParseLocks(s string) (LockSet, error) {
	var l LockSet
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, err := ParseModule(part)
		if err != nil {
			return l, err
		}
		l = l.Set(m, true)
	}
	return l, nil
}

// String lists the locked modules, comma separated.
func (l LockSet) String() string {
	var names []string
	for _, m := range Modules {
		if l.Locked(m) {
			names = append(names, string(m))
		}
	}
	return strings.Join(names, ",")
}
