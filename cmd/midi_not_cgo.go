//go:build !cgo

package cmd

import (
	"fmt"

	"github.com/freakgen/freakgen"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// NullMIDIOutputs is used when built without cgo: there are no ports.
type NullMIDIOutputs struct{}

func NewMIDIOutputs() (MIDIOutputs, error) {
	// with no cgo, we cannot use MIDI, so return a null context
	return NullMIDIOutputs{}, nil
}

func (NullMIDIOutputs) Outputs() ([]string, error) { return nil, nil }

func (NullMIDIOutputs) Open(prefix string) (drivers.Out, error) {
	return nil, fmt.Errorf("%w: built without cgo", freakgen.ErrNoOutput)
}

func (NullMIDIOutputs) Close() error { return nil }
