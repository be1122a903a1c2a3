//go:build cgo

package cmd

import (
	"github.com/freakgen/freakgen/dispatch/gomidi"
)

func NewMIDIOutputs() (MIDIOutputs, error) {
	c, err := gomidi.NewContext()
	if err != nil {
		return nil, err
	}
	return c, nil
}
