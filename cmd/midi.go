package cmd

import (
	"fmt"
	"log/slog"

	"github.com/freakgen/freakgen/dispatch"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// MIDIOutputs lists and opens the output ports of the system.
type MIDIOutputs interface {
	Outputs() ([]string, error)
	Open(prefix string) (drivers.Out, error)
	Close() error
}

// OpenSender returns a sender on the output whose name starts with prefix,
// or on the virtual output that only logs. The returned function releases
// the port.
func OpenSender(prefix string, virtual bool, channel int, logger *slog.Logger) (*dispatch.Sender, func() error, error) {
	if virtual {
		logger.Info("using virtual MIDI output", "name", dispatch.VirtualName)
		return dispatch.NewSender(&dispatch.Virtual{Logger: logger}, channel, logger), func() error { return nil }, nil
	}
	outs, err := NewMIDIOutputs()
	if err != nil {
		return nil, nil, err
	}
	out, err := outs.Open(prefix)
	if err != nil {
		outs.Close()
		return nil, nil, fmt.Errorf("could not open MIDI output: %w", err)
	}
	logger.Info("MIDI output opened", "name", out.String())
	return dispatch.NewSender(out, channel, logger), outs.Close, nil
}
