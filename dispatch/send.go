package dispatch

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/freakgen/freakgen"
	"gitlab.com/gomidi/midi/v2"
)

type (
	// Output is a MIDI byte sink. drivers.Out satisfies it.
	Output interface {
		Send(data []byte) error
	}

	// Sender sends plans and program changes to an output on one channel.
	Sender struct {
		Out     Output
		Channel uint8 // 0-based wire channel
		Logger  *slog.Logger
	}

	// Virtual is an Output that logs every message instead of sending it.
	// It keeps what it received.
	Virtual struct {
		Logger *slog.Logger

		mu   sync.Mutex
		sent []midi.Message
	}
)

// VirtualName is the name the virtual output is listed under.
const VirtualName = "Virtual MicroFreak (Debug)"

// NewSender returns a sender for a 1-based channel as configured by users;
// out of range channels are clamped to 1..16.
func NewSender(out Output, channel int, logger *slog.Logger) *Sender {
	return &Sender{Out: out, Channel: uint8(min(max(channel, 1), 16) - 1), Logger: logger}
}

func (s *Sender) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Sender) send(msg midi.Message) error {
	if s == nil || s.Out == nil {
		return freakgen.ErrNoOutput
	}
	if err := s.Out.Send(msg); err != nil {
		return fmt.Errorf("could not send %v: %w", msg, err)
	}
	return nil
}

// Push sends the controls of a plan and returns how many were sent. The
// manual part of the plan is left to the caller to show.
func (s *Sender) Push(p Plan) (int, error) {
	for i, c := range p.Controls {
		if err := s.send(midi.ControlChange(s.Channel, c.Controller, min(c.Value, freakgen.MaxRaw))); err != nil {
			return i, err
		}
	}
	s.logger().Info("patch pushed", "controls", len(p.Controls), "manual", len(p.Manual))
	return len(p.Controls), nil
}

// ProgramChange selects a stored preset, 1..384, on the instrument: bank
// select MSB and LSB followed by the program change. It returns the preset
// number actually selected.
func (s *Sender) ProgramChange(preset int) (int, error) {
	preset, bank, program := ProgramNumber(preset)
	msgs := []midi.Message{
		midi.ControlChange(s.Channel, CCBankMSB, uint8(bank)),
		midi.ControlChange(s.Channel, CCBankLSB, 0),
		midi.ProgramChange(s.Channel, uint8(program)),
	}
	for _, m := range msgs {
		if err := s.send(m); err != nil {
			return preset, err
		}
	}
	s.logger().Info("preset selected", "preset", preset, "bank", bank, "program", program)
	return preset, nil
}

// Send logs the message.
func (v *Virtual) Send(data []byte) error {
	msg := midi.Message(append([]byte(nil), data...))
	v.mu.Lock()
	v.sent = append(v.sent, msg)
	v.mu.Unlock()
	logger := v.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var ch, cc, val, prog uint8
	switch {
	case msg.GetControlChange(&ch, &cc, &val):
		logger.Info("virtual MIDI", "channel", ch+1, "cc", cc, "value", val)
	case msg.GetProgramChange(&ch, &prog):
		logger.Info("virtual MIDI", "channel", ch+1, "program", prog)
	default:
		logger.Info("virtual MIDI", "msg", msg.String())
	}
	return nil
}

// Sent returns the messages received so far.
func (v *Virtual) Sent() []midi.Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]midi.Message(nil), v.sent...)
}

func (v *Virtual) String() string {
	return VirtualName
}
