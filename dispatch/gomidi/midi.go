// Package gomidi opens real MIDI output ports through rtmidi. It needs cgo.
package gomidi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/freakgen/freakgen"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// DefaultPrefix picks the instrument when no output name is configured.
const DefaultPrefix = "MicroFreak"

// Context owns the rtmidi driver and the output opened through it.
type Context struct {
	driver  *rtmididrv.Driver
	current drivers.Out
}

// NewContext opens the driver.
func NewContext() (*Context, error) {
	d, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("could not open MIDI driver: %w", err)
	}
	return &Context{driver: d}, nil
}

// Outputs lists the names of the output ports.
func (c *Context) Outputs() ([]string, error) {
	outs, err := c.driver.Outs()
	if err != nil {
		return nil, err
	}
	ret := make([]string, len(outs))
	for i, o := range outs {
		ret[i] = o.String()
	}
	return ret, nil
}

// Open opens the first output whose name starts with prefix. With an empty
// prefix it prefers an output containing DefaultPrefix and falls back to the
// first output. A previously opened output is closed.
func (c *Context) Open(prefix string) (drivers.Out, error) {
	outs, err := c.driver.Outs()
	if err != nil {
		return nil, err
	}
	if len(outs) == 0 {
		return nil, fmt.Errorf("%w: no MIDI outputs found", freakgen.ErrNoOutput)
	}
	out := pick(outs, prefix)
	if out == nil {
		return nil, fmt.Errorf("%w: no MIDI output starting with %q", freakgen.ErrNoOutput, prefix)
	}
	if c.current != nil && c.current.IsOpen() {
		c.current.Close()
	}
	if err := out.Open(); err != nil {
		return nil, fmt.Errorf("opening MIDI output failed: %w", err)
	}
	c.current = out
	return out, nil
}

func pick(outs []drivers.Out, prefix string) drivers.Out {
	if prefix != "" {
		for _, o := range outs {
			if strings.HasPrefix(o.String(), prefix) {
				return o
			}
		}
		return nil
	}
	for _, o := range outs {
		if strings.Contains(o.String(), DefaultPrefix) {
			return o
		}
	}
	return outs[0]
}

// Close closes the open output and the driver.
func (c *Context) Close() error {
	var errs []error
	if c.current != nil && c.current.IsOpen() {
		errs = append(errs, c.current.Close())
	}
	errs = append(errs, c.driver.Close())
	return errors.Join(errs...)
}
