package main

import (
	"fmt"
	"strconv"

	"github.com/freakgen/freakgen/cmd"
	"github.com/freakgen/freakgen/dispatch"
	"github.com/freakgen/freakgen/render"
	"github.com/spf13/cobra"
)

var (
	midiVirtual bool
	midiOutput  string
	midiChannel int
)

var pushCmd = &cobra.Command{
	Use:   "push <file>",
	Short: "Send a patch to the MicroFreak",
	Long: `Send a patch, given as a library file name or a .freakgen export,
to the instrument as MIDI control changes. Settings without a controller
are printed to be made by hand.

Examples:
  freakgen push my_pad_1792152000000.json
  freakgen push FreakGEN_pad_1792152000000.freakgen --virtual`,
	Args: cobra.ExactArgs(1),
	RunE: runPush,
}

var programCmd = &cobra.Command{
	Use:   "program <1-384>",
	Short: "Select a stored preset on the MicroFreak",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgram,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI output ports",
	Args:  cobra.NoArgs,
	RunE:  runPorts,
}

func init() {
	for _, c := range []*cobra.Command{pushCmd, programCmd, serveCmd} {
		addMIDIFlags(c)
	}
}

func addMIDIFlags(c *cobra.Command) {
	c.Flags().BoolVar(&midiVirtual, "virtual", false, "Log MIDI messages instead of sending them")
	c.Flags().StringVar(&midiOutput, "output", "", "Prefix of the MIDI output name (default from preferences)")
	c.Flags().IntVar(&midiChannel, "channel", 0, "MIDI channel 1-16 (default from preferences)")
}

func openSender(c *cobra.Command) (*dispatch.Sender, func() error, error) {
	output := prefs.MIDI.Output
	if c.Flags().Changed("output") {
		output = midiOutput
	}
	channel := prefs.MIDI.Channel
	if c.Flags().Changed("channel") {
		channel = midiChannel
	}
	return cmd.OpenSender(output, midiVirtual, channel, logger)
}

func runPush(c *cobra.Command, args []string) error {
	p, err := readPatch(args[0])
	if err != nil {
		return err
	}
	sender, closer, err := openSender(c)
	if err != nil {
		return err
	}
	defer closer()
	plan := dispatch.NewPlan(p)
	logger.Debug("dispatch plan", "summary", plan.Summary())
	sent, err := sender.Push(plan)
	if err != nil {
		return err
	}
	r, err := render.New()
	if err != nil {
		return err
	}
	return r.Manual(c.OutOrStdout(), plan, sent)
}

func runProgram(c *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid preset number %q", args[0])
	}
	sender, closer, err := openSender(c)
	if err != nil {
		return err
	}
	defer closer()
	preset, err := sender.ProgramChange(n)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.OutOrStdout(), "Selected preset %d\n", preset)
	return nil
}

func runPorts(c *cobra.Command, args []string) error {
	outs, err := cmd.NewMIDIOutputs()
	if err != nil {
		return err
	}
	defer outs.Close()
	names, err := outs.Outputs()
	if err != nil {
		return err
	}
	w := c.OutOrStdout()
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	fmt.Fprintln(w, dispatch.VirtualName)
	return nil
}
