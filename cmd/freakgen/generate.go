package main

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/freakgen/freakgen"
	"github.com/freakgen/freakgen/generate"
	"github.com/spf13/cobra"
)

var (
	genStyle       string
	genIntensity   string
	genEngine      string
	genSeed        uint64
	genLocks       string
	genPrevious    string
	genFormat      string
	genSave        string
	genDescription string
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate a patch",
	Long: `Generate a random patch for a style and an intensity.

Locked modules are copied from the previous patch, given with --previous
as a library file name or a .freakgen export.

Examples:
  freakgen generate --style pad --intensity extreme
  freakgen generate -s bass --engine "Bass" --format markdown
  freakgen generate --previous my_pad_1792152000000.json --lock osc,matrix
  freakgen generate --seed 42 --save "My Lead"`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genStyle, "style", "s", "", "Style: "+styleNames()+" or random (default from preferences)")
	f.StringVarP(&genIntensity, "intensity", "i", "", "Intensity: simple, moderate, high or extreme (default from preferences)")
	f.StringVarP(&genEngine, "engine", "e", "", "Oscillator engine, or random to let the style pick (default from preferences)")
	f.Uint64Var(&genSeed, "seed", 0, "Random seed; the same seed and options give the same patch (default: random)")
	f.StringVarP(&genLocks, "lock", "l", "", "Comma separated modules to keep from --previous: master, osc, env, cyc, lfo, matrix")
	f.StringVarP(&genPrevious, "previous", "p", "", "Previous patch: library file name or .freakgen file")
	f.StringVarP(&genFormat, "format", "f", "text", "Output format: text, markdown, json or yaml")
	f.StringVar(&genSave, "save", "", "Save the patch to the library under this name")
	f.StringVar(&genDescription, "description", "", "Description of the saved patch")
}

func styleNames() string {
	names := make([]string, len(freakgen.Styles))
	for i, st := range freakgen.Styles {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func runGenerate(cmd *cobra.Command, args []string) error {
	locks, err := freakgen.ParseLocks(genLocks)
	if err != nil {
		return err
	}
	req := generate.Request{
		Style:     freakgen.Style(orDefault(genStyle, prefs.Defaults.Style)),
		Intensity: freakgen.Intensity(orDefault(genIntensity, prefs.Defaults.Intensity)),
		Engine:    orDefault(genEngine, prefs.Defaults.Engine),
		Locks:     locks,
	}
	if genPrevious != "" {
		prev, err := readPatch(genPrevious)
		if err != nil {
			return fmt.Errorf("could not read previous patch: %w", err)
		}
		req.Previous = &prev
	} else if locks != (freakgen.LockSet{}) {
		logger.Warn("locks ignored without a previous patch", "locks", locks.String())
	}
	if req, err = req.Normalize(); err != nil {
		logger.Warn("request normalized", "err", err)
	}
	if !cmd.Flags().Changed("seed") {
		genSeed = rand.Uint64()
		logger.Info("random seed", "seed", genSeed)
	}
	logger.Debug("generating", "style", req.Style, "intensity", req.Intensity, "engine", req.Engine, "seed", genSeed)
	p := generate.Patch(generate.NewRand(genSeed), req)

	if genSave != "" {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		preset, err := lib.Save(genSave, genDescription, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %q as %v (seed %d)\n", preset.Name, preset.Filename, genSeed)
	}
	return writePatch(cmd.OutOrStdout(), p, locks, genFormat)
}
