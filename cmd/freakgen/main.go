package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/freakgen/freakgen"
	"github.com/freakgen/freakgen/config"
	"github.com/freakgen/freakgen/library"
	"github.com/freakgen/freakgen/render"
	"github.com/freakgen/freakgen/version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configPath string
	verbose    bool

	prefs  config.Preferences
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "freakgen",
	Short: "Generate random patches for the Arturia MicroFreak",
	Long: `FreakGEN generates random but playable MicroFreak patches for a
style and an intensity, keeps them in a preset library and sends them
to the instrument over MIDI.

Settings without a MIDI controller are listed so they can be made by
hand on the panel.`,
	Version:           version.VersionOrHash,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.VersionOrHash)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Preferences file (default: preferences.yml in the user config directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(programCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if configPath != "" {
		var err error
		if prefs, err = config.Load(configPath); err != nil {
			return err
		}
	} else {
		prefs = config.Make()
		if prefs.YmlError != nil {
			logger.Warn("could not read custom preferences", "err", prefs.YmlError)
		}
	}
	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}
	return nil
}

func openLibrary() (*library.Library, error) {
	dir, err := prefs.LibraryDir()
	if err != nil {
		return nil, err
	}
	return library.Open(dir, prefs.LibraryFormat(), logger)
}

// readPatch reads a patch from an export file, or from the library when
// ref is the file name of a record.
func readPatch(ref string) (freakgen.Patch, error) {
	if strings.HasSuffix(ref, library.ExportExt) {
		data, err := os.ReadFile(ref)
		if err != nil {
			return freakgen.Patch{}, err
		}
		return library.ReadExport(data)
	}
	lib, err := openLibrary()
	if err != nil {
		return freakgen.Patch{}, err
	}
	p, err := lib.Get(ref)
	if err != nil {
		return freakgen.Patch{}, err
	}
	return p.Patch, nil
}

// writePatch prints a patch as json, yaml or one of the rendered formats.
func writePatch(w io.Writer, p freakgen.Patch, locks freakgen.LockSet, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml", "yml":
		data, err := yaml.Marshal(p)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	r, err := render.New()
	if err != nil {
		return err
	}
	return r.Patch(w, p, locks, render.Format(format))
}
