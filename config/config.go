// Package config reads the preferences of freakgen: the defaults embedded in
// the binary, overridden by preferences.yml in the user config directory.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/freakgen/freakgen"
	"github.com/freakgen/freakgen/library"
	"gopkg.in/yaml.v2"
)

type (
	Preferences struct {
		Library  LibraryPreferences
		History  HistoryPreferences
		MIDI     MIDIPreferences `yaml:"midi"`
		Server   ServerPreferences
		Defaults DefaultPreferences

		// YmlError is set when a custom preferences file exists but could
		// not be read. The defaults stay in effect for what was not read.
		YmlError error `yaml:"-"`
	}

	LibraryPreferences struct {
		Dir    string
		Format string
	}

	HistoryPreferences struct {
		Depth int
	}

	MIDIPreferences struct {
		// Output is the prefix of the output port name; empty picks the
		// MicroFreak if one is connected.
		Output  string
		Channel int
	}

	ServerPreferences struct {
		Addr string
	}

	DefaultPreferences struct {
		Style     string
		Intensity string
		Engine    string
	}
)

// Filename is the name of the preferences file, both embedded and in the
// user config directory.
const Filename = "preferences.yml"

//go:embed preferences.yml
var defaultPreferencesYaml []byte

// Default returns the embedded preferences.
func Default() Preferences {
	var p Preferences
	if err := yaml.UnmarshalStrict(defaultPreferencesYaml, &p); err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return p
}

// ReadCustomConfigYml modifies the target argument, i.e. needs a pointer
func ReadCustomConfigYml(filename string, target any) (exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return false, err
	}
	return readYml(filepath.Join(configDir, "freakgen", filename), target)
}

func readYml(path string, target any) (exists bool, err error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, yaml.Unmarshal(bytes, target)
}

// Make returns the default preferences overridden by the user's file.
func Make() Preferences {
	p := Default()
	if exists, err := ReadCustomConfigYml(Filename, &p); exists {
		p.YmlError = err
	}
	return p
}

// Load returns the default preferences overridden by the file at path. A
// missing file is an error here.
func Load(path string) (Preferences, error) {
	p := Default()
	if _, err := readYml(path, &p); err != nil {
		return p, fmt.Errorf("could not read preferences %v: %w", path, err)
	}
	return p, nil
}

// Validate checks the enumerated fields.
func (p Preferences) Validate() error {
	var errs []error
	if _, err := library.ParseFormat(p.Library.Format); err != nil {
		errs = append(errs, err)
	}
	if p.History.Depth < 1 {
		errs = append(errs, fmt.Errorf("history depth must be at least 1, got %d", p.History.Depth))
	}
	if p.MIDI.Channel < 1 || p.MIDI.Channel > 16 {
		errs = append(errs, fmt.Errorf("MIDI channel must be 1..16, got %d", p.MIDI.Channel))
	}
	if _, err := freakgen.ParseStyle(p.Defaults.Style); err != nil {
		errs = append(errs, err)
	}
	if _, err := freakgen.ParseIntensity(p.Defaults.Intensity); err != nil {
		errs = append(errs, err)
	}
	if e := p.Defaults.Engine; e != "" && !strings.EqualFold(e, "random") {
		if _, err := freakgen.ParseEngine(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LibraryDir is the library directory with a leading ~ expanded.
func (p Preferences) LibraryDir() (string, error) {
	dir := p.Library.Dir
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return filepath.Clean(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not expand %v: %w", dir, err)
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
}

// LibraryFormat is the parsed library format, JSON if invalid.
func (p Preferences) LibraryFormat() library.Format {
	f, _ := library.ParseFormat(p.Library.Format)
	return f
}
