package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/freakgen/freakgen/config"
	"github.com/freakgen/freakgen/library"
)

func TestDefault(t *testing.T) {
	p := config.Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default preferences invalid: %v", err)
	}
	if p.History.Depth != 3 || p.MIDI.Channel != 1 || p.Library.Format != "json" {
		t.Errorf("unexpected defaults %+v", p)
	}
	if p.LibraryFormat() != library.JSON {
		t.Errorf("LibraryFormat = %v", p.LibraryFormat())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yml")
	writeFile(t, path, "midi:\n  channel: 5\nlibrary:\n  format: yaml\n")
	p, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.MIDI.Channel != 5 || p.LibraryFormat() != library.YAML {
		t.Errorf("overrides not applied: %+v", p)
	}
	if p.History.Depth != 3 || p.Server.Addr == "" {
		t.Errorf("defaults lost: %+v", p)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "none.yml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestMakeReadsUserConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	p := config.Make()
	if p.YmlError != nil || p.History.Depth != 3 {
		t.Fatalf("without a custom file: %+v", p)
	}
	writeFile(t, filepath.Join(dir, "freakgen", config.Filename), "history:\n  depth: 5\n")
	if p = config.Make(); p.History.Depth != 5 || p.YmlError != nil {
		t.Errorf("custom file not applied: %+v", p)
	}
	writeFile(t, filepath.Join(dir, "freakgen", config.Filename), "history: [\n")
	if p = config.Make(); p.YmlError == nil {
		t.Error("broken custom file not reported")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Preferences)
	}{
		{"format", func(p *config.Preferences) { p.Library.Format = "xml" }},
		{"depth", func(p *config.Preferences) { p.History.Depth = 0 }},
		{"channel", func(p *config.Preferences) { p.MIDI.Channel = 17 }},
		{"style", func(p *config.Preferences) { p.Defaults.Style = "polka" }},
		{"intensity", func(p *config.Preferences) { p.Defaults.Intensity = "wild" }},
		{"engine", func(p *config.Preferences) { p.Defaults.Engine = "Banjo" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := config.Default()
			tt.modify(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLibraryDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	tests := []struct{ in, want string }{
		{"~/Documents/FreakGEN_Library", filepath.Join(home, "Documents", "FreakGEN_Library")},
		{"~", home},
		{"/tmp/presets/", "/tmp/presets"},
	}
	for _, tt := range tests {
		p := config.Default()
		p.Library.Dir = tt.in
		got, err := p.LibraryDir()
		if err != nil || got != tt.want {
			t.Errorf("LibraryDir(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}
