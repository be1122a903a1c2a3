// Package library stores generated patches as preset records in a directory,
// one file per preset.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/freakgen/freakgen"
	yamlv2 "gopkg.in/yaml.v2"
	"gopkg.in/yaml.v3"
)

type (
	// Preset is one saved record. Filename is where it was read from and is
	// not part of the record itself.
	Preset struct {
		Name        string             `json:"name" yaml:"name"`
		Description string             `json:"description" yaml:"description"`
		Date        string             `json:"date" yaml:"date"`
		Style       freakgen.Style     `json:"style" yaml:"style"`
		Intensity   freakgen.Intensity `json:"intensity" yaml:"intensity"`
		Engine      string             `json:"engine" yaml:"engine"`
		Favorite    bool               `json:"favorite" yaml:"favorite"`
		Patch       freakgen.Patch     `json:"patch" yaml:"patch"`

		Filename string `json:"-" yaml:"-"`
	}

	// Format selects the encoding new records are written in.
	Format string

	// Library is a directory of preset records.
	Library struct {
		Dir    string
		Format Format
		Logger *slog.Logger
		// Clock stamps new records; nil means time.Now.
		Clock func() time.Time
	}
)

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// UntitledName is used when a preset is saved without a name.
const UntitledName = "Untitled"

// ParseFormat parses a format name; "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return JSON, fmt.Errorf("unknown library format %q", s)
}

// Ext is the file extension of the format, including the dot.
func (f Format) Ext() string {
	if f == YAML {
		return ".yml"
	}
	return ".json"
}

// Open returns the library in dir, creating the directory if needed.
func Open(dir string, format Format, logger *slog.Logger) (*Library, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create library directory: %w", err)
	}
	return &Library{Dir: dir, Format: format, Logger: logger}, nil
}

func (l *Library) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

func (l *Library) now() time.Time {
	if l.Clock == nil {
		return time.Now()
	}
	return l.Clock()
}

var nonAlphanumeric = regexp.MustCompile("[^a-zA-Z0-9]")

// Filename derives the file name of a record: the lower cased name with
// every non alphanumeric character replaced by an underscore, followed by
// the save time in unix milliseconds.
func Filename(name string, t time.Time, format Format) string {
	slug := strings.ToLower(nonAlphanumeric.ReplaceAllString(name, "_"))
	return slug + "_" + strconv.FormatInt(t.UnixMilli(), 10) + format.Ext()
}

// NewPreset wraps a patch into a record dated t. The style recorded is the
// concrete style the patch was generated with.
func NewPreset(name, description string, p freakgen.Patch, t time.Time) Preset {
	name = strings.TrimSpace(name)
	if name == "" {
		name = UntitledName
	}
	engine := p.Osc.Value("Type")
	if engine == "" {
		engine = "Unknown"
	}
	return Preset{
		Name:        name,
		Description: strings.TrimSpace(description),
		Date:        t.UTC().Format(time.RFC3339),
		Style:       p.RealStyle,
		Intensity:   p.Intensity,
		Engine:      engine,
		Patch:       p.Copy(),
	}
}

// Time parses the date of the record. Records without a valid date sort as
// the zero time.
func (p Preset) Time() time.Time {
	t, err := time.Parse(time.RFC3339, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Save writes a new record for the patch and returns it with its Filename
// set.
func (l *Library) Save(name, description string, p freakgen.Patch) (Preset, error) {
	if p.Empty() {
		return Preset{}, errors.New("nothing generated to save")
	}
	now := l.now()
	preset := NewPreset(name, description, p, now)
	preset.Filename = Filename(preset.Name, now, l.Format)
	if err := l.write(preset); err != nil {
		return Preset{}, err
	}
	l.logger().Info("preset saved", "name", preset.Name, "file", preset.Filename)
	return preset, nil
}

func (l *Library) write(p Preset) error {
	data, err := Encode(p, formatOf(p.Filename))
	if err != nil {
		return fmt.Errorf("could not encode preset %q: %w", p.Name, err)
	}
	if err := os.WriteFile(filepath.Join(l.Dir, p.Filename), data, 0644); err != nil {
		return fmt.Errorf("could not write preset %q: %w", p.Name, err)
	}
	return nil
}

// Encode marshals a record in the given format.
func Encode(p Preset, format Format) ([]byte, error) {
	if format == YAML {
		return yaml.Marshal(&p)
	}
	return json.MarshalIndent(&p, "", "  ")
}

// Decode unmarshals a record. Both formats are read with the YAML decoder,
// JSON being a subset of it. Unknown keys are tolerated so that records
// written by other tools still load.
func Decode(data []byte) (Preset, error) {
	var p Preset
	if err := yamlv2.UnmarshalStrict(data, &p); err != nil {
		p = Preset{}
		if err := yamlv2.Unmarshal(data, &p); err != nil {
			return Preset{}, err
		}
	}
	if p.Name == "" && p.Patch.Empty() {
		return Preset{}, errors.New("not a preset record")
	}
	return p, nil
}

func formatOf(filename string) Format {
	switch filepath.Ext(filename) {
	case ".yml", ".yaml":
		return YAML
	}
	return JSON
}

func isRecord(filename string) bool {
	switch filepath.Ext(filename) {
	case ".json", ".yml", ".yaml":
		return true
	}
	return false
}

// Load reads every record of the library. Files that cannot be read or
// decoded are skipped and counted.
func (l *Library) Load() (presets []Preset, skipped int, err error) {
	fsys := os.DirFS(l.Dir)
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == "." {
				return nil
			}
			return fs.SkipDir
		}
		if !isRecord(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err == nil {
			var p Preset
			if p, err = Decode(data); err == nil {
				p.Filename = path
				presets = append(presets, p)
				return nil
			}
		}
		l.logger().Warn("could not load preset", "file", path, "err", err)
		skipped++
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("could not read library: %w", err)
	}
	if skipped > 0 {
		l.logger().Warn(fmt.Sprintf("Skipped %d corrupted preset file(s).", skipped))
	}
	return presets, skipped, nil
}

func (l *Library) path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || !isRecord(filename) {
		return "", fmt.Errorf("%w: %q", freakgen.ErrPresetNotFound, filename)
	}
	return filepath.Join(l.Dir, filename), nil
}

// Get reads one record by file name.
func (l *Library) Get(filename string) (Preset, error) {
	path, err := l.path(filename)
	if err != nil {
		return Preset{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Preset{}, fmt.Errorf("%w: %q", freakgen.ErrPresetNotFound, filename)
	}
	if err != nil {
		return Preset{}, err
	}
	p, err := Decode(data)
	if err != nil {
		return Preset{}, fmt.Errorf("could not decode preset %q: %w", filename, err)
	}
	p.Filename = filename
	return p, nil
}

// Delete removes a record.
func (l *Library) Delete(filename string) error {
	path, err := l.path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", freakgen.ErrPresetNotFound, filename)
		}
		return fmt.Errorf("could not delete preset: %w", err)
	}
	l.logger().Info("preset deleted", "file", filename)
	return nil
}

// ToggleFavorite flips the favorite flag of a record and rewrites it in
// its own format.
func (l *Library) ToggleFavorite(filename string) (Preset, error) {
	p, err := l.Get(filename)
	if err != nil {
		return Preset{}, err
	}
	p.Favorite = !p.Favorite
	if err := l.write(p); err != nil {
		return Preset{}, err
	}
	return p, nil
}
