package library_test

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/freakgen/freakgen"
	"github.com/freakgen/freakgen/generate"
	"github.com/freakgen/freakgen/library"
)

var epoch = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// newLibrary returns a library in a temporary directory whose clock ticks
// one second per saved record.
func newLibrary(t *testing.T, format library.Format) *library.Library {
	t.Helper()
	lib, err := library.Open(filepath.Join(t.TempDir(), "lib"), format, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	now := epoch
	lib.Clock = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return lib
}

func patch(seed uint64, style freakgen.Style, intensity freakgen.Intensity) freakgen.Patch {
	return generate.Patch(generate.NewRand(seed), generate.Request{Style: style, Intensity: intensity})
}

func samePatch(t *testing.T, got, want freakgen.Patch) {
	t.Helper()
	for _, m := range freakgen.Modules {
		if m == freakgen.ModuleMatrix {
			continue
		}
		if !reflect.DeepEqual(got.Block(m), want.Block(m)) {
			t.Errorf("module %v differs:\n%+v\n%+v", m, got.Block(m), want.Block(m))
		}
	}
	if got.Matrix == nil {
		t.Fatal("matrix lost")
	}
	if !slices.Equal(got.Matrix.Connections, want.Matrix.Connections) || !slices.Equal(got.Matrix.Config, want.Matrix.Config) ||
		!slices.Equal(got.Matrix.UsedSources, want.Matrix.UsedSources) {
		t.Errorf("matrix differs:\n%+v\n%+v", got.Matrix, want.Matrix)
	}
	if got.Style != want.Style || got.RealStyle != want.RealStyle || got.Intensity != want.Intensity || got.Engine != want.Engine {
		t.Errorf("metadata differs: %v %v %v %v", got.Style, got.RealStyle, got.Intensity, got.Engine)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name   string
		format library.Format
		want   string
	}{
		{"My Bass 12", library.JSON, "my_bass_12_1792152000000.json"},
		{"Wobble! (v2)", library.YAML, "wobble___v2__1792152000000.yml"},
		{"Untitled", library.JSON, "untitled_1792152000000.json"},
	}
	for _, tt := range tests {
		if got := library.Filename(tt.name, epoch, tt.format); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, format := range []library.Format{library.JSON, library.YAML} {
		t.Run(string(format), func(t *testing.T) {
			lib := newLibrary(t, format)
			want := patch(7, freakgen.StyleRandom, freakgen.Extreme)
			saved, err := lib.Save("  Deep Pad  ", "slow and wide", want)
			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if saved.Name != "Deep Pad" || saved.Style != want.RealStyle || saved.Engine != want.Engine {
				t.Fatalf("unexpected record %+v", saved)
			}
			if !strings.HasPrefix(saved.Filename, "deep_pad_") || filepath.Ext(saved.Filename) != format.Ext() {
				t.Fatalf("unexpected file name %q", saved.Filename)
			}
			presets, skipped, err := lib.Load()
			if err != nil || skipped != 0 || len(presets) != 1 {
				t.Fatalf("Load = %v presets, %v skipped, %v", len(presets), skipped, err)
			}
			got := presets[0]
			if got.Filename != saved.Filename || got.Description != "slow and wide" || got.Date != saved.Date {
				t.Fatalf("record differs: %+v", got)
			}
			if !got.Time().Equal(epoch.Add(time.Second)) {
				t.Errorf("date %v", got.Time())
			}
			samePatch(t, got.Patch, want)
		})
	}
}

func TestSaveUntitled(t *testing.T) {
	lib := newLibrary(t, library.JSON)
	p, err := lib.Save("", "", patch(1, freakgen.StyleBass, freakgen.Simple))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if p.Name != library.UntitledName || !strings.HasPrefix(p.Filename, "untitled_") {
		t.Fatalf("unnamed preset saved as %q in %q", p.Name, p.Filename)
	}
	if _, err := lib.Save("x", "", freakgen.Patch{}); err == nil {
		t.Fatal("saving an empty patch succeeded")
	}
}

func TestLoadSkipsCorruptFiles(t *testing.T) {
	lib := newLibrary(t, library.JSON)
	if _, err := lib.Save("good", "", patch(1, freakgen.StyleLead, freakgen.Simple)); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"broken.json": "{\"name\": ",
		"empty.json":  "{}",
		"notes.txt":   "not a preset",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(lib.Dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(lib.Dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	presets, skipped, err := lib.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(presets) != 1 || skipped != 2 {
		t.Fatalf("got %v presets and %v skipped, want 1 and 2", len(presets), skipped)
	}
}

func TestLoadToleratesUnknownKeys(t *testing.T) {
	lib := newLibrary(t, library.JSON)
	record := `{"name": "Old", "date": "2025-01-02T03:04:05.678Z", "style": "pad", "intensity": "high", ` +
		`"engine": "Modal", "extra": 1, "patch": {"osc": [{"label": "Type", "val": "Modal", "raw": null}], ` +
		`"matrixData": {"usedSources": [], "connections": [], "config": ["INT - Blank", "INT - Blank", "INT - Blank"]}}}`
	if err := os.WriteFile(filepath.Join(lib.Dir, "old_1.json"), []byte(record), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := lib.Get("old_1.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.Name != "Old" || p.Favorite || p.Patch.Osc.Value("Type") != "Modal" || p.Patch.Osc[0].Raw != nil {
		t.Fatalf("unexpected record %+v", p)
	}
	if p.Time().IsZero() {
		t.Error("date with milliseconds did not parse")
	}
}

func TestDeleteAndFavorite(t *testing.T) {
	lib := newLibrary(t, library.YAML)
	p, err := lib.Save("fav", "", patch(2, freakgen.StyleKeys, freakgen.Moderate))
	if err != nil {
		t.Fatal(err)
	}
	toggled, err := lib.ToggleFavorite(p.Filename)
	if err != nil || !toggled.Favorite {
		t.Fatalf("ToggleFavorite = %+v, %v", toggled.Favorite, err)
	}
	if got, _ := lib.Get(p.Filename); !got.Favorite {
		t.Fatal("favorite flag not persisted")
	}
	if err := lib.Delete(p.Filename); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	for _, name := range []string{p.Filename, "../escape.json", "", "readme.txt"} {
		if _, err := lib.Get(name); !errors.Is(err, freakgen.ErrPresetNotFound) {
			t.Errorf("Get(%q) error = %v", name, err)
		}
	}
	if err := lib.Delete(p.Filename); !errors.Is(err, freakgen.ErrPresetNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
}

func TestQuery(t *testing.T) {
	day := func(d int) string { return epoch.AddDate(0, 0, d).Format(time.RFC3339) }
	presets := []library.Preset{
		{Name: "Zap", Style: freakgen.StyleSFX, Intensity: freakgen.Extreme, Engine: "Noise", Date: day(1)},
		{Name: "alpha bass", Style: freakgen.StyleBass, Intensity: freakgen.Simple, Engine: "Bass", Date: day(2), Favorite: true},
		{Name: "Beta", Description: "warm BASS line", Style: freakgen.StyleBass, Intensity: freakgen.Simple, Engine: "SawX", Date: day(3)},
		{Name: "Mystery", Intensity: "", Date: day(4)},
		{Name: "Choir", Style: freakgen.StylePad, Intensity: freakgen.High, Engine: "Chords", Date: day(0), Favorite: true},
	}
	names := func(ps []library.Preset) []string {
		var ret []string
		for _, p := range ps {
			ret = append(ret, p.Name)
		}
		return ret
	}
	tests := []struct {
		name  string
		query library.Query
		want  []string
	}{
		{"all newest first per group", library.Query{}, []string{"Beta", "alpha bass", "Choir", "Zap", "Mystery"}},
		{"by name", library.Query{Sort: library.SortName}, []string{"alpha bass", "Beta", "Choir", "Zap", "Mystery"}},
		{"search description", library.Query{Search: "bass"}, []string{"Beta", "alpha bass"}},
		{"style", library.Query{Style: freakgen.StylePad}, []string{"Choir"}},
		{"random style matches all", library.Query{Style: freakgen.StyleRandom, Intensity: freakgen.Extreme}, []string{"Zap"}},
		{"engine", library.Query{Engine: "sawx"}, []string{"Beta"}},
		{"favorites", library.Query{FavoritesOnly: true}, []string{"alpha bass", "Choir"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := names(tt.query.Apply(presets)); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
	s := library.Summarize(presets)
	if s.Total != 5 || s.Favorites != 2 || s.ByStyle[freakgen.StyleBass] != 2 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestSuggestName(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	if got := library.SuggestName(r, freakgen.StyleBass); !strings.HasPrefix(got, "My bass ") {
		t.Errorf("got %q", got)
	}
	if got := library.SuggestName(nil, freakgen.StyleRandom); !strings.HasPrefix(got, "My Patch ") {
		t.Errorf("got %q", got)
	}
}

func TestBackupRestore(t *testing.T) {
	src := newLibrary(t, library.JSON)
	for i, style := range []freakgen.Style{freakgen.StyleBass, freakgen.StylePad, freakgen.StyleSFX} {
		if _, err := src.Save(string(style), "", patch(uint64(i), style, freakgen.High)); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	n, err := src.Backup(&buf)
	if err != nil || n != 3 {
		t.Fatalf("Backup = %v, %v", n, err)
	}
	dst := newLibrary(t, library.YAML)
	data := buf.Bytes()
	if n, err := dst.Restore(bytes.NewReader(data), int64(len(data))); err != nil || n != 3 {
		t.Fatalf("Restore = %v, %v", n, err)
	}
	if n, err := dst.Restore(bytes.NewReader(data), int64(len(data))); err != nil || n != 0 {
		t.Fatalf("second Restore = %v, %v", n, err)
	}
	presets, _, err := dst.Load()
	if err != nil || len(presets) != 3 {
		t.Fatalf("Load after restore = %v, %v", len(presets), err)
	}
}

func TestExport(t *testing.T) {
	want := patch(11, freakgen.StyleOrgan, freakgen.Moderate)
	var buf bytes.Buffer
	if err := library.WriteExport(&buf, want, epoch, "v1.2.3"); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}
	got, err := library.ReadExport(buf.Bytes())
	if err != nil {
		t.Fatalf("ReadExport failed: %v", err)
	}
	samePatch(t, got, want)
	if _, err := library.ReadExport([]byte(`{"format": "other", "patch": {}}`)); err == nil {
		t.Error("foreign export accepted")
	}
	if name := library.ExportName(want, epoch); name != "FreakGEN_organ_1792152000000.freakgen" {
		t.Errorf("ExportName = %q", name)
	}
}
