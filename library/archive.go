package library

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/freakgen/freakgen"
)

// ExportFormat tags single patch export files.
const ExportFormat = "freakgen"

// ExportExt is the extension of single patch export files.
const ExportExt = ".freakgen"

// Export is the envelope of a single exported patch.
type Export struct {
	Format     string         `json:"format"`
	Version    string         `json:"version"`
	Exported   string         `json:"exported"`
	AppVersion string         `json:"appVersion"`
	Patch      freakgen.Patch `json:"patch"`
}

// WriteExport writes p as an export envelope.
func WriteExport(w io.Writer, p freakgen.Patch, t time.Time, appVersion string) error {
	e := Export{
		Format:     ExportFormat,
		Version:    "1.0",
		Exported:   t.UTC().Format(time.RFC3339),
		AppVersion: appVersion,
		Patch:      p,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&e)
}

// ReadExport reads the patch of an export envelope.
func ReadExport(data []byte) (freakgen.Patch, error) {
	var e Export
	if err := json.Unmarshal(data, &e); err != nil {
		return freakgen.Patch{}, fmt.Errorf("could not decode export: %w", err)
	}
	if e.Format != ExportFormat || e.Patch.Empty() {
		return freakgen.Patch{}, errors.New("invalid FreakGEN file format")
	}
	return e.Patch, nil
}

// ExportName is the suggested file name of an export of p.
func ExportName(p freakgen.Patch, t time.Time) string {
	style := string(p.RealStyle)
	if style == "" {
		style = "Patch"
	}
	return fmt.Sprintf("FreakGEN_%s_%d%s", style, t.UnixMilli(), ExportExt)
}

// Backup writes every record of the library into a zip archive and returns
// how many were written.
func (l *Library) Backup(w io.Writer) (int, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return 0, fmt.Errorf("could not read library: %w", err)
	}
	zw := zip.NewWriter(w)
	n := 0
	for _, e := range entries {
		if e.IsDir() || !isRecord(e.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(l.Dir, e.Name()))
		if err != nil {
			return n, err
		}
		f, err := zw.Create(e.Name())
		if err != nil {
			return n, err
		}
		if _, err := f.Write(data); err != nil {
			return n, err
		}
		n++
	}
	if err := zw.Close(); err != nil {
		return n, fmt.Errorf("could not finish backup: %w", err)
	}
	return n, nil
}

// Restore copies the records of a backup archive into the library. Records
// whose file already exists are left alone, as are entries that do not
// decode. It returns how many records were added.
func (l *Library) Restore(r io.ReaderAt, size int64) (int, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return 0, fmt.Errorf("could not open backup: %w", err)
	}
	n := 0
	for _, f := range zr.File {
		name := filepath.Base(f.Name)
		if f.FileInfo().IsDir() || !isRecord(name) {
			continue
		}
		target := filepath.Join(l.Dir, name)
		if _, err := os.Stat(target); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return n, err
		}
		if _, err := Decode(data); err != nil {
			l.logger().Warn("skipping backup entry", "file", f.Name, "err", err)
			continue
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return n, err
		}
		n++
	}
	l.logger().Info("backup restored", "added", n)
	return n, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
