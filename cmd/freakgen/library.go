package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/freakgen/freakgen"
	"github.com/freakgen/freakgen/library"
	"github.com/freakgen/freakgen/version"
	"github.com/spf13/cobra"
)

var (
	listQuery     library.Query
	listSort      string
	showFormat    string
	exportOut     string
	importName    string
	importDescrip string
)

var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Manage the preset library",
	Long: `List, inspect and maintain the saved presets.

Subcommands:
  list      List presets, grouped by intensity
  show      Print a preset
  delete    Delete a preset
  favorite  Toggle the favorite flag of a preset
  backup    Write all presets into a zip file
  restore   Add the presets of a zip backup
  export    Export a preset as a .freakgen file
  import    Import a .freakgen file into the library`,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List presets",
	Args:  cobra.NoArgs,
	RunE:  runLibraryList,
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := readPatch(args[0])
		if err != nil {
			return err
		}
		return writePatch(cmd.OutOrStdout(), p, freakgen.LockSet{}, showFormat)
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <file>",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		return lib.Delete(args[0])
	},
}

var libraryFavoriteCmd = &cobra.Command{
	Use:   "favorite <file>",
	Short: "Toggle the favorite flag of a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		p, err := lib.ToggleFavorite(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%v favorite: %v\n", p.Name, p.Favorite)
		return nil
	},
}

var libraryBackupCmd = &cobra.Command{
	Use:   "backup [zip]",
	Short: "Write all presets into a zip file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLibraryBackup,
}

var libraryRestoreCmd = &cobra.Command{
	Use:   "restore <zip>",
	Short: "Add the presets of a zip backup; existing files are kept",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryRestore,
}

var libraryExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a preset as a .freakgen file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryExport,
}

var libraryImportCmd = &cobra.Command{
	Use:   "import <file.freakgen>",
	Short: "Import a .freakgen file into the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryImport,
}

func init() {
	libraryCmd.AddCommand(libraryListCmd, libraryShowCmd, libraryDeleteCmd, libraryFavoriteCmd,
		libraryBackupCmd, libraryRestoreCmd, libraryExportCmd, libraryImportCmd)

	f := libraryListCmd.Flags()
	f.StringVar(&listQuery.Search, "search", "", "Search in names and descriptions")
	f.StringVar((*string)(&listQuery.Style), "style", "", "Only presets of this style")
	f.StringVar(&listQuery.Engine, "engine", "", "Only presets with this engine")
	f.StringVar((*string)(&listQuery.Intensity), "intensity", "", "Only presets of this intensity")
	f.BoolVar(&listQuery.FavoritesOnly, "favorites", false, "Only favorites")
	f.StringVar(&listSort, "sort", "date", "Order within each intensity: date (newest first) or name")

	libraryShowCmd.Flags().StringVarP(&showFormat, "format", "f", "text", "Output format: text, markdown, json or yaml")
	libraryExportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Output file or directory (default: generated name in the current directory)")
	libraryImportCmd.Flags().StringVar(&importName, "name", "", "Name of the imported preset (default: suggested from the style)")
	libraryImportCmd.Flags().StringVar(&importDescrip, "description", "", "Description of the imported preset")
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	sort, err := library.ParseSortOrder(listSort)
	if err != nil {
		return err
	}
	q := listQuery
	q.Sort = sort
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	all, skipped, err := lib.Load()
	if err != nil {
		return err
	}
	stats := library.Summarize(all)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d presets, %d favorites", stats.Total, stats.Favorites)
	if skipped > 0 {
		fmt.Fprintf(out, ", %d skipped", skipped)
	}
	fmt.Fprintln(out)
	styles := make([]freakgen.Style, 0, len(stats.ByStyle))
	for st := range stats.ByStyle {
		styles = append(styles, st)
	}
	slices.Sort(styles)
	for _, st := range styles {
		fmt.Fprintf(out, "  %-12v %d\n", st, stats.ByStyle[st])
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tNAME\tSTYLE\tINTENSITY\tENGINE\tDATE\t")
	for _, p := range q.Apply(all) {
		name := p.Name
		if p.Favorite {
			name += " ★"
		}
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\t\n", p.Filename, name, p.Style, p.Intensity, p.Engine, p.Time().Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runLibraryBackup(cmd *cobra.Command, args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	path := "FreakGEN_Library_" + time.Now().Format("2006-01-02") + ".zip"
	if len(args) > 0 {
		path = args[0]
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	n, err := lib.Backup(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d presets to %v\n", n, path)
	return nil
}

func runLibraryRestore(cmd *cobra.Command, args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	n, err := lib.Restore(f, info.Size())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %d presets\n", n)
	return nil
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	p, err := lib.Get(args[0])
	if err != nil {
		return err
	}
	now := time.Now()
	path := exportOut
	if path == "" {
		path = library.ExportName(p.Patch, now)
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, library.ExportName(p.Patch, now))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = library.WriteExport(f, p.Patch, now, version.VersionOrHash)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %v\n", p.Name, path)
	return nil
}

func runLibraryImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	p, err := library.ReadExport(data)
	if err != nil {
		return err
	}
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	name := importName
	if name == "" {
		name = library.SuggestName(nil, p.RealStyle)
	}
	preset, err := lib.Save(name, importDescrip, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as %v\n", preset.Name, preset.Filename)
	return nil
}
