// Package render lays patches out as the cards of the generator view and
// prints them, together with the manual settings of a dispatch, as text.
package render

import (
	"embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/freakgen/freakgen"
	"github.com/freakgen/freakgen/dispatch"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*
var templateFS embed.FS

type (
	// Format selects a template.
	Format string

	// Card is one module of a patch as shown to users. Blank cards have no
	// rows.
	Card struct {
		Module freakgen.Module `json:"module"`
		Title  string          `json:"title"`
		Locked bool            `json:"locked"`
		Blank  bool            `json:"blank"`
		Rows   []Line          `json:"rows,omitempty"`
	}

	// Line is one visible row of a card.
	Line struct {
		Label   string `json:"label"`
		Value   string `json:"value"`
		Tooltip string `json:"tooltip,omitempty"`
	}

	// View is the data the patch templates execute on.
	View struct {
		Header string
		Blank  string
		Cards  []Card
	}

	Renderer struct {
		tmpl *template.Template
	}
)

const (
	Text     Format = "text"
	Markdown Format = "markdown"
)

var patchTemplates = map[Format]string{
	Text:     "patch.txt.tmpl",
	Markdown: "patch.md.tmpl",
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).Funcs(template.FuncMap{
		"title": Title,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Title title-cases s the English way.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

// Header is the one line description of a patch.
func Header(p freakgen.Patch) string {
	style := Title(string(p.RealStyle))
	if p.Style == freakgen.StyleRandom {
		style += " (random)"
	}
	parts := []string{"FreakGEN", style, Title(string(p.Intensity))}
	if p.Engine != "" {
		parts = append(parts, p.Engine)
	}
	return strings.Join(parts, " / ")
}

// Cards lays out the patch, one card per module. Rows without a value are
// left out; modules the matrix does not use show as blank.
func Cards(p freakgen.Patch, locks freakgen.LockSet) []Card {
	ret := make([]Card, 0, len(freakgen.Modules))
	for _, m := range freakgen.Modules {
		c := Card{Module: m, Title: m.Title(), Locked: locks.Locked(m)}
		if m == freakgen.ModuleMatrix {
			c.Rows = matrixLines(p.Matrix)
		} else {
			b := p.Block(m)
			c.Blank = b.IsBlank()
			if !c.Blank {
				for _, r := range b {
					if r.Visible() {
						c.Rows = append(c.Rows, Line{Label: r.Label, Value: r.Value, Tooltip: r.Tooltip})
					}
				}
			}
		}
		if len(c.Rows) == 0 {
			c.Blank = true
		}
		ret = append(ret, c)
	}
	return ret
}

func matrixLines(m *freakgen.Matrix) []Line {
	if m == nil || len(m.Connections) == 0 {
		return nil
	}
	var ret []Line
	for i, target := range m.Config {
		if i < len(freakgen.AssignSlots) {
			ret = append(ret, Line{Label: string(freakgen.AssignSlots[i]), Value: target})
		}
	}
	for _, c := range m.Connections {
		dest := string(c.Destination)
		if c.Destination.IsAssign() {
			dest += " (" + c.Target + ")"
		}
		ret = append(ret, Line{Label: string(c.Source) + " → " + dest, Value: strconv.FormatFloat(c.Amount, 'f', -1, 64)})
	}
	return ret
}

// Patch writes the patch in the given format.
func (r *Renderer) Patch(w io.Writer, p freakgen.Patch, locks freakgen.LockSet, format Format) error {
	name, ok := patchTemplates[format]
	if !ok {
		return fmt.Errorf("unknown render format %q", format)
	}
	view := View{Header: Header(p), Blank: freakgen.Blank, Cards: Cards(p, locks)}
	if err := r.tmpl.ExecuteTemplate(w, name, view); err != nil {
		return fmt.Errorf("could not render patch: %w", err)
	}
	return nil
}

// Manual writes the summary of a dispatch: how many controls were sent and
// what is left to set by hand.
func (r *Renderer) Manual(w io.Writer, plan dispatch.Plan, sent int) error {
	data := struct {
		Sent   int
		Manual []dispatch.Instruction
	}{sent, plan.Manual}
	if err := r.tmpl.ExecuteTemplate(w, "manual.txt.tmpl", data); err != nil {
		return fmt.Errorf("could not render manual settings: %w", err)
	}
	return nil
}
