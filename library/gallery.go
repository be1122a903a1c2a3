package library

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/freakgen/freakgen"
)

type (
	// Query filters and orders presets for the gallery. Zero fields match
	// everything.
	Query struct {
		Search        string
		Style         freakgen.Style
		Engine        string
		Intensity     freakgen.Intensity
		FavoritesOnly bool
		Sort          SortOrder
	}

	// SortOrder orders presets within their intensity group.
	SortOrder string

	// Stats summarizes a library.
	Stats struct {
		Total     int                    `json:"total"`
		Favorites int                    `json:"favorites"`
		ByStyle   map[freakgen.Style]int `json:"byStyle"`
	}
)

const (
	SortNewest SortOrder = "date"
	SortName   SortOrder = "name"
)

// ParseSortOrder parses a sort order; "" sorts newest first.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNewest, "newest":
		return SortNewest, nil
	case SortName:
		return SortName, nil
	}
	return SortNewest, fmt.Errorf("unknown sort order %q", s)
}

// Match reports whether the preset passes the filters of the query. Search
// looks into the name and the description, case insensitively.
func (q Query) Match(p Preset) bool {
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" &&
		!strings.Contains(strings.ToLower(p.Name), s) &&
		!strings.Contains(strings.ToLower(p.Description), s) {
		return false
	}
	if q.Style != "" && q.Style != freakgen.StyleRandom && p.Style != q.Style {
		return false
	}
	if q.Engine != "" && !strings.EqualFold(q.Engine, p.Engine) {
		return false
	}
	if q.Intensity != "" && p.Intensity != q.Intensity {
		return false
	}
	return !q.FavoritesOnly || p.Favorite
}

// Apply returns the matching presets grouped by intensity, from simple to
// extreme, and ordered within each group. Presets with an unknown intensity
// come last.
func (q Query) Apply(presets []Preset) []Preset {
	var ret []Preset
	for _, p := range presets {
		if q.Match(p) {
			ret = append(ret, p)
		}
	}
	slices.SortStableFunc(ret, func(a, b Preset) int {
		if c := intensityRank(a.Intensity) - intensityRank(b.Intensity); c != 0 {
			return c
		}
		if q.Sort == SortName {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
		return b.Time().Compare(a.Time())
	})
	return ret
}

func intensityRank(i freakgen.Intensity) int {
	if r := slices.Index(freakgen.Intensities, i); r >= 0 {
		return r
	}
	return len(freakgen.Intensities)
}

// Summarize counts the presets in total, the favorites and the presets per
// style.
func Summarize(presets []Preset) Stats {
	s := Stats{Total: len(presets), ByStyle: map[freakgen.Style]int{}}
	for _, p := range presets {
		if p.Favorite {
			s.Favorites++
		}
		s.ByStyle[p.Style]++
	}
	return s
}

// SuggestName proposes a default name for saving a patch of the given
// style.
func SuggestName(r *rand.Rand, style freakgen.Style) string {
	label := string(style)
	if style == "" || style == freakgen.StyleRandom {
		label = "Patch"
	}
	var n int
	if r != nil {
		n = r.IntN(99)
	} else {
		n = rand.IntN(99)
	}
	return fmt.Sprintf("My %s %d", label, n)
}
