package generate

import (
	"math"
	"slices"

	"github.com/freakgen/freakgen"
)

// connectionCounts is the number of routings an intensity asks for, as an
// inclusive range.
var connectionCounts = map[freakgen.Intensity][2]int{
	freakgen.Simple:   {2, 3},
	freakgen.Moderate: {4, 7},
	freakgen.High:     {8, 12},
	freakgen.Extreme:  {15, 20},
}

// ConnectionRange returns how many connections the intensity requests.
// Unknown intensities fall back to Simple.
func ConnectionRange(intensity freakgen.Intensity) (lo, hi int) {
	c, ok := connectionCounts[intensity]
	if !ok {
		c = connectionCounts[freakgen.Simple]
	}
	return c[0], c[1]
}

// PitchGuarded reports whether pitch modulation amounts are limited to
// +-0.8 for this style and intensity.
func PitchGuarded(style freakgen.Style, intensity freakgen.Intensity) bool {
	return style != freakgen.StylePercussion && (intensity == freakgen.Simple || intensity == freakgen.Moderate)
}

// IsCycOwned reports whether an assign target belongs to the cycling
// envelope itself.
func IsCycOwned(target string) bool {
	return slices.Contains(freakgen.CycOwnedTargets, target)
}

type matrixBuilder struct {
	r         Rand
	style     freakgen.Style
	intensity freakgen.Intensity

	pool    []string // assign targets not bound to any slot yet
	config  []string
	pairs   map[routeKey]bool
	sources map[freakgen.Source]bool
	assigns map[freakgen.Destination]bool
	conns   []freakgen.Connection
}

type routeKey struct {
	s freakgen.Source
	d freakgen.Destination
}

// Matrix generates the modulation matrix. voiceMode is the voice mode of the
// master block the matrix will play with; unison-only targets are left out of
// the assign pool unless it is Unison.
func Matrix(r Rand, style freakgen.Style, intensity freakgen.Intensity, voiceMode string) freakgen.Matrix {
	b := &matrixBuilder{
		r:         r,
		style:     style,
		intensity: intensity,
		pairs:     map[routeKey]bool{},
		sources:   map[freakgen.Source]bool{},
		assigns:   map[freakgen.Destination]bool{},
	}
	lo, hi := ConnectionRange(intensity)
	count := between(r, lo, hi)

	b.pool = slices.Clone(freakgen.AssignTargets)
	if voiceMode != freakgen.Unison {
		b.pool = slices.DeleteFunc(b.pool, func(t string) bool { return slices.Contains(freakgen.UnisonTargets, t) })
	}
	for range freakgen.NumAssigns {
		i := r.IntN(len(b.pool))
		b.config = append(b.config, b.pool[i])
		b.pool = slices.Delete(b.pool, i, i+1)
	}

	// An assign slot bound to a cycling envelope parameter is only worth it
	// when the cycling envelope runs, so make sure something uses it.
	forceCyc := slices.ContainsFunc(b.config, IsCycOwned)
	for range count {
		var s freakgen.Source
		if forceCyc {
			s = freakgen.CycEnv
			forceCyc = false
		} else {
			s = pick(r, freakgen.Sources)
		}
		b.add(s, pick(r, freakgen.Destinations))
	}

	if !b.cycEffective() {
		b.dropCyc()
	}
	b.blankUnused()
	return b.result()
}

// add samples the amount of a new connection. Repeated routes are skipped.
func (b *matrixBuilder) add(s freakgen.Source, d freakgen.Destination) {
	key := routeKey{s, d}
	if b.pairs[key] {
		return
	}
	b.pairs[key] = true
	b.sources[s] = true
	if d.IsAssign() {
		b.assigns[d] = true
	}
	c := freakgen.Connection{Source: s, Destination: d, Target: b.resolve(d)}
	c.Amount = float64(between(b.r, -100, 100))
	if d == freakgen.Pitch && PitchGuarded(b.style, b.intensity) {
		c.Amount = float64(between(b.r, -8, 8)) / 10
	}
	if c.Target == freakgen.Unispread {
		c.Amount = math.Abs(c.Amount)
	}
	b.conns = append(b.conns, c)
}

func (b *matrixBuilder) resolve(d freakgen.Destination) string {
	if i := d.AssignIndex(); i >= 0 {
		return b.config[i]
	}
	return string(d)
}

// cycEffective reports whether some cycling envelope connection modulates
// anything but the cycling envelope itself.
func (b *matrixBuilder) cycEffective() bool {
	return slices.ContainsFunc(b.conns, func(c freakgen.Connection) bool {
		return c.Source == freakgen.CycEnv && (!c.Destination.IsAssign() || !IsCycOwned(c.Target))
	})
}

// dropCyc removes the cycling envelope from the matrix and rebinds assign
// slots that still hold one of its parameters. If the pool has nothing left
// to rebind to, the slot keeps its binding.
func (b *matrixBuilder) dropCyc() {
	delete(b.sources, freakgen.CycEnv)
	b.conns = slices.DeleteFunc(b.conns, func(c freakgen.Connection) bool { return c.Source == freakgen.CycEnv })
	for i, target := range b.config {
		if !IsCycOwned(target) {
			continue
		}
		candidates := slices.DeleteFunc(slices.Clone(b.pool), IsCycOwned)
		if len(candidates) == 0 {
			continue
		}
		rep := pick(b.r, candidates)
		b.config[i] = rep
		b.pool = slices.DeleteFunc(b.pool, func(t string) bool { return t == rep })
		slot := freakgen.AssignSlots[i]
		for j := range b.conns {
			if b.conns[j].Destination != slot {
				continue
			}
			b.conns[j].Target = rep
			if rep == freakgen.Unispread {
				b.conns[j].Amount = math.Abs(b.conns[j].Amount)
			}
		}
	}
}

// blankUnused shows Blank in every assign slot no connection goes to.
func (b *matrixBuilder) blankUnused() {
	for i, slot := range freakgen.AssignSlots {
		if !slices.ContainsFunc(b.conns, func(c freakgen.Connection) bool { return c.Destination == slot }) {
			b.config[i] = freakgen.Blank
		}
	}
}

func (b *matrixBuilder) result() freakgen.Matrix {
	m := freakgen.Matrix{Connections: b.conns, Config: b.config}
	for _, s := range freakgen.Sources {
		if b.sources[s] {
			m.UsedSources = append(m.UsedSources, s)
		}
	}
	for _, d := range freakgen.AssignSlots {
		if b.assigns[d] {
			m.UsedAssigns = append(m.UsedAssigns, d)
		}
	}
	if m.Connections == nil {
		m.Connections = []freakgen.Connection{}
	}
	return m
}
