package dedup

import (
	"log/slog"

	"github.com/roach88/replacelib/internal/def"
)

// Index resolves duplicate definitions and names to their canonical form.
// It reads directives on demand and caches every confirmed resolution.
type Index struct {
	state      *State
	reg        Registry
	directives def.DirectiveSource
}

// NewIndex returns an Index over reg and directives, caching into state.
func NewIndex(state *State, reg Registry, directives def.DirectiveSource) *Index {
	return &Index{state: state, reg: reg, directives: directives}
}

// MainOf returns the canonical definition for d, or d itself when no
// actionable directive names it. MainOf(nil) is nil.
func (x *Index) MainOf(d *def.Definition) *def.Definition {
	if d == nil {
		return nil
	}
	t := x.state.defs(d.Kind)
	if t == nil {
		return d
	}
	if m, ok := t.lookup(d); ok {
		return m
	}
	if t.isTarget(d) {
		return d
	}

	for _, rd := range x.directives.ReplacerDefs() {
		for _, dir := range rd.Replacers {
			if dir.Replace != d.Name || dir.With == "" {
				continue
			}
			main := x.registered(d.Kind, dir.With)
			if main == nil || main == d {
				continue
			}
			if t.record(d, main) {
				return main
			}
		}
	}
	return d
}

// MainNameOf returns the canonical name for name under kind, or name itself
// when no actionable directive names it.
func (x *Index) MainNameOf(kind def.Kind, name string) string {
	if name == "" {
		return name
	}
	t := x.state.names(kind)
	if t == nil {
		return name
	}
	if m, ok := t.lookup(name); ok {
		return m
	}
	if t.isTarget(name) {
		return name
	}

	for _, rd := range x.directives.ReplacerDefs() {
		for _, dir := range rd.Replacers {
			if dir.Replace != name || dir.With == "" {
				continue
			}
			main := x.registered(kind, dir.With)
			if main == nil || main.Name == name {
				continue
			}
			if t.record(name, main.Name) {
				return main.Name
			}
		}
	}
	return name
}

// MainThingName is MainNameOf for thing definitions.
func (x *Index) MainThingName(name string) string {
	return x.MainNameOf(def.KindThing, name)
}

// MainTerrainName is MainNameOf for terrain definitions.
func (x *Index) MainTerrainName(name string) string {
	return x.MainNameOf(def.KindTerrain, name)
}

// ProcessReplacerDefs eagerly records every directive whose two names resolve
// under the same kind, in authored order. It returns the number of identity
// aliases recorded by this call.
func (x *Index) ProcessReplacerDefs() int {
	recorded := 0
	for _, rd := range x.directives.ReplacerDefs() {
		for _, dir := range rd.Replacers {
			if dir.Replace == "" || dir.With == "" {
				continue
			}
			for _, kind := range def.Kinds {
				main := x.registered(kind, dir.With)
				if main == nil {
					continue
				}
				dup := x.registered(kind, dir.Replace)
				if dup == nil {
					continue
				}
				if x.state.defs(kind).record(dup, main) {
					recorded++
					slog.Debug("alias recorded",
						"replacer", rd.Name,
						"kind", kind,
						"duplicate", dup.Name,
						"canonical", main.Name,
					)
				}
				x.state.names(kind).record(dir.Replace, main.Name)
			}
		}
	}
	return recorded
}

// registered returns the definition registered under its own name, or nil.
// A name slot redirected to a canonical by an earlier fold does not count:
// following it would chain one alias through another.
func (x *Index) registered(kind def.Kind, name string) *def.Definition {
	d := x.reg.Lookup(kind, name)
	if d == nil || d.Name != name || !x.reg.Contains(kind, d) {
		return nil
	}
	return d
}

// Entry is one recorded identity alias.
type Entry struct {
	Kind      def.Kind
	Duplicate *def.Definition
	Canonical *def.Definition
}

// Entries returns the identity aliases of kind in the order they were
// recorded.
func (x *Index) Entries(kind def.Kind) []Entry {
	t := x.state.defs(kind)
	if t == nil {
		return nil
	}
	entries := make([]Entry, 0, t.len())
	for _, dup := range t.order {
		entries = append(entries, Entry{Kind: kind, Duplicate: dup, Canonical: t.main[dup]})
	}
	return entries
}
