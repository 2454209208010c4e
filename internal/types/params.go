package types

import "icarus/internal/source"

// Param is one entry of a Params list: a name (possibly anonymous for a
// purely positional parameter), a value of T, and whether it carries a
// default so trailing-default matching can treat it as optional.
type Param[T any] struct {
	Name       source.StringID
	HasName    bool
	Value      T
	HasDefault bool
}

// Params models the spec's `Params<T>`: an ordered list of parameters that
// may be matched positionally or by name, mirroring the teacher's generic
// parameter-list handling in overload resolution but generalised over the
// payload type T (TypeID for a Function's formals, (Value, QualType) for a
// GenericStruct's binding list).
type Params[T any] struct {
	entries []Param[T]
	byName  map[source.StringID]int
}

// NewParams builds a Params list from entries, indexing named ones for
// O(1) lookup during named-argument matching (spec.md §4.5).
func NewParams[T any](entries []Param[T]) Params[T] {
	p := Params[T]{entries: append([]Param[T](nil), entries...)}
	for i, e := range entries {
		if e.HasName {
			if p.byName == nil {
				p.byName = make(map[source.StringID]int, len(entries))
			}
			p.byName[e.Name] = i
		}
	}
	return p
}

// Len returns the number of parameters.
func (p Params[T]) Len() int { return len(p.entries) }

// At returns the parameter at positional index i.
func (p Params[T]) At(i int) Param[T] { return p.entries[i] }

// ByName looks up a parameter by its declared name.
func (p Params[T]) ByName(name source.StringID) (Param[T], int, bool) {
	idx, ok := p.byName[name]
	if !ok {
		return Param[T]{}, -1, false
	}
	return p.entries[idx], idx, true
}

// RequiredCount returns the number of leading parameters with no default,
// i.e. the minimum argument count a call must supply positionally.
func (p Params[T]) RequiredCount() int {
	n := 0
	for _, e := range p.entries {
		if !e.HasDefault {
			n++
		}
	}
	return n
}

// All returns the full entry slice; callers must not mutate it.
func (p Params[T]) All() []Param[T] { return p.entries }
