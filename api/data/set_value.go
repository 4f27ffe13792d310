package data

// ImmutableSetValue is an immutable set of elements under a key. Elements
// keep their insertion order. Every modifier returns a new value.
type ImmutableSetValue[T comparable] struct {
	key   Key
	def   []T
	elems []T
	index map[T]struct{}
}

var _ Value[[]int] = ImmutableSetValue[int]{}

func NewImmutableSetValue[T comparable](key Key, def []T, elems ...T) ImmutableSetValue[T] {
	v := ImmutableSetValue[T]{key: key, def: dedupe(def, nil), index: map[T]struct{}{}}
	v.elems = dedupe(elems, v.index)
	return v
}

func dedupe[T comparable](in []T, index map[T]struct{}) []T {
	if index == nil {
		index = map[T]struct{}{}
	}
	out := make([]T, 0, len(in))
	for _, e := range in {
		if _, ok := index[e]; ok {
			continue
		}
		index[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func (v ImmutableSetValue[T]) Key() Key { return v.key }

// Get returns a copy of the elements.
func (v ImmutableSetValue[T]) Get() []T { return append([]T(nil), v.elems...) }

func (v ImmutableSetValue[T]) Default() []T { return append([]T(nil), v.def...) }

func (v ImmutableSetValue[T]) Size() int { return len(v.elems) }

func (v ImmutableSetValue[T]) Contains(e T) bool {
	_, ok := v.index[e]
	return ok
}

func (v ImmutableSetValue[T]) With(elems ...T) ImmutableSetValue[T] {
	return NewImmutableSetValue(v.key, v.def, append(v.Get(), elems...)...)
}

func (v ImmutableSetValue[T]) Without(elems ...T) ImmutableSetValue[T] {
	drop := make(map[T]struct{}, len(elems))
	for _, e := range elems {
		drop[e] = struct{}{}
	}
	return v.Filter(func(e T) bool {
		_, ok := drop[e]
		return !ok
	})
}

// Filter keeps the elements for which keep returns true.
func (v ImmutableSetValue[T]) Filter(keep func(T) bool) ImmutableSetValue[T] {
	out := make([]T, 0, len(v.elems))
	for _, e := range v.elems {
		if keep(e) {
			out = append(out, e)
		}
	}
	return NewImmutableSetValue(v.key, v.def, out...)
}

// Reset returns the value holding its default elements.
func (v ImmutableSetValue[T]) Reset() ImmutableSetValue[T] {
	return NewImmutableSetValue(v.key, v.def, v.def...)
}
