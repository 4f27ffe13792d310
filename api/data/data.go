// Package data holds keyed values and the manipulator contracts that attach
// them to items and blocks.
package data

// Key identifies one kind of value, e.g. the set of blocks an item may be
// placed on.
type Key struct {
	ID   string
	Name string
}

func (k Key) String() string { return k.ID }

// Value is a keyed value with a default.
type Value[T any] interface {
	Key() Key
	Get() T
	Default() T
}

// KeyedValue is a Value with its element type erased. Assert to Value[T]
// to read it.
type KeyedValue interface {
	Key() Key
}

// ImmutableDataManipulator is an immutable bundle of values. I is the
// immutable type itself and M its mutable counterpart.
type ImmutableDataManipulator[I any, M any] interface {
	AsMutable() M
	Keys() []Key
	Values() []KeyedValue
}

// DataManipulator is the mutable counterpart of ImmutableDataManipulator.
type DataManipulator[M any, I any] interface {
	AsImmutable() I
	Copy() M
	Keys() []Key
	Values() []KeyedValue
}
