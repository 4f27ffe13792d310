package catalog

import (
	"errors"
	"testing"
)

type testType string

func (t testType) ID() string   { return string(t) }
func (t testType) Name() string { return "T " + string(t) }

func TestRegistry_PaletteZeroFirst(t *testing.T) {
	r := NewRegistry[testType]("test", "AIR")
	for _, id := range []string{"STONE", "AIR", "DIRT"} {
		if err := r.Register(testType(id)); err != nil {
			t.Fatalf("Register(%s): %v", id, err)
		}
	}
	got := r.Palette()
	want := []string{"AIR", "DIRT", "STONE"}
	if len(got) != len(want) {
		t.Fatalf("palette=%v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("palette=%v want %v", got, want)
		}
	}
	if all := r.All(); len(all) != 3 || all[0] != "AIR" {
		t.Fatalf("All()=%v", all)
	}
}

func TestRegistry_RejectsEmptyAndDuplicate(t *testing.T) {
	r := NewRegistry[testType]("test", "")
	if err := r.Register(testType(" ")); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
	if err := r.Register(testType("A")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(testType("A")); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len()=%d", r.Len())
	}
}

func TestRegistry_DigestStable(t *testing.T) {
	a := NewRegistry[testType]("test", "")
	b := NewRegistry[testType]("test", "")
	_ = a.Register(testType("X"))
	_ = a.Register(testType("Y"))
	_ = b.Register(testType("Y"))
	_ = b.Register(testType("X"))
	if a.Digest() != b.Digest() {
		t.Fatalf("digest depends on registration order")
	}
	_ = b.Register(testType("Z"))
	if a.Digest() == b.Digest() {
		t.Fatalf("digest should change with contents")
	}
}
