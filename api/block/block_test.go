package block

import "testing"

func TestNewRegistry_AirIsPaletteZero(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Def{BlockID: "STONE", IsSolid: true, IsBreakable: true}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(Def{BlockID: "AAA"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	pal := r.Palette()
	if pal[0] != AirID || pal[1] != "AAA" || pal[2] != "STONE" {
		t.Fatalf("palette=%v", pal)
	}
	stone, ok := r.Get("STONE")
	if !ok || !stone.Solid() || stone.Name() != "STONE" {
		t.Fatalf("stone=%#v ok=%v", stone, ok)
	}
}
