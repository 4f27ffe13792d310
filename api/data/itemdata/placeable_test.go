package itemdata

import (
	"testing"

	"voxelapi.dev/api/block"
	"voxelapi.dev/api/data"
)

var (
	stone = block.Def{BlockID: "STONE", IsSolid: true}
	dirt  = block.Def{BlockID: "DIRT", IsSolid: true}
	sand  = block.Def{BlockID: "SAND", IsSolid: true}
)

func TestCanPlaceOn(t *testing.T) {
	if !CanPlaceOn(nil, stone) {
		t.Fatalf("items without data should be unrestricted")
	}
	d := NewImmutablePlaceableData(stone, dirt)
	if !CanPlaceOn(d, stone) || !CanPlaceOn(d, block.Def{BlockID: "DIRT", DisplayName: "Dirt"}) {
		t.Fatalf("listed types should be allowed")
	}
	if CanPlaceOn(d, sand) {
		t.Fatalf("unlisted type should be rejected")
	}
	if CanPlaceOn(NewImmutablePlaceableData(), stone) {
		t.Fatalf("empty set allows nothing")
	}
}

func TestPlaceable_MutableRoundTrip(t *testing.T) {
	imm := NewImmutablePlaceableData(stone)
	m := imm.AsMutable()
	m.Add(dirt, stone)
	m.Remove(stone)
	if imm.Placeable().Size() != 1 || !imm.Placeable().Contains(stone) {
		t.Fatalf("immutable data changed: %v", imm.Placeable().Get())
	}
	back := m.AsImmutable()
	if back.Placeable().Size() != 1 || !back.Placeable().Contains(dirt) {
		t.Fatalf("mutable edits lost: %v", back.Placeable().Get())
	}
	c := m.Copy()
	c.Add(sand)
	if len(m.Placeable()) != 1 {
		t.Fatalf("Copy should be independent")
	}
	if back.Keys()[0] != PlaceableKey {
		t.Fatalf("keys=%v", back.Keys())
	}
	vals := back.Values()
	if len(vals) != 1 || vals[0].Key() != PlaceableKey {
		t.Fatalf("values=%v", vals)
	}
	set, ok := vals[0].(data.Value[[]block.Type])
	if !ok || len(set.Get()) != 1 || set.Get()[0].ID() != dirt.ID() {
		t.Fatalf("value does not carry the placeable set: %v", vals[0])
	}
	if mv := m.Values(); len(mv) != 1 || mv[0].Key() != PlaceableKey {
		t.Fatalf("mutable values=%v", mv)
	}
}

func TestPlaceable_JSON(t *testing.T) {
	d := NewImmutablePlaceableData(stone, dirt)
	raw, err := d.(immutablePlaceable).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(raw) != `{"placeable":["DIRT","STONE"]}` {
		t.Fatalf("json=%s", raw)
	}
	reg := block.NewRegistry()
	_ = reg.Register(stone)
	_ = reg.Register(dirt)
	got, err := DecodePlaceable(raw, reg.Get)
	if err != nil {
		t.Fatalf("DecodePlaceable: %v", err)
	}
	if !CanPlaceOn(got, stone) || !CanPlaceOn(got, dirt) || got.Placeable().Size() != 2 {
		t.Fatalf("decoded=%v", got.Placeable().Get())
	}
	if _, err := DecodePlaceable([]byte(`{"placeable":["LAVA"]}`), reg.Get); err == nil {
		t.Fatalf("expected unknown block error")
	}
}
