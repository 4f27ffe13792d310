package catalogs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"voxelapi.dev/api/block"
	"voxelapi.dev/api/item"
)

func repoConfigDir(t *testing.T) string {
	t.Helper()
	return filepath.Join("..", "..", "configs")
}

func writeCatalogs(t *testing.T, blocks, items string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "blocks.json"), []byte(blocks), 0o644); err != nil {
		t.Fatalf("write blocks: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "items.json"), []byte(items), 0o644); err != nil {
		t.Fatalf("write items: %v", err)
	}
	return dir
}

func TestLoad_RepoConfigs(t *testing.T) {
	c, err := Load(repoConfigDir(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.Blocks.Index[block.AirID]; got != 0 {
		t.Fatalf("AIR index=%d", got)
	}
	if _, ok := c.Block("STONE"); !ok {
		t.Fatalf("STONE missing")
	}
	for k, v := range c.Digests() {
		if len(v) != 64 {
			t.Fatalf("digest %s=%q", k, v)
		}
	}

	s, err := c.NewStack("TNT", 4)
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}
	stone, _ := c.Block("STONE")
	dirt, _ := c.Block("DIRT")
	if err := s.CheckPlacement(stone); err != nil {
		t.Fatalf("TNT on STONE: %v", err)
	}
	if err := s.CheckPlacement(dirt); err == nil {
		t.Fatalf("TNT on DIRT should be refused")
	}
	if _, err := c.NewStack("TNT", 17); !errors.Is(err, item.ErrBadQuantity) {
		t.Fatalf("expected ErrBadQuantity, got %v", err)
	}

	plain, err := c.NewStack("DIRT", 1)
	if err != nil {
		t.Fatalf("NewStack DIRT: %v", err)
	}
	if plain.Placeable() != nil {
		t.Fatalf("DIRT should carry no placement data")
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name   string
		blocks string
		items  string
	}{
		{"missing air", `[{"id":"STONE","solid":true}]`, `[]`},
		{"duplicate block", `[{"id":"AIR"},{"id":"STONE"},{"id":"STONE"}]`, `[]`},
		{"empty item id", `[{"id":"AIR"}]`, `[{"id":"","kind":"MATERIAL"}]`},
		{"unknown drop", `[{"id":"AIR"},{"id":"STONE","drops_item":"GOLD"}]`, `[]`},
		{"unknown place_as", `[{"id":"AIR"}]`, `[{"id":"X","kind":"BLOCK","place_as":"NOPE"}]`},
		{"unknown placeable_on", `[{"id":"AIR"}]`, `[{"id":"X","kind":"MATERIAL","placeable_on":["NOPE"]}]`},
		{"bad json", `{`, `[]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeCatalogs(t, tc.blocks, tc.items)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_DigestStableAcrossOrder(t *testing.T) {
	a, err := Load(writeCatalogs(t, `[{"id":"AIR"},{"id":"A"},{"id":"B"}]`, `[]`))
	if err != nil {
		t.Fatalf("Load a: %v", err)
	}
	b, err := Load(writeCatalogs(t, `[{"id":"B"},{"id":"A"},{"id":"AIR"}]`, `[]`))
	if err != nil {
		t.Fatalf("Load b: %v", err)
	}
	if a.Blocks.Registry.Digest() != b.Blocks.Registry.Digest() {
		t.Fatalf("palette digest depends on file order")
	}
	if a.Blocks.DefsDigest == b.Blocks.DefsDigest {
		t.Fatalf("defs digest should track raw bytes")
	}
}
