// Package catalogs loads the block and item catalogs a host serves.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"voxelapi.dev/api/block"
	"voxelapi.dev/api/catalog"
	"voxelapi.dev/api/data/itemdata"
	"voxelapi.dev/api/item"
)

type Catalogs struct {
	Blocks BlockCatalog
	Items  ItemCatalog
}

type BlockCatalog struct {
	Registry   *catalog.Registry[block.Type]
	Index      map[string]uint16
	DefsDigest string
}

type ItemCatalog struct {
	Registry   *catalog.Registry[item.Type]
	DefsDigest string

	// placeableOn holds the default placement restriction per item id.
	placeableOn map[string][]string
}

type itemDef struct {
	item.Def
	PlaceableOn []string `json:"placeable_on,omitempty"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadBlocks(filepath.Join(configDir, "blocks.json"), &c.Blocks); err != nil {
		return nil, err
	}
	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	if err := c.crossCheck(); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadBlocks(path string, out *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []block.Def
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	hasAir := false
	out.Registry = block.NewRegistry()
	for _, d := range defs {
		if d.BlockID == block.AirID {
			hasAir = true
			continue
		}
		if err := out.Registry.Register(d); err != nil {
			return fmt.Errorf("blocks.json: %w", err)
		}
	}
	if !hasAir {
		return fmt.Errorf("blocks.json: missing AIR")
	}

	pal := out.Registry.Palette()
	out.Index = make(map[string]uint16, len(pal))
	for i, id := range pal {
		out.Index[id] = uint16(i)
	}
	return nil
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []itemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.Registry = item.NewRegistry()
	out.placeableOn = map[string][]string{}
	for _, d := range defs {
		if err := out.Registry.Register(d.Def); err != nil {
			return fmt.Errorf("items.json: %w", err)
		}
		if len(d.PlaceableOn) > 0 {
			ids := append([]string(nil), d.PlaceableOn...)
			sort.Strings(ids)
			out.placeableOn[d.ItemID] = ids
		}
	}
	return nil
}

// crossCheck makes sure every block and item reference resolves.
func (c *Catalogs) crossCheck() error {
	for _, b := range c.Blocks.Registry.All() {
		d, ok := b.(block.Def)
		if !ok || d.DropsItem == "" {
			continue
		}
		if _, ok := c.Items.Registry.Get(d.DropsItem); !ok {
			return fmt.Errorf("blocks.json: %s drops unknown item %q", d.BlockID, d.DropsItem)
		}
	}
	for _, it := range c.Items.Registry.All() {
		if id, ok := it.PlacesAs(); ok {
			if _, ok := c.Blocks.Registry.Get(id); !ok {
				return fmt.Errorf("items.json: %s places unknown block %q", it.ID(), id)
			}
		}
		for _, id := range c.Items.placeableOn[it.ID()] {
			if _, ok := c.Blocks.Registry.Get(id); !ok {
				return fmt.Errorf("items.json: %s placeable on unknown block %q", it.ID(), id)
			}
		}
	}
	return nil
}

// Block looks up a block type by id. It matches the lookup signature the
// data decoders take.
func (c *Catalogs) Block(id string) (block.Type, bool) {
	return c.Blocks.Registry.Get(id)
}

// NewStack returns a stack of the item with its default placement
// restriction attached, if the catalog defines one.
func (c *Catalogs) NewStack(itemID string, quantity int) (item.Stack, error) {
	t, ok := c.Items.Registry.Get(itemID)
	if !ok {
		return item.Stack{}, fmt.Errorf("unknown item %q", itemID)
	}
	s, err := item.NewStack(t, quantity)
	if err != nil {
		return item.Stack{}, err
	}
	if ids := c.Items.placeableOn[itemID]; len(ids) > 0 {
		d, err := itemdata.PlaceableFromIDs(ids, c.Block)
		if err != nil {
			return item.Stack{}, fmt.Errorf("item %s: %w", itemID, err)
		}
		s = s.WithPlaceable(d)
	}
	return s, nil
}

// Digests returns the digests a host advertises to remote observers.
func (c *Catalogs) Digests() map[string]string {
	return map[string]string{
		"block_palette": c.Blocks.Registry.Digest(),
		"block_defs":    c.Blocks.DefsDigest,
		"item_palette":  c.Items.Registry.Digest(),
		"item_defs":     c.Items.DefsDigest,
	}
}
