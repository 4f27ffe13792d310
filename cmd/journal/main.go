package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"voxelapi.dev/internal/journal"
	"voxelapi.dev/internal/journal/indexdb"
	"voxelapi.dev/internal/protocol"
)

func main() {
	var (
		dataDir = flag.String("data", "./data", "runtime data directory")
		worldF  = flag.String("world", "", "only show this world (optional)")
		verbose = flag.Bool("v", false, "print every explosion")
		block   = flag.String("block", "", "x,y,z: list indexed explosions that affected this block (needs -world)")
		limit   = flag.Int("limit", 20, "rows for index queries")
	)
	flag.Parse()

	if *block != "" {
		if err := blockHistory(*dataDir, *worldF, *block); err != nil {
			fmt.Fprintln(os.Stderr, "block history:", err)
			os.Exit(1)
		}
		return
	}

	dir := filepath.Join(*dataDir, "journal")
	files, err := journal.ListFiles(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list journal:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no journal files found in", dir)
		os.Exit(1)
	}

	s := newSummary()
	for _, path := range files {
		err := journal.ReadFile(path, func(e protocol.ExplosionEvent) error {
			if *worldF != "" && e.World != *worldF {
				return nil
			}
			s.add(e)
			if *verbose {
				fmt.Println(formatEvent(e))
			}
			return nil
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
	}
	s.print(os.Stdout, len(files))

	idxPath := filepath.Join(*dataDir, "index", "explosions.sqlite")
	if _, err := os.Stat(idxPath); err == nil {
		r, err := indexdb.OpenReader(idxPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open index:", err)
			os.Exit(1)
		}
		defer r.Close()
		rows, err := r.Explosions(context.Background(), *worldF, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query index:", err)
			os.Exit(1)
		}
		fmt.Printf("index: %d most recent\n", len(rows))
		for _, row := range rows {
			fmt.Printf("  %s %s world=%s r=%.2f blocks=%d/%d cancelled=%v\n",
				row.Time, row.ID, row.World, row.Radius, row.Blocks, row.OriginalBlocks, row.Cancelled)
		}
	}
}

func formatEvent(e protocol.ExplosionEvent) string {
	src := "-"
	if e.Source != nil {
		src = e.Source.Type
	}
	return fmt.Sprintf("%s %s world=%s origin=(%.2f, %.2f, %.2f) r=%.2f source=%s blocks=%d/%d entities=%d/%d cancelled=%v cause=%s",
		e.Time, e.ID, e.World, e.Origin[0], e.Origin[1], e.Origin[2], e.Radius, src,
		len(e.Blocks), e.OriginalBlocks, len(e.Entities), e.OriginalEntities, e.Cancelled, strings.Join(e.Cause, ">"))
}

func parseBlock(s string) ([3]int, error) {
	var out [3]int
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("want x,y,z, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return out, fmt.Errorf("coordinate %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func blockHistory(dataDir, world, block string) error {
	if world == "" {
		return fmt.Errorf("-block needs -world")
	}
	pos, err := parseBlock(block)
	if err != nil {
		return err
	}
	r, err := indexdb.OpenReader(filepath.Join(dataDir, "index", "explosions.sqlite"))
	if err != nil {
		return err
	}
	defer r.Close()
	ids, err := r.BlockHistory(context.Background(), world, pos[0], pos[1], pos[2])
	if err != nil {
		return err
	}
	fmt.Printf("block %s@(%d, %d, %d): %d explosions\n", world, pos[0], pos[1], pos[2], len(ids))
	for _, id := range ids {
		fmt.Println("  " + id)
	}
	return nil
}

type worldSummary struct {
	explosions int
	cancelled  int
	blocks     int
	original   int
	entities   int
}

type summary struct {
	byWorld map[string]*worldSummary
	first   string
	last    string
}

func newSummary() *summary { return &summary{byWorld: map[string]*worldSummary{}} }

func (s *summary) add(e protocol.ExplosionEvent) {
	ws := s.byWorld[e.World]
	if ws == nil {
		ws = &worldSummary{}
		s.byWorld[e.World] = ws
	}
	ws.explosions++
	if e.Cancelled {
		ws.cancelled++
	} else {
		ws.blocks += len(e.Blocks)
		ws.entities += len(e.Entities)
	}
	ws.original += e.OriginalBlocks
	if s.first == "" || e.Time < s.first {
		s.first = e.Time
	}
	if e.Time > s.last {
		s.last = e.Time
	}
}

func (s *summary) print(out *os.File, files int) {
	names := make([]string, 0, len(s.byWorld))
	for n := range s.byWorld {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Fprintf(out, "journal: files=%d worlds=%d first=%s last=%s\n", files, len(names), s.first, s.last)
	for _, n := range names {
		ws := s.byWorld[n]
		fmt.Fprintf(out, "  %s explosions=%d cancelled=%d blocks=%d/%d entities=%d\n",
			n, ws.explosions, ws.cancelled, ws.blocks, ws.original, ws.entities)
	}
}
