package protocol

import (
	"fmt"
	"time"

	"voxelapi.dev/api/entity"
	"voxelapi.dev/api/event"
	"voxelapi.dev/api/world"
)

// EVENT (host -> observer)
type EventMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	Cursor          uint64         `json:"cursor"`
	Event           ExplosionEvent `json:"event"`
}

// ExplosionEvent is the wire and journal form of a posted
// WorldOnExplosionEvent.
type ExplosionEvent struct {
	ID           string     `json:"id"`
	Time         string     `json:"time"`
	World        string     `json:"world"`
	WorldUUID    string     `json:"world_uuid"`
	Dimension    string     `json:"dimension"`
	Origin       [3]float64 `json:"origin"`
	Radius       float64    `json:"radius"`
	CanCauseFire bool       `json:"can_cause_fire"`
	BreaksBlocks bool       `json:"breaks_blocks"`
	Source       *EntityRef `json:"source,omitempty"`
	Cause        []string   `json:"cause"`
	Cancelled    bool       `json:"cancelled"`

	Blocks           [][3]int    `json:"blocks"`
	Entities         []EntityRef `json:"entities"`
	OriginalBlocks   int         `json:"original_blocks"`
	OriginalEntities int         `json:"original_entities"`
}

type EntityRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Pos  [3]int `json:"pos"`
}

func entityRef(e entity.Entity) EntityRef {
	p := e.Location().Position
	return EntityRef{ID: e.UniqueID().String(), Type: e.Type(), Pos: [3]int{p.X, p.Y, p.Z}}
}

// NewExplosionEvent captures the state of ev after it was posted.
func NewExplosionEvent(id string, at time.Time, ev event.WorldOnExplosionEvent) ExplosionEvent {
	ex := ev.Explosion()
	w := ex.World()
	o := ex.Origin()
	out := ExplosionEvent{
		ID:               id,
		Time:             at.UTC().Format(time.RFC3339Nano),
		World:            w.Name(),
		WorldUUID:        w.UniqueID().String(),
		Origin:           [3]float64{o.X(), o.Y(), o.Z()},
		Radius:           ex.Radius(),
		CanCauseFire:     ex.CanCauseFire(),
		BreaksBlocks:     ex.ShouldBreakBlocks(),
		Cancelled:        ev.IsCancelled(),
		Blocks:           blockPositions(ev.Locations()),
		Cause:            []string{},
		Entities:         []EntityRef{},
		OriginalBlocks:   len(ev.OriginalLocations()),
		OriginalEntities: len(ev.OriginalEntities()),
	}
	if d := w.Dimension(); d != nil {
		out.Dimension = d.ID()
	}
	if src, ok := ex.SourceExplosive(); ok {
		ref := entityRef(src)
		out.Source = &ref
	}
	for _, c := range ev.Cause().All() {
		out.Cause = append(out.Cause, fmt.Sprint(c))
	}
	for _, e := range ev.Entities() {
		out.Entities = append(out.Entities, entityRef(e))
	}
	return out
}

func blockPositions(locs []world.Location) [][3]int {
	out := make([][3]int, 0, len(locs))
	for _, l := range locs {
		p := l.BlockPosition()
		out = append(out, [3]int{p.X, p.Y, p.Z})
	}
	return out
}
