package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/time/rate"

	"voxelapi.dev/api/entity"
	"voxelapi.dev/api/event"
	"voxelapi.dev/api/lattice"
	"voxelapi.dev/api/world"
	"voxelapi.dev/api/world/explosion"
	"voxelapi.dev/internal/metrics"
	"voxelapi.dev/internal/protocol"
)

type explosionRequest struct {
	World        string          `json:"world"`
	Origin       [3]float64      `json:"origin"`
	Radius       float64         `json:"radius"`
	CanCauseFire bool            `json:"can_cause_fire"`
	BreaksBlocks *bool           `json:"breaks_blocks,omitempty"`
	SourceType   string          `json:"source_type,omitempty"`
	Plugin       string          `json:"plugin,omitempty"`
	Entities     []entityRequest `json:"entities,omitempty"`
}

type entityRequest struct {
	Type string `json:"type"`
	Pos  [3]int `json:"pos"`
}

type explosionResponse struct {
	Cancelled        bool     `json:"cancelled"`
	Blocks           [][3]int `json:"blocks"`
	Entities         []string `json:"entities"`
	OriginalBlocks   int      `json:"original_blocks"`
	OriginalEntities int      `json:"original_entities"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// explosionHandler builds a WorldOnExplosionEvent from a request, posts it
// and reports what the listeners left of it.
type explosionHandler struct {
	worlds    map[string]world.World
	bus       event.Manager
	limiter   *rate.Limiter
	maxRadius float64
	metrics   *metrics.Metrics
	log       *log.Logger
}

func (h *explosionHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.limiter != nil && !h.limiter.Allow() {
		h.fail(rw, http.StatusTooManyRequests, protocol.ErrRateLimit, "too many explosion requests")
		return
	}

	var req explosionRequest
	dec := json.NewDecoder(http.MaxBytesReader(rw, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.fail(rw, http.StatusBadRequest, protocol.ErrBadRequest, err.Error())
		return
	}
	w, ok := h.worlds[req.World]
	if !ok {
		h.fail(rw, http.StatusNotFound, protocol.ErrWorldNotFound, fmt.Sprintf("unknown world %q", req.World))
		return
	}
	if req.Radius > h.maxRadius {
		h.fail(rw, http.StatusBadRequest, protocol.ErrInvalidTarget, fmt.Sprintf("radius %.2f exceeds %.2f", req.Radius, h.maxRadius))
		return
	}

	b := explosion.NewBuilder().
		World(w).
		Origin(mgl64.Vec3{req.Origin[0], req.Origin[1], req.Origin[2]}).
		Radius(req.Radius).
		CanCauseFire(req.CanCauseFire)
	if req.BreaksBlocks != nil {
		b = b.ShouldBreakBlocks(*req.BreaksBlocks)
	}
	var source entity.Entity
	if req.SourceType != "" {
		source = entity.NewRef(req.SourceType, world.NewLocation(w, lattice.FloorVec3(mgl64.Vec3{req.Origin[0], req.Origin[1], req.Origin[2]})))
		b = b.SourceExplosive(source)
	}
	ex, err := b.Build()
	if err != nil {
		h.fail(rw, http.StatusBadRequest, protocol.ErrBadRequest, err.Error())
		return
	}

	var ents []entity.Entity
	for _, er := range req.Entities {
		pos := lattice.Vec3i{X: er.Pos[0], Y: er.Pos[1], Z: er.Pos[2]}
		if er.Type == "" || !ex.Covers(pos) {
			continue
		}
		ents = append(ents, entity.NewRef(er.Type, world.NewLocation(w, pos)))
	}

	cause, err := h.cause(req, source)
	if err != nil {
		h.fail(rw, http.StatusInternalServerError, protocol.ErrInternal, err.Error())
		return
	}
	ev := event.NewWorldOnExplosion(cause, ex, affectedBlocks(ex), ents)
	cancelled := h.bus.Post(ev)

	resp := explosionResponse{
		Cancelled:        cancelled,
		Blocks:           [][3]int{},
		Entities:         []string{},
		OriginalBlocks:   len(ev.OriginalLocations()),
		OriginalEntities: len(ev.OriginalEntities()),
	}
	for _, l := range ev.Locations() {
		resp.Blocks = append(resp.Blocks, [3]int{l.Position.X, l.Position.Y, l.Position.Z})
	}
	for _, e := range ev.Entities() {
		resp.Entities = append(resp.Entities, e.UniqueID().String())
	}
	if h.log != nil {
		h.log.Printf("explosion world=%s radius=%.2f blocks=%d/%d entities=%d/%d cancelled=%v",
			w.Name(), ex.Radius(), len(resp.Blocks), resp.OriginalBlocks, len(resp.Entities), resp.OriginalEntities, cancelled)
	}
	status := http.StatusOK
	if cancelled {
		status = http.StatusConflict
	}
	writeJSON(rw, status, resp)
}

func (h *explosionHandler) cause(req explosionRequest, source entity.Entity) (event.Cause, error) {
	var root any = "http"
	if req.Plugin != "" {
		root = event.PluginCause{ID: req.Plugin}
	}
	if source != nil {
		return event.NewCause(root, source)
	}
	return event.NewCause(root)
}

func (h *explosionHandler) fail(rw http.ResponseWriter, status int, code, msg string) {
	if h.metrics != nil {
		h.metrics.RequestsRejected.WithLabelValues(code).Inc()
	}
	writeJSON(rw, status, errorResponse{Code: code, Message: msg})
}

// affectedBlocks lists the buildable block positions whose centers lie
// within the blast radius. Explosions that do not break blocks affect none.
func affectedBlocks(ex explosion.Explosion) []world.Location {
	if !ex.ShouldBreakBlocks() {
		return nil
	}
	o, r := ex.Origin(), ex.Radius()
	lo := lattice.FloorVec3(mgl64.Vec3{o.X() - r, o.Y() - r, o.Z() - r})
	hi := lattice.FloorVec3(mgl64.Vec3{o.X() + r, o.Y() + r, o.Z() + r})
	var out []world.Location
	for y := lo.Y; y <= hi.Y; y++ {
		for z := lo.Z; z <= hi.Z; z++ {
			for x := lo.X; x <= hi.X; x++ {
				p := lattice.Vec3i{X: x, Y: y, Z: z}
				if !ex.Covers(p) {
					continue
				}
				l := world.NewLocation(ex.World(), p)
				if l.Within() {
					out = append(out, l)
				}
			}
		}
	}
	return out
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
