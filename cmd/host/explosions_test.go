package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/time/rate"

	"voxelapi.dev/api/event"
	"voxelapi.dev/api/world"
	"voxelapi.dev/api/world/explosion"
	"voxelapi.dev/internal/metrics"
	"voxelapi.dev/internal/protocol"
)

func newTestHandler(t *testing.T) (*explosionHandler, *event.Bus) {
	t.Helper()
	dims, err := world.NewDimensionRegistry(world.VanillaDimensions())
	if err != nil {
		t.Fatalf("dims: %v", err)
	}
	ow, _ := dims.Get(world.Overworld)
	bus := event.NewBus(nil)
	return &explosionHandler{
		worlds:    map[string]world.World{"world": world.NewRef("world", ow)},
		bus:       bus,
		maxRadius: 8,
		metrics:   metrics.New(),
	}, bus
}

func do(t *testing.T, h http.Handler, method, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, "/v1/explosions", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var out map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	return rr, out
}

func TestExplosionHandler_PostsEvent(t *testing.T) {
	h, bus := newTestHandler(t)
	var seen event.WorldOnExplosionEvent
	event.Subscribe(bus, func(e event.WorldOnExplosionEvent) {
		seen = e
		// Protect the origin block column.
		e.FilterLocations(func(l world.Location) bool { return l.Position.X != 0 || l.Position.Z != 0 })
	})

	rr, out := do(t, h, http.MethodPost, `{
		"world":"world","origin":[0.5,64.5,0.5],"radius":1.5,
		"source_type":"minecraft:creeper","plugin":"tnt",
		"entities":[{"type":"minecraft:pig","pos":[1,64,0]},{"type":"minecraft:cow","pos":[9,64,9]}]
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if seen == nil {
		t.Fatalf("listener not called")
	}
	if _, ok := event.First[event.PluginCause](seen.Cause()); !ok {
		t.Fatalf("cause=%v", seen.Cause().All())
	}
	// Radius 1.5 around a block center covers the center block, its six
	// face neighbours and the twelve edge neighbours.
	if got := int(out["original_blocks"].(float64)); got != 19 {
		t.Fatalf("original_blocks=%d", got)
	}
	if got := len(out["blocks"].([]any)); got != 19-3 {
		t.Fatalf("blocks after filter=%d", got)
	}
	if got := int(out["original_entities"].(float64)); got != 1 {
		t.Fatalf("original_entities=%d", got)
	}
}

func TestExplosionHandler_Cancelled(t *testing.T) {
	h, bus := newTestHandler(t)
	event.Subscribe(bus, func(e event.WorldOnExplosionEvent) { e.SetCancelled(true) })
	rr, out := do(t, h, http.MethodPost, `{"world":"world","origin":[0,64,0],"radius":1}`)
	if rr.Code != http.StatusConflict || out["cancelled"] != true {
		t.Fatalf("status=%d out=%v", rr.Code, out)
	}
}

func TestExplosionHandler_Errors(t *testing.T) {
	h, _ := newTestHandler(t)
	cases := []struct {
		name   string
		method string
		body   string
		status int
		code   string
	}{
		{"method", http.MethodGet, ``, http.StatusMethodNotAllowed, ""},
		{"bad json", http.MethodPost, `{`, http.StatusBadRequest, protocol.ErrBadRequest},
		{"unknown field", http.MethodPost, `{"world":"world","radius":1,"boom":true}`, http.StatusBadRequest, protocol.ErrBadRequest},
		{"unknown world", http.MethodPost, `{"world":"mars","origin":[0,0,0],"radius":1}`, http.StatusNotFound, protocol.ErrWorldNotFound},
		{"zero radius", http.MethodPost, `{"world":"world","origin":[0,0,0],"radius":0}`, http.StatusBadRequest, protocol.ErrBadRequest},
		{"huge radius", http.MethodPost, `{"world":"world","origin":[0,0,0],"radius":100}`, http.StatusBadRequest, protocol.ErrInvalidTarget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr, out := do(t, h, tc.method, tc.body)
			if rr.Code != tc.status {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tc.status, rr.Body.String())
			}
			if tc.code != "" && out["code"] != tc.code {
				t.Fatalf("code=%v want %s", out["code"], tc.code)
			}
		})
	}
}

func TestExplosionHandler_RateLimited(t *testing.T) {
	h, _ := newTestHandler(t)
	h.limiter = rate.NewLimiter(rate.Limit(0.001), 1)
	body := `{"world":"world","origin":[0,64,0],"radius":1}`
	if rr, _ := do(t, h, http.MethodPost, body); rr.Code != http.StatusOK {
		t.Fatalf("first status=%d", rr.Code)
	}
	rr, out := do(t, h, http.MethodPost, body)
	if rr.Code != http.StatusTooManyRequests || out["code"] != protocol.ErrRateLimit {
		t.Fatalf("status=%d out=%v", rr.Code, out)
	}
}

func TestAffectedBlocks_RespectsBuildRange(t *testing.T) {
	w := world.NewRef("w", world.NewDimension(world.VanillaDimensions()[0], nil))
	ex, err := explosion.NewBuilder().World(w).Origin(mgl64.Vec3{0.5, 0.5, 0.5}).Radius(1).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, l := range affectedBlocks(ex) {
		if l.Position.Y < 0 {
			t.Fatalf("block below build range: %v", l)
		}
	}
	// Center plus four horizontal neighbours plus the block above.
	if got := len(affectedBlocks(ex)); got != 6 {
		t.Fatalf("affected=%d", got)
	}

	noBreak, _ := explosion.NewBuilder().World(w).Origin(mgl64.Vec3{0.5, 10.5, 0.5}).Radius(3).ShouldBreakBlocks(false).Build()
	if got := affectedBlocks(noBreak); len(got) != 0 {
		t.Fatalf("non-breaking explosion affected %d blocks", len(got))
	}
}

func TestExplosionHandler_ZeroCapRejectsEverything(t *testing.T) {
	h, _ := newTestHandler(t)
	h.maxRadius = 0
	rr, out := do(t, h, http.MethodPost, `{"world":"world","origin":[0,64,0],"radius":1}`)
	if rr.Code != http.StatusBadRequest || out["code"] != protocol.ErrInvalidTarget {
		t.Fatalf("code=%d body=%v", rr.Code, out)
	}
}
