package main

import (
	"encoding/json"
	"strings"
	"testing"

	"voxelapi.dev/internal/protocol"
)

func TestSplitList(t *testing.T) {
	got := splitList(" world, ,arena,")
	if len(got) != 2 || got[0] != "world" || got[1] != "arena" {
		t.Fatalf("got %v", got)
	}
	if splitList("") != nil {
		t.Fatalf("empty input should give nil")
	}
}

func TestDescribe(t *testing.T) {
	ev := protocol.EventMsg{
		Type:   protocol.TypeEvent,
		Cursor: 7,
		Event: protocol.ExplosionEvent{
			World:          "arena",
			Radius:         2,
			Cancelled:      true,
			OriginalBlocks: 3,
		},
	}
	b, _ := json.Marshal(ev)
	line, ok := describe(protocol.TypeEvent, b)
	if !ok || !strings.Contains(line, "#7 arena explosion cancelled") || !strings.Contains(line, "blocks=0/3") {
		t.Fatalf("line=%q ok=%v", line, ok)
	}

	em, _ := json.Marshal(protocol.ErrorMsg{Type: protocol.TypeError, Code: "E_PROTO_VERSION", Message: "want 1.0"})
	line, ok = describe(protocol.TypeError, em)
	if !ok || line != "ERROR E_PROTO_VERSION: want 1.0" {
		t.Fatalf("line=%q", line)
	}

	if _, ok := describe("NOPE", []byte(`{}`)); ok {
		t.Fatalf("unknown types should be skipped")
	}
}
