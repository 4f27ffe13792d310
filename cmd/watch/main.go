package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"

	"voxelapi.dev/internal/protocol"
)

func main() {
	var (
		url    = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name   = flag.String("name", "watch", "observer name")
		worlds = flag.String("worlds", "", "comma separated worlds to follow (default: all)")
		since  = flag.Uint64("since", 0, "replay backlog events after this cursor")
		batch  = flag.Int("batch", 0, "request one EVENT_BATCH of this size after WELCOME (0 = off)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[watch] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ObserverName:    *name,
		Worlds:          splitList(*worlds),
		SinceCursor:     *since,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	go func() {
		<-stop
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		if line, ok := describe(base.Type, msg); ok {
			logger.Print(line)
		}
		if base.Type == protocol.TypeWelcome && *batch > 0 {
			req := protocol.EventBatchReqMsg{
				Type:            protocol.TypeEventBatchReq,
				ProtocolVersion: protocol.Version,
				ReqID:           "watch_1",
				SinceCursor:     *since,
				Limit:           *batch,
			}
			if err := conn.WriteJSON(req); err != nil {
				logger.Printf("send EVENT_BATCH_REQ: %v", err)
			}
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatEvent(cursor uint64, e protocol.ExplosionEvent) string {
	state := "applied"
	if e.Cancelled {
		state = "cancelled"
	}
	return fmt.Sprintf("#%d %s explosion %s r=%.2f blocks=%d/%d entities=%d/%d",
		cursor, e.World, state, e.Radius, len(e.Blocks), e.OriginalBlocks, len(e.Entities), e.OriginalEntities)
}

// describe renders one relay message as a log line.
func describe(typ string, msg []byte) (string, bool) {
	switch typ {
	case protocol.TypeWelcome:
		var w protocol.WelcomeMsg
		if err := json.Unmarshal(msg, &w); err != nil {
			return "", false
		}
		names := make([]string, 0, len(w.Worlds))
		for _, wr := range w.Worlds {
			names = append(names, wr.Name+"("+wr.Dimension+")")
		}
		return fmt.Sprintf("WELCOME session=%s cursor=%d worlds=%s blocks=%s",
			w.SessionID, w.Cursor, strings.Join(names, ","), w.Catalogs.BlockPalette.Digest), true

	case protocol.TypeEvent:
		var ev protocol.EventMsg
		if err := json.Unmarshal(msg, &ev); err != nil {
			return "", false
		}
		return "EVENT " + formatEvent(ev.Cursor, ev.Event), true

	case protocol.TypeEventBatch:
		var b protocol.EventBatchMsg
		if err := json.Unmarshal(msg, &b); err != nil {
			return "", false
		}
		lines := []string{fmt.Sprintf("EVENT_BATCH req=%s events=%d next=%d", b.ReqID, len(b.Events), b.NextCursor)}
		for _, it := range b.Events {
			lines = append(lines, "  "+formatEvent(it.Cursor, it.Event))
		}
		return strings.Join(lines, "\n"), true

	case protocol.TypeError:
		var em protocol.ErrorMsg
		if err := json.Unmarshal(msg, &em); err != nil {
			return "", false
		}
		return fmt.Sprintf("ERROR %s: %s", em.Code, em.Message), true
	}
	return "", false
}
