// Package ws relays recorded events to remote observers over websockets.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"voxelapi.dev/internal/protocol"
)

const (
	defaultBacklog = 1024
	maxBatch       = 256

	defaultReadTimeout = 60 * time.Second
	defaultPingEvery   = 30 * time.Second
)

// Relay is a journal sink that pushes EVENT messages to every observer
// connected through Handler.
type Relay struct {
	log     *log.Logger
	welcome func() protocol.WelcomeMsg
	queue   int

	// Observers that stay silent are kept alive by pings; readTimeout must
	// exceed pingEvery.
	readTimeout time.Duration
	pingEvery   time.Duration

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
	dropped  atomic.Uint64

	// OnClients, if set, is called with the observer count after every change.
	OnClients func(n int)

	mu      sync.Mutex
	cursor  uint64
	backlog []protocol.EventBatchItem
	clients map[uint64]*client
}

type client struct {
	id     uint64
	name   string
	worlds map[string]bool
	out    chan []byte
}

func (c *client) wants(world string) bool {
	return len(c.worlds) == 0 || c.worlds[world]
}

// NewRelay creates a relay. welcome supplies the static part of WELCOME
// messages; queue bounds the per-observer send buffer.
func NewRelay(logger *log.Logger, welcome func() protocol.WelcomeMsg, queue int) *Relay {
	if queue <= 0 {
		queue = 64
	}
	return &Relay{
		log:     logger,
		welcome: welcome,
		queue:   queue,

		readTimeout: defaultReadTimeout,
		pingEvery:   defaultPingEvery,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		clients: map[uint64]*client{},
	}
}

// WriteExplosion assigns the next cursor to e and broadcasts it. Observers
// whose buffer is full miss the event and can catch up with EVENT_BATCH_REQ.
func (r *Relay) WriteExplosion(e protocol.ExplosionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cursor++
	item := protocol.EventBatchItem{Cursor: r.cursor, Event: e}
	r.backlog = append(r.backlog, item)
	if len(r.backlog) > defaultBacklog {
		r.backlog = append(r.backlog[:0:0], r.backlog[len(r.backlog)-defaultBacklog:]...)
	}

	b, err := json.Marshal(protocol.EventMsg{
		Type:            protocol.TypeEvent,
		ProtocolVersion: protocol.Version,
		Cursor:          item.Cursor,
		Event:           e,
	})
	if err != nil {
		return err
	}
	for _, c := range r.clients {
		if !c.wants(e.World) {
			continue
		}
		select {
		case c.out <- b:
		default:
			r.dropped.Add(1)
		}
	}
	return nil
}

// Dropped counts events not delivered to slow observers.
func (r *Relay) Dropped() uint64 { return r.dropped.Load() }

func (r *Relay) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Batch returns up to limit backlog entries with a cursor above since.
func (r *Relay) Batch(since uint64, limit int) ([]protocol.EventBatchItem, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batchLocked(since, limit, nil)
}

func (r *Relay) batchLocked(since uint64, limit int, c *client) ([]protocol.EventBatchItem, uint64) {
	if limit <= 0 || limit > maxBatch {
		limit = maxBatch
	}
	out := []protocol.EventBatchItem{}
	next := since
	for _, it := range r.backlog {
		if it.Cursor <= since {
			continue
		}
		if len(out) == limit {
			break
		}
		next = it.Cursor
		if c != nil && !c.wants(it.Event.World) {
			continue
		}
		out = append(out, it)
	}
	return out, next
}

// replayLocked returns every backlog entry after since that c wants.
func (r *Relay) replayLocked(since uint64, c *client) []protocol.EventBatchItem {
	var out []protocol.EventBatchItem
	for _, it := range r.backlog {
		if it.Cursor <= since || !c.wants(it.Event.World) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (r *Relay) notifyClients(n int) {
	if r.OnClients != nil {
		r.OnClients(n)
	}
}

func (r *Relay) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		conn, err := r.upgrader.Upgrade(rw, req, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c, err := r.handshake(conn)
		if err != nil {
			if r.log != nil {
				r.log.Printf("relay handshake: %v", err)
			}
			return
		}
		defer r.remove(c)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		_ = conn.SetReadDeadline(time.Now().Add(r.readTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(r.readTimeout))
		})

		// Writer goroutine.
		go func() {
			ping := time.NewTicker(r.pingEvery)
			defer ping.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ping.C:
					if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
						cancel()
						return
					}
				case b := <-c.out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			_ = conn.SetReadDeadline(time.Now().Add(r.readTimeout))
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeEventBatchReq {
				continue
			}
			var breq protocol.EventBatchReqMsg
			if err := json.Unmarshal(msg, &breq); err != nil {
				continue
			}
			r.mu.Lock()
			items, next := r.batchLocked(breq.SinceCursor, breq.Limit, c)
			r.mu.Unlock()
			b, err := json.Marshal(protocol.EventBatchMsg{
				Type:            protocol.TypeEventBatch,
				ProtocolVersion: protocol.Version,
				ReqID:           breq.ReqID,
				Events:          items,
				NextCursor:      next,
			})
			if err != nil {
				continue
			}
			select {
			case c.out <- b:
			case <-ctx.Done():
			}
		}
	}
}

type handshakeError string

func (e handshakeError) Error() string { return string(e) }

func (r *Relay) handshake(conn *websocket.Conn) (*client, error) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		r.reject(conn, protocol.ErrProtoBadRequest, "expected HELLO")
		return nil, handshakeError("expected HELLO")
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		r.reject(conn, protocol.ErrProtoBadRequest, "bad HELLO")
		return nil, err
	}
	if hello.ProtocolVersion != protocol.Version {
		r.reject(conn, protocol.ErrProtoVersion, "bad protocol_version")
		return nil, handshakeError("bad protocol_version " + strconv.Quote(hello.ProtocolVersion))
	}
	if hello.ObserverName == "" {
		hello.ObserverName = "observer"
	}

	c := &client{
		id:     r.nextID.Add(1),
		name:   hello.ObserverName,
		worlds: map[string]bool{},
		out:    make(chan []byte, r.queue),
	}
	for _, w := range hello.Worlds {
		c.worlds[w] = true
	}

	// Every event is either replayed below or queued on c.out, never both.
	r.mu.Lock()
	cursor := r.cursor
	var replay []protocol.EventBatchItem
	if hello.SinceCursor > 0 {
		replay = r.replayLocked(hello.SinceCursor, c)
	}
	r.clients[c.id] = c
	n := len(r.clients)
	r.mu.Unlock()
	r.notifyClients(n)

	welcome := protocol.WelcomeMsg{}
	if r.welcome != nil {
		welcome = r.welcome()
	}
	welcome.Type = protocol.TypeWelcome
	welcome.ProtocolVersion = protocol.Version
	welcome.SessionID = "obs_" + strconv.FormatUint(c.id, 10)
	welcome.Cursor = cursor
	if err := writeJSON(conn, welcome); err != nil {
		r.remove(c)
		return nil, err
	}
	for _, it := range replay {
		if err := writeJSON(conn, protocol.EventMsg{
			Type:            protocol.TypeEvent,
			ProtocolVersion: protocol.Version,
			Cursor:          it.Cursor,
			Event:           it.Event,
		}); err != nil {
			r.remove(c)
			return nil, err
		}
	}
	if r.log != nil {
		r.log.Printf("observer %s connected as %s (cursor=%d replay=%d)", c.name, welcome.SessionID, cursor, len(replay))
	}
	return c, nil
}

func (r *Relay) remove(c *client) {
	r.mu.Lock()
	_, ok := r.clients[c.id]
	delete(r.clients, c.id)
	n := len(r.clients)
	r.mu.Unlock()
	if ok {
		r.notifyClients(n)
	}
}

func (r *Relay) reject(conn *websocket.Conn, code, message string) {
	_ = writeJSON(conn, protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         message,
	})
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, message), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
