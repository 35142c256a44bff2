// Package wsbroadcast is a production Event Sink Facade implementation
// (spec §4.6/§9: "real host-bus emitter for production"): it fans every
// payload out to all currently-connected websocket clients as a small
// JSON envelope {"channel": ..., "payload": ...}.
//
// This stands in for the host front-end's own event bus — the
// transport itself is an external collaborator per spec §1 — but is a
// concrete, usable Sink a non-Wails host can wire in directly.
package wsbroadcast

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"disksight/internal/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Accept cross-origin upgrades; this sink is meant to sit behind a
	// developer-local control plane, not a public endpoint.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// envelope is the wire format pushed to every connected client.
type envelope struct {
	Channel string `json:"channel"`
	Payload any    `json:"payload"`
}

// Broadcaster is a Sink that writes every payload to all connected
// websocket clients. A client whose send buffer is full or whose
// connection has died is dropped rather than allowed to block the
// scan worker — the spec requires the sink to be non-blocking in
// expectation (§5).
type Broadcaster struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan envelope
	logger  *log.Logger
}

func New(logger *log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.Default()
	}
	return &Broadcaster{
		clients: make(map[*websocket.Conn]chan envelope),
		logger:  logger,
	}
}

// Handler upgrades an HTTP request to a websocket and registers the
// connection as a broadcast target until it closes.
func (b *Broadcaster) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Printf("wsbroadcast: upgrade failed: %v", err)
		return
	}

	outbox := make(chan envelope, 256)
	b.mu.Lock()
	b.clients[conn] = outbox
	b.mu.Unlock()

	go b.writePump(conn, outbox)
	go b.readPump(conn, outbox)
}

func (b *Broadcaster) readPump(conn *websocket.Conn, outbox chan envelope) {
	// Clients don't send anything meaningful; this goroutine's only
	// job is to notice disconnects and clean up.
	defer b.remove(conn, outbox)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) writePump(conn *websocket.Conn, outbox chan envelope) {
	for msg := range outbox {
		if err := conn.WriteJSON(msg); err != nil {
			b.remove(conn, outbox)
			return
		}
	}
}

func (b *Broadcaster) remove(conn *websocket.Conn, outbox chan envelope) {
	b.mu.Lock()
	if _, ok := b.clients[conn]; ok {
		delete(b.clients, conn)
		close(outbox)
	}
	b.mu.Unlock()
	_ = conn.Close()
}

func (b *Broadcaster) broadcast(channel string, payload any) {
	env := envelope{Channel: channel, Payload: payload}
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn, outbox := range b.clients {
		select {
		case outbox <- env:
		default:
			// Slow client: drop it instead of blocking the scan worker.
			delete(b.clients, conn)
			close(outbox)
			_ = conn.Close()
		}
	}
}

func (b *Broadcaster) Started(p events.StartedPayload)         { b.broadcast(events.ChanScanStarted, p) }
func (b *Broadcaster) Progress(p events.ProgressPayload)        { b.broadcast(events.ChanScanProgress, p) }
func (b *Broadcaster) PartialTree(p events.PartialTreePayload)  { b.broadcast(events.ChanScanPartialTree, p) }
func (b *Broadcaster) Finished(p events.FinishedPayload)        { b.broadcast(events.ChanScanFinished, p) }
func (b *Broadcaster) Error(p events.ErrorPayload)              { b.broadcast(events.ChanScanError, p) }
func (b *Broadcaster) Canceled(p events.CanceledPayload)        { b.broadcast(events.ChanScanCanceled, p) }
func (b *Broadcaster) Deleted(p events.DeletedPayload)          { b.broadcast(events.ChanDeleteDeleted, p) }
func (b *Broadcaster) Failed(p events.FailedPayload)            { b.broadcast(events.ChanDeleteFailed, p) }

var _ events.Sink = (*Broadcaster)(nil)
