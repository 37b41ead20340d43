// SPDX-License-Identifier: MIT
package meter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dawengine/internal/log"
)

// Broadcaster implements Sink over WebSocket, fanning one Snapshot out
// to every connected monitor client with a minimum send interval so a
// slow network never backs up the analyzer that feeds it.
type Broadcaster struct {
	clients      map[*websocket.Conn]bool
	clientsMutex sync.Mutex
	upgrader     websocket.Upgrader
	server       *http.Server

	lastSend        time.Time
	minSendInterval time.Duration
}

// NewBroadcaster starts an HTTP server on addr serving a single
// WebSocket endpoint at /meter, upgrading any client that connects.
func NewBroadcaster(addr string, minSendInterval time.Duration) *Broadcaster {
	b := &Broadcaster{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		minSendInterval: minSendInterval,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/meter", b.handleWebSocket)
	b.server = &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := b.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("meter: broadcast server error: %v", err)
		}
	}()

	return b
}

func (b *Broadcaster) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("meter: upgrade error: %v", err)
		return
	}

	b.clientsMutex.Lock()
	b.clients[conn] = true
	b.clientsMutex.Unlock()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.clientsMutex.Lock()
				delete(b.clients, conn)
				b.clientsMutex.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

// Send implements Sink. It rate-limits itself to minSendInterval and
// silently skips the frame if sending would exceed that cadence.
func (b *Broadcaster) Send(snapshot Snapshot) error {
	now := time.Now()
	if now.Sub(b.lastSend) < b.minSendInterval {
		return nil
	}
	b.lastSend = now

	b.clientsMutex.Lock()
	defer b.clientsMutex.Unlock()
	for client := range b.clients {
		if err := client.WriteJSON(snapshot); err != nil {
			log.Errorf("meter: send error: %v", err)
			client.Close()
			delete(b.clients, client)
		}
	}
	return nil
}

// Close shuts down every client connection and the HTTP server.
func (b *Broadcaster) Close() error {
	b.clientsMutex.Lock()
	for client := range b.clients {
		client.Close()
	}
	b.clients = make(map[*websocket.Conn]bool)
	b.clientsMutex.Unlock()

	if b.server != nil {
		return b.server.Close()
	}
	return nil
}

var _ Sink = (*Broadcaster)(nil)
