package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"student-records/internal/models"
)

const hubWriteTimeout = 5 * time.Second

// LocationHub fans appended location fixes out to websocket subscribers.
// Only Run writes to connections.
type LocationHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	ch      chan models.LocationFix
}

func NewLocationHub() *LocationHub {
	return &LocationHub{
		clients: map[*websocket.Conn]bool{},
		ch:      make(chan models.LocationFix, 16),
	}
}

func (h *LocationHub) Run(ctx context.Context) {
	for {
		select {
		case fix := <-h.ch:
			for _, conn := range h.snapshot() {
				_ = conn.SetWriteDeadline(time.Now().Add(hubWriteTimeout))
				if err := conn.WriteJSON(fix); err != nil {
					log.Printf("location hub: dropping subscriber %s: %v", conn.RemoteAddr(), err)
					h.Remove(conn)
					_ = conn.Close()
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// Broadcast never blocks; fixes are dropped when the buffer is full.
func (h *LocationHub) Broadcast(fix models.LocationFix) {
	select {
	case h.ch <- fix:
	default:
	}
}

func (h *LocationHub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *LocationHub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *LocationHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *LocationHub) snapshot() []*websocket.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	return conns
}
