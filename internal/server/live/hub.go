// Package live pushes proposal status changes to the sender's open pages
// over websockets.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/logging"
	"github.com/dmitrijs2005/heartlink/internal/server/events"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Hub keeps one room of websocket clients per proposal id.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewHub returns a hub. checkOrigin may be nil to accept any origin.
func NewHub(logger logging.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		rooms: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// Serve upgrades the request and subscribes the connection to proposalID.
// The caller must have authorized the subscription.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, proposalID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{hub: h, conn: conn, room: proposalID, send: make(chan []byte, sendBuffer)}
	h.join(c)
	go c.writePump()
	go c.readPump()
	return nil
}

// Publish broadcasts e to the room of e.ProposalID. Clients whose buffer is
// full are disconnected.
func (h *Hub) Publish(ctx context.Context, e events.Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.rooms[e.ProposalID]))
	for c := range h.rooms[e.ProposalID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.trySend(b) {
			h.logger.Warn(ctx, "dropping slow websocket client", "proposal_id", e.ProposalID)
			c.close()
		}
	}
	return nil
}

// Count returns the number of clients watching proposalID.
func (h *Hub) Count(proposalID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[proposalID])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	var all []*client
	for _, room := range h.rooms {
		for c := range room {
			all = append(all, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range all {
		c.close()
	}
}

func (h *Hub) join(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[c.room] == nil {
		h.rooms[c.room] = make(map[*client]struct{})
	}
	h.rooms[c.room][c] = struct{}{}
}

func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.rooms[c.room]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.rooms, c.room)
		}
	}
}
