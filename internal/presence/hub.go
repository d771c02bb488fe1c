package presence

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub owns the presence registry and the set of connected clients, and fans
// out online-user snapshots when the registry changes.
//
// Broadcast audience differs by signal on purpose: announcements and nickname
// changes go to every connection including the originator, while offline and
// disconnect updates skip the connection that triggered them.
type Hub struct {
	mu       sync.Mutex
	registry *Registry
	clients  map[string]*Client
	log      *zerolog.Logger
}

// NewHub constructs a hub around the given registry.
func NewHub(registry *Registry, logger *zerolog.Logger) *Hub {
	return &Hub{
		registry: registry,
		clients:  make(map[string]*Client),
		log:      logger,
	}
}

// Register adds a freshly accepted connection. No registry entry is created
// until the connection announces itself online.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	h.log.Info().Str("conn_id", c.ID).Msg("connection registered")
}

// AnnounceOnline records the connection's nickname and broadcasts the online
// set to all connections, the announcer included. A repeated announce for a
// connection already present is a no-op.
func (h *Hub) AnnounceOnline(connID, nickname string) {
	if !h.registry.Add(connID, nickname) {
		return
	}

	h.log.Info().Str("conn_id", connID).Str("nickname", nickname).Msg("user online")
	h.broadcast("")
}

// AnnounceOffline removes every entry carrying the given nickname, matching
// by value rather than connection id, and broadcasts the online set to all
// connections except the announcer.
func (h *Hub) AnnounceOffline(nickname, announcerConnID string) {
	h.registry.RemoveNickname(nickname)

	h.log.Info().Str("nickname", nickname).Msg("user offline")
	h.broadcast(announcerConnID)
}

// Disconnect drops the connection. If it had announced itself, its entry is
// removed and the online set is broadcast to the remaining connections;
// otherwise the departure is silent.
func (h *Hub) Disconnect(connID string) {
	h.mu.Lock()
	delete(h.clients, connID)
	h.mu.Unlock()

	if !h.registry.RemoveConn(connID) {
		h.log.Debug().Str("conn_id", connID).Msg("connection closed without announce")
		return
	}

	h.log.Info().Str("conn_id", connID).Msg("connection disconnected")
	h.broadcast(connID)
}

// NicknameChanged rewrites the connection's nickname in place and broadcasts
// the online set to all connections. Unknown connections are ignored.
func (h *Hub) NicknameChanged(connID, newNickname string) {
	if !h.registry.Rename(connID, newNickname) {
		return
	}

	h.log.Info().Str("conn_id", connID).Str("nickname", newNickname).Msg("nickname changed")
	h.broadcast("")
}

// Online returns the current online nicknames in insertion order.
func (h *Hub) Online() []string {
	return h.registry.Nicknames()
}

// broadcast sends the current online set to every client except exceptConnID
// (empty string excludes nobody). Slow consumers are dropped rather than
// blocking the caller.
func (h *Hub) broadcast(exceptConnID string) {
	names := h.registry.Nicknames()

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		if id == exceptConnID {
			continue
		}
		select {
		case client.Updates <- names:
		default:
			// Drop if slow consumer.
		}
	}
}
