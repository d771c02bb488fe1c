// Package presence tracks which users are online across live WebSocket
// connections. Nothing here is persisted: a process restart clears all
// entries and clients are expected to re-announce on reconnect.
package presence

import "sync"

// Entry pairs a live connection with the nickname it announced.
type Entry struct {
	ConnID   string
	Nickname string
}

// Registry is an ordered mapping of connection id to nickname. Order is
// insertion order; it is what clients see in online-user broadcasts.
// At most one entry exists per connection id. Several connections may
// announce the same nickname; uniqueness is not enforced across entries.
type Registry struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add inserts an entry for connID unless one already exists.
// Returns true if the entry was inserted.
func (r *Registry) Add(connID, nickname string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.ConnID == connID {
			return false
		}
	}
	r.entries = append(r.entries, Entry{ConnID: connID, Nickname: nickname})
	return true
}

// RemoveNickname removes every entry whose nickname equals the given value.
// Returns true if at least one entry was removed.
func (r *Registry) RemoveNickname(nickname string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	removed := false
	for _, e := range r.entries {
		if e.Nickname == nickname {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed
}

// RemoveConn removes the entry for connID, if any.
// Returns true if an entry was removed.
func (r *Registry) RemoveConn(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.ConnID == connID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Rename rewrites the nickname of the entry for connID in place, preserving
// its position. Returns true if an entry was found.
func (r *Registry) Rename(connID, newNickname string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].ConnID == connID {
			r.entries[i].Nickname = newNickname
			return true
		}
	}
	return false
}

// Nicknames returns the online nicknames in insertion order.
func (r *Registry) Nicknames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Nickname)
	}
	return names
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
