package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Beacon/internal/core"
	"github.com/dkeye/Beacon/internal/domain"
)

type peerEntry struct {
	Room   domain.RoomID
	Conn   core.SignalConnection
	Admin  bool
	Cancel context.CancelFunc
}

// PeerRegistry tracks every live connection and its room association.
// The association is an explicit record looked up on each event, never a
// closure captured at join time.
type PeerRegistry struct {
	mu    sync.RWMutex
	peers map[core.ClientID]*peerEntry
}

func NewPeerRegistry() *PeerRegistry {
	return &PeerRegistry{peers: make(map[core.ClientID]*peerEntry)}
}

func (r *PeerRegistry) Bind(sid core.ClientID, conn core.SignalConnection, admin bool, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[sid] = &peerEntry{Conn: conn, Admin: admin, Cancel: cancel}
	log.Info().Str("module", "app.peers").Str("sid", string(sid)).Bool("admin", admin).Msg("bound connection")
}

func (r *PeerRegistry) Get(sid core.ClientID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.peers[sid]; ok {
		return e.Conn, true
	}
	return nil, false
}

// RoomOf reports the room a connection joined, if any.
func (r *PeerRegistry) RoomOf(sid core.ClientID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.peers[sid]
	if !ok || e.Room == "" {
		return "", false
	}
	return e.Room, true
}

func (r *PeerRegistry) SetRoom(sid core.ClientID, room domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.peers[sid]
	if !ok {
		return false
	}
	e.Room = room
	return true
}

func (r *PeerRegistry) ClearRoom(sid core.ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.peers[sid]; ok {
		e.Room = ""
	}
}

func (r *PeerRegistry) Unbind(sid core.ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.peers, sid)
	log.Info().Str("module", "app.peers").Str("sid", string(sid)).Msg("unbound connection")
}

// Cancel fires the connection's cancel func, stopping its pumps and any
// admin snapshot task tied to it.
func (r *PeerRegistry) Cancel(sid core.ClientID) bool {
	r.mu.RLock()
	e, ok := r.peers[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	return true
}
