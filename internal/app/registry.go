package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Beacon/internal/core"
	"github.com/dkeye/Beacon/internal/domain"
)

// roomState is the registry's view of one live room: the password set by
// the first joiner plus membership in join order. A room is created on the
// first join and deleted the moment its last member leaves; the state never
// exists with zero members.
type roomState struct {
	password string
	members  []core.ClientID
	present  map[core.ClientID]struct{}
}

func (s *roomState) add(id core.ClientID) {
	if _, ok := s.present[id]; ok {
		return
	}
	s.present[id] = struct{}{}
	s.members = append(s.members, id)
}

func (s *roomState) remove(id core.ClientID) bool {
	if _, ok := s.present[id]; !ok {
		return false
	}
	delete(s.present, id)
	for i, m := range s.members {
		if m == id {
			s.members = append(s.members[:i], s.members[i+1:]...)
			break
		}
	}
	return true
}

// RoomRegistry is the single authority for room existence, passwords and
// membership. All mutations run under one mutex so create-or-gate is atomic.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*roomState
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[domain.RoomID]*roomState)}
}

// TryJoin creates the room (capturing the supplied password) if it does not
// exist, otherwise gates on the stored password unless the caller is admin.
// On accept it returns the members present before this join, in join order.
// On a wrong password nothing is mutated and domain.ErrWrongPassword returns.
func (r *RoomRegistry) TryJoin(room domain.RoomID, password string, member core.ClientID, admin bool) ([]core.ClientID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.rooms[room]
	if !ok {
		st = &roomState{
			password: password,
			present:  make(map[core.ClientID]struct{}),
		}
		st.add(member)
		r.rooms[room] = st
		log.Info().Str("module", "app.registry").Str("room", string(room)).Str("sid", string(member)).Msg("room created")
		return []core.ClientID{}, nil
	}

	if !admin && password != st.password {
		log.Info().Str("module", "app.registry").Str("room", string(room)).Str("sid", string(member)).Msg("join rejected")
		return nil, domain.ErrWrongPassword
	}

	before := make([]core.ClientID, 0, len(st.members))
	for _, m := range st.members {
		if m != member {
			before = append(before, m)
		}
	}
	st.add(member)
	log.Info().Str("module", "app.registry").Str("room", string(room)).Str("sid", string(member)).Int("count", len(st.members)).Msg("member joined")
	return before, nil
}

// Leave removes the member and deletes the room together with its password
// once membership hits zero. Unknown room or member is a no-op.
func (r *RoomRegistry) Leave(room domain.RoomID, member core.ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.rooms[room]
	if !ok {
		return
	}
	if !st.remove(member) {
		return
	}
	if len(st.present) == 0 {
		delete(r.rooms, room)
		log.Info().Str("module", "app.registry").Str("room", string(room)).Msg("room deleted")
		return
	}
	log.Info().Str("module", "app.registry").Str("room", string(room)).Str("sid", string(member)).Int("count", len(st.members)).Msg("member left")
}

// Members returns the room's current members in join order.
func (r *RoomRegistry) Members(room domain.RoomID) []core.ClientID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.rooms[room]
	if !ok {
		return nil
	}
	out := make([]core.ClientID, len(st.members))
	copy(out, st.members)
	return out
}

// Snapshot returns a consistent view of every room and its members in join
// order. Rooms mid-deletion never appear: the map is built under the lock.
func (r *RoomRegistry) Snapshot() map[domain.RoomID][]core.ClientID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[domain.RoomID][]core.ClientID, len(r.rooms))
	for id, st := range r.rooms {
		members := make([]core.ClientID, len(st.members))
		copy(members, st.members)
		out[id] = members
	}
	return out
}
