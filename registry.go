package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry owns the set of live battle rooms and the session→room index used
// to route inbound events. Its lock covers only the two maps; room-level
// mutation happens under each room's own lock, so two rooms process events
// fully in parallel.
type Registry struct {
	mu           sync.RWMutex
	rooms        map[string]*BattleRoom
	sessionRooms map[string]string
	clock        func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:        make(map[string]*BattleRoom),
		sessionRooms: make(map[string]string),
		clock:        time.Now,
	}
}

// Assign finds an open room for the joining session or creates a fresh one,
// and records the session→room mapping. Reports whether a room was created.
func (reg *Registry) Assign(sessionID string) (*BattleRoom, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if roomID, ok := reg.sessionRooms[sessionID]; ok {
		if room, ok := reg.rooms[roomID]; ok {
			return room, false
		}
	}

	for _, room := range reg.rooms {
		if room.Occupancy() < maxRoomPlayers {
			reg.sessionRooms[sessionID] = room.ID
			return room, false
		}
	}

	room := newBattleRoom("battle-"+uuid.NewString(), reg.clock())
	reg.rooms[room.ID] = room
	reg.sessionRooms[sessionID] = room.ID
	return room, true
}

// BySession routes an inbound event to its room in O(1).
func (reg *Registry) BySession(sessionID string) (*BattleRoom, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	roomID, ok := reg.sessionRooms[sessionID]
	if !ok {
		return nil, false
	}
	room, ok := reg.rooms[roomID]
	return room, ok
}

// ReleaseSession drops the session→room mapping.
func (reg *Registry) ReleaseSession(sessionID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.sessionRooms, sessionID)
}

// Evict removes an empty room. Both re-checks run under the registry lock:
// occupancy covers sessions already joined to the room, and the mapping scan
// covers a session that Assign has routed to the room but that has not
// reached the room's Join yet. Either one keeps the room alive.
func (reg *Registry) Evict(roomID string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[roomID]
	if !ok {
		return false
	}
	if room.Occupancy() > 0 {
		return false
	}
	for _, mapped := range reg.sessionRooms {
		if mapped == roomID {
			return false
		}
	}
	delete(reg.rooms, roomID)
	return true
}

// Counts reports live rooms and bound sessions for diagnostics.
func (reg *Registry) Counts() (rooms, sessions int) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms), len(reg.sessionRooms)
}
