package relay

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tutorarc/backend/internal/domain"
)

// room owns one membership set. All mutation and snapshotting happens
// under its lock, so a join's snapshot is atomic with respect to
// concurrent joins and leaves on the same room.
type room struct {
	mu      sync.Mutex
	members map[domain.ConnID]struct{}
}

func (r *room) snapshotLocked(exclude domain.ConnID) []domain.ConnID {
	out := make([]domain.ConnID, 0, len(r.members))
	for id := range r.members {
		if id == exclude {
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Directory maps room ids to membership sets. Rooms are created
// implicitly on first join and retained when empty; an empty room is
// harmless, a dangling member is not.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[string]*room)}
}

func (d *Directory) getOrCreate(roomID string) *room {
	d.mu.RLock()
	r, ok := d.rooms[roomID]
	d.mu.RUnlock()
	if ok {
		return r
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if r, ok = d.rooms[roomID]; ok {
		return r
	}
	r = &room{members: make(map[domain.ConnID]struct{})}
	d.rooms[roomID] = r
	log.Info().Str("module", "relay.rooms").Str("room", roomID).Msg("room created")
	return r
}

// Join adds connID to the room, creating it if absent, and returns the
// other members present at the moment of the call. The caller is never
// part of its own snapshot.
func (d *Directory) Join(roomID string, connID domain.ConnID) []domain.ConnID {
	r := d.getOrCreate(roomID)
	r.mu.Lock()
	defer r.mu.Unlock()
	others := r.snapshotLocked(connID)
	r.members[connID] = struct{}{}
	return others
}

// Leave removes connID from the room's member set. No-op if either the
// room or the membership does not exist.
func (d *Directory) Leave(roomID string, connID domain.ConnID) {
	d.mu.RLock()
	r, ok := d.rooms[roomID]
	d.mu.RUnlock()
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, connID)
}

// MembersOf returns the current member set, excluding the given
// connection id (pass "" to exclude nobody).
func (d *Directory) MembersOf(roomID string, exclude domain.ConnID) []domain.ConnID {
	d.mu.RLock()
	r, ok := d.rooms[roomID]
	d.mu.RUnlock()
	if !ok {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(exclude)
}

// Exists reports whether a room id is already taken. Used to regenerate
// generated ids on the off chance of a collision.
func (d *Directory) Exists(roomID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[roomID]
	return ok
}

// RoomInfo is a read-only view for the rooms listing endpoint.
type RoomInfo struct {
	ID          string `json:"id"`
	MemberCount int    `json:"memberCount"`
}

// List reports every known room with its current member count, sorted
// by id.
func (d *Directory) List() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]RoomInfo, 0, len(d.rooms))
	for id, r := range d.rooms {
		r.mu.Lock()
		n := len(r.members)
		r.mu.Unlock()
		out = append(out, RoomInfo{ID: id, MemberCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
