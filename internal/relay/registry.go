package relay

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tutorarc/backend/internal/domain"
)

// Sender delivers one marshaled frame to a client connection without
// blocking. Owned by the transport adapter; the relay never closes it.
type Sender interface {
	TrySend(data []byte) error
}

type regEntry struct {
	conn   *domain.Connection
	sender Sender
}

// Registry tracks every live connection and the identity data attached
// to it. It is the single authority for "which sender belongs to which
// connection id".
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*regEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]*regEntry)}
}

// Register creates a fresh record in the Connected state with no room.
func (r *Registry) Register(id domain.ConnID, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &regEntry{
		conn:   &domain.Connection{ID: id, State: domain.StateConnected},
		sender: s,
	}
	log.Info().Str("module", "relay.registry").Str("conn", string(id)).Msg("registered connection")
}

// AttachIdentity overwrites label and role on an existing connection.
// Silent no-op for unknown ids; late events can race a disconnect.
func (r *Registry) AttachIdentity(id domain.ConnID, email string, role domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return
	}
	if email != "" {
		e.conn.Email = email
	}
	if role != "" {
		e.conn.Role = role
	}
}

// SetRoom updates the connection's current room pointer and moves it to
// the InRoom state.
func (r *Registry) SetRoom(id domain.ConnID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[id]; ok {
		e.conn.RoomID = roomID
		e.conn.State = domain.StateInRoom
	}
}

// ClearRoom drops the room pointer, returning the connection to the
// Connected state. No-op for unknown ids.
func (r *Registry) ClearRoom(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[id]; ok {
		e.conn.RoomID = ""
		e.conn.State = domain.StateConnected
	}
}

// RoomOf reports the room the connection currently belongs to.
func (r *Registry) RoomOf(id domain.ConnID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok || e.conn.RoomID == "" {
		return "", false
	}
	return e.conn.RoomID, true
}

// Identity reports the label and role attached to a connection.
func (r *Registry) Identity(id domain.ConnID) (email string, role domain.Role, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return "", "", false
	}
	return e.conn.Email, e.conn.Role, true
}

// Lookup resolves the live sender for a connection id.
func (r *Registry) Lookup(id domain.ConnID) (Sender, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	return e.sender, true
}

// Unregister removes the connection and returns its last-known room and
// label for the caller to clean up membership and the label index.
// Safe to call more than once; the second call reports ok=false.
func (r *Registry) Unregister(id domain.ConnID) (lastRoom, lastEmail string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return "", "", false
	}
	delete(r.conns, id)
	log.Info().Str("module", "relay.registry").Str("conn", string(id)).Msg("unregistered connection")
	return e.conn.RoomID, e.conn.Email, true
}

// LabelIndex maps a participant label to the most recently seen
// connection id for that label. Best-effort only: duplicate labels
// silently overwrite, and nothing correctness-critical may depend on
// it. Routing and membership always key on connection ids.
type LabelIndex struct {
	mu      sync.Mutex
	byLabel map[string]domain.ConnID
}

func NewLabelIndex() *LabelIndex {
	return &LabelIndex{byLabel: make(map[string]domain.ConnID)}
}

// Bind points label at id, overwriting any previous binding. Empty
// labels are ignored.
func (l *LabelIndex) Bind(label string, id domain.ConnID) {
	if label == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byLabel[label] = id
}

// Resolve returns the connection id last bound to label.
func (l *LabelIndex) Resolve(label string) (domain.ConnID, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.byLabel[label]
	return id, ok
}

// Release removes the binding only if it still points at id, so a
// rebind by a newer connection survives the older one's cleanup.
func (l *LabelIndex) Release(label string, id domain.ConnID) {
	if label == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.byLabel[label]; ok && cur == id {
		delete(l.byLabel, label)
	}
}
