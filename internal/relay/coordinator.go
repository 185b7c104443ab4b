package relay

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tutorarc/backend/internal/domain"
)

// Coordinator drives the registry, directory and router in response to
// inbound events. The transport adapter runs one read loop per socket
// and dispatches synchronously, so events of a single connection are
// handled in FIFO order; cross-connection interleavings are serialized
// per room by the Directory.
type Coordinator struct {
	Registry *Registry
	Rooms    *Directory
	Router   *Router
	Labels   *LabelIndex
}

func NewCoordinator() *Coordinator {
	reg := NewRegistry()
	return &Coordinator{
		Registry: reg,
		Rooms:    NewDirectory(),
		Router:   NewRouter(reg),
		Labels:   NewLabelIndex(),
	}
}

// Connect registers a fresh connection in the Connected state.
func (c *Coordinator) Connect(id domain.ConnID, s Sender) {
	c.Registry.Register(id, s)
}

// Disconnect tears down everything attached to a connection. Idempotent:
// the registry hands out the last-known room and label exactly once, so
// a disconnect after an explicit leave emits no second user-left.
func (c *Coordinator) Disconnect(id domain.ConnID) {
	lastRoom, lastEmail, ok := c.Registry.Unregister(id)
	if !ok {
		return
	}
	if lastRoom != "" {
		c.Rooms.Leave(lastRoom, id)
		c.broadcast(lastRoom, EventUserLeft, UserLeft{SocketID: string(id), Email: lastEmail})
	}
	c.Labels.Release(lastEmail, id)
	log.Info().Str("module", "relay.coordinator").Str("conn", string(id)).Str("room", lastRoom).Msg("disconnected")
}

// HandleEvent decodes one inbound frame and applies the matching
// transition. Malformed frames are dropped; nothing here is fatal.
func (c *Coordinator) HandleEvent(id domain.ConnID, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Warn().Err(err).Str("module", "relay.coordinator").Str("conn", string(id)).Msg("malformed frame")
		return
	}
	switch env.Type {
	case EventCreateRoom:
		c.handleCreateRoom(id, env.Data)
	case EventJoinRoom:
		c.handleJoinRoom(id, env.Data)
	case EventSendSignal:
		c.handleSendSignal(id, env.Data)
	case EventPeerConnected:
		c.handlePeerConnected(id, env.Data)
	case EventLeaveRoom:
		c.handleLeaveRoom(id, env.Data)
	default:
		log.Warn().Str("module", "relay.coordinator").Str("type", env.Type).Msg("unknown event")
	}
}

func (c *Coordinator) handleCreateRoom(id domain.ConnID, data json.RawMessage) {
	var p CreateRoomRequest
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "relay.coordinator").Msg("bad create-room payload")
		return
	}
	if _, ok := c.Registry.RoomOf(id); ok {
		log.Warn().Str("module", "relay.coordinator").Str("conn", string(id)).Msg("create-room while already in a room")
		return
	}

	roomID := p.RoomID
	if roomID == "" {
		roomID = c.newRoomID()
	}

	c.Registry.AttachIdentity(id, "", domain.Role(p.UserType))
	c.Registry.SetRoom(id, roomID)
	c.Rooms.Join(roomID, id)

	log.Info().Str("module", "relay.coordinator").Str("conn", string(id)).Str("room", roomID).Msg("room created")
	c.Router.Notify(id, EventRoomCreated, RoomCreated{RoomID: roomID})
}

// newRoomID generates a globally unique room id, regenerating on the
// statistically negligible chance of a collision so two distinct rooms
// never merge under one id.
func (c *Coordinator) newRoomID() string {
	for {
		roomID := "room-" + uuid.NewString()
		if !c.Rooms.Exists(roomID) {
			return roomID
		}
	}
}

func (c *Coordinator) handleJoinRoom(id domain.ConnID, data json.RawMessage) {
	var p JoinRoomRequest
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "relay.coordinator").Msg("bad join-room payload")
		return
	}
	if p.RoomID == "" {
		log.Warn().Str("module", "relay.coordinator").Str("conn", string(id)).Msg("join-room without roomId")
		return
	}

	// A connection belongs to at most one room. Re-joining another room
	// implies leaving the previous one, with the usual notification.
	if cur, ok := c.Registry.RoomOf(id); ok && cur != p.RoomID {
		c.leaveCurrentRoom(id, cur)
	}

	c.Registry.AttachIdentity(id, p.Email, domain.Role(p.UserType))
	c.Labels.Bind(p.Email, id)
	c.Registry.SetRoom(id, p.RoomID)

	others := c.Rooms.Join(p.RoomID, id)
	existing := make([]RoomUser, 0, len(others))
	for _, other := range others {
		email, _, ok := c.Registry.Identity(other)
		if !ok {
			continue
		}
		existing = append(existing, RoomUser{Email: email, SocketID: string(other)})
	}

	log.Info().
		Str("module", "relay.coordinator").
		Str("conn", string(id)).
		Str("room", p.RoomID).
		Str("email", p.Email).
		Int("existing", len(existing)).
		Msg("joined room")

	c.Router.Notify(id, EventJoinedRoom, JoinedRoom{RoomID: p.RoomID, ExistingUsers: existing})

	// Announce the newcomer to exactly the members captured in the join
	// snapshot: everyone present strictly before, never the joiner itself.
	joined := RoomUser{Email: p.Email, SocketID: string(id)}
	for _, other := range others {
		c.Router.Notify(other, EventUserJoined, joined)
	}
}

func (c *Coordinator) handleSendSignal(id domain.ConnID, data json.RawMessage) {
	var p SendSignalRequest
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "relay.coordinator").Msg("bad send-signal payload")
		return
	}
	if len(p.Signal) == 0 || strings.TrimSpace(p.To) == "" {
		log.Warn().Str("module", "relay.coordinator").Str("conn", string(id)).Msg("send-signal missing signal or target")
		return
	}
	from := domain.ConnID(p.From)
	if from == "" {
		from = id
	}
	c.Router.Relay(p.Signal, domain.ConnID(p.To), from)
}

func (c *Coordinator) handlePeerConnected(id domain.ConnID, data json.RawMessage) {
	var p PeerConnectedRequest
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "relay.coordinator").Msg("bad peer-connected payload")
		return
	}
	if p.SocketID == "" {
		return
	}
	// Pure relay: tell the target which peer completed the link.
	c.Router.Notify(domain.ConnID(p.SocketID), EventPeerConnected, PeerConnected{SocketID: string(id)})
}

func (c *Coordinator) handleLeaveRoom(id domain.ConnID, data json.RawMessage) {
	var p LeaveRoomRequest
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "relay.coordinator").Msg("bad leave-room payload")
		return
	}
	cur, ok := c.Registry.RoomOf(id)
	if !ok {
		// Already out of any room: redundant transition, not an error.
		return
	}
	if p.RoomID != "" && p.RoomID != cur {
		log.Warn().
			Str("module", "relay.coordinator").
			Str("conn", string(id)).
			Str("claimed", p.RoomID).
			Str("actual", cur).
			Msg("leave-room room mismatch, leaving actual room")
	}
	c.leaveCurrentRoom(id, cur)
}

// leaveCurrentRoom removes id from roomID, clears the room pointer and
// the label binding, and notifies the remaining members. The cleared
// pointer is what makes a later disconnect skip the second user-left.
func (c *Coordinator) leaveCurrentRoom(id domain.ConnID, roomID string) {
	email, _, _ := c.Registry.Identity(id)
	c.Rooms.Leave(roomID, id)
	c.Registry.ClearRoom(id)
	c.Labels.Release(email, id)
	c.broadcast(roomID, EventUserLeft, UserLeft{SocketID: string(id), Email: email})
	log.Info().Str("module", "relay.coordinator").Str("conn", string(id)).Str("room", roomID).Msg("left room")
}

// broadcast fans an event out to every current member of a room. The
// departing or disconnected connection is already out of the member set
// by the time this runs.
func (c *Coordinator) broadcast(roomID, event string, payload any) {
	for _, m := range c.Rooms.MembersOf(roomID, "") {
		c.Router.Notify(m, event, payload)
	}
}
