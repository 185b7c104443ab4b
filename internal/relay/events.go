// Package relay implements room-membership bookkeeping and opaque
// signal routing between connected peers. It never inspects negotiation
// payloads beyond a type tag used for logging.
package relay

import "encoding/json"

// Inbound event types. peer-connected flows both ways under one name.
const (
	EventCreateRoom    = "create-room"
	EventJoinRoom      = "join-room"
	EventSendSignal    = "send-signal"
	EventPeerConnected = "peer-connected"
	EventLeaveRoom     = "leave-room"
)

// Outbound event types.
const (
	EventRoomCreated   = "room-created"
	EventJoinedRoom    = "joined-room"
	EventUserJoined    = "user-joined"
	EventReceiveSignal = "receive-signal"
	EventUserLeft      = "user-left"
)

// Envelope frames every message on the wire. Data stays raw so signal
// payloads pass through untouched.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type CreateRoomRequest struct {
	RoomID   string `json:"roomId,omitempty"`
	UserType string `json:"userType"`
}

type RoomCreated struct {
	RoomID string `json:"roomId"`
}

type JoinRoomRequest struct {
	Email    string `json:"email"`
	RoomID   string `json:"roomId"`
	UserType string `json:"userType,omitempty"`
}

// RoomUser is one member as seen by other members: the label it joined
// with and its socket id.
type RoomUser struct {
	Email    string `json:"email"`
	SocketID string `json:"socketId"`
}

type JoinedRoom struct {
	RoomID        string     `json:"roomId"`
	ExistingUsers []RoomUser `json:"existingUsers"`
}

type SendSignalRequest struct {
	Signal json.RawMessage `json:"signal"`
	To     string          `json:"to"`
	From   string          `json:"from,omitempty"`
	RoomID string          `json:"roomId,omitempty"`
}

type ReceiveSignal struct {
	Signal json.RawMessage `json:"signal"`
	From   string          `json:"from"`
}

type PeerConnectedRequest struct {
	SocketID string `json:"socketId"`
}

type PeerConnected struct {
	SocketID string `json:"socketId"`
}

type LeaveRoomRequest struct {
	RoomID string `json:"roomId"`
}

type UserLeft struct {
	SocketID string `json:"socketId"`
	Email    string `json:"email"`
}
