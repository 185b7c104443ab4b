// Package domain contains entities without logic, just meta-data.
package domain

// ConnID identifies one live transport session. Assigned at connect
// time, opaque to clients.
type ConnID string

// Role is the declared role of a participant. It is advisory: the relay
// never gates any operation on it.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ConnState tracks the lifecycle of a connection inside the relay.
type ConnState int

const (
	// StateConnected is the initial state right after transport establishment.
	StateConnected ConnState = iota
	// StateInRoom means the connection has joined or created a room.
	StateInRoom
)

// Connection is the identity record attached to one live socket.
// Email and Role are optional and caller-supplied; RoomID is empty
// until the connection joins a room.
type Connection struct {
	ID     ConnID
	Email  string
	Role   Role
	RoomID string
	State  ConnState
}
