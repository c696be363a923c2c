// Package connection defines the per-connection session record held by the
// event-routing layer: which live websocket maps to which connection id, and
// which room/username that connection is bound to after a successful join.
package connection

import "errors"

var (
	ErrNotFound      = errors.New("connection not found")
	ErrAlreadyExists = errors.New("connection already exists")
)

type Session struct {
	ConnectionId string
	RoomCode     string
	Username     string
}

// Joined reports whether the connection completed a join-room.
func (s Session) Joined() bool {
	return s.RoomCode != ""
}
