package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/domain"
	"github.com/watchtogether/server/pkg/wsrouter"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

func (c controller) writeToConn(ctx context.Context, conn *websocket.Conn, output *Output) error {
	if conn == nil {
		return nil
	}

	if err := conn.WriteJSON(output); err != nil {
		c.logger.DebugContext(ctx, "failed to write to conn", "type", output.Type, "error", err)
		return fmt.Errorf("failed to write to conn: %w", err)
	}

	return nil
}

// broadcast writes to every conn; a dead conn is skipped, its own read loop
// handles the disconnect.
func (c controller) broadcast(ctx context.Context, conns []*websocket.Conn, output *Output) {
	for _, conn := range conns {
		c.writeToConn(ctx, conn, output)
	}
}

// handleWSError is the wsmux error sink: every handler error becomes an
// error frame on the sender's connection, with join rejections carrying room
// context so the client can render a proper dialog.
func (c controller) handleWSError(ctx context.Context, conn *websocket.Conn, err error) {
	payload := map[string]any{}

	var joinErr *domain.JoinRejectedError
	switch {
	case errors.As(err, &joinErr):
		switch {
		case errors.Is(joinErr.Reason, domain.ErrRoomNotFound):
			payload["message"] = "Room not found"
			payload["details"] = fmt.Sprintf("Room %s does not exist", joinErr.RoomCode)
		case errors.Is(joinErr.Reason, domain.ErrRoomFull):
			payload["message"] = "Room is full"
			payload["details"] = fmt.Sprintf("Room %s already has %d users", joinErr.RoomCode, len(joinErr.Usernames))
			payload["currentUsers"] = joinErr.Usernames
		case errors.Is(joinErr.Reason, domain.ErrNameTaken):
			payload["message"] = "Username already taken"
			payload["details"] = "Pick a different username and try again"
			payload["existingUsers"] = joinErr.Usernames
		default:
			payload["message"] = "Failed to join room"
		}
	case errors.Is(err, domain.ErrNotHost):
		payload["message"] = "Only host can perform this action"
	case errors.Is(err, domain.ErrRoomNotFound):
		payload["message"] = "Room not found"
	case errors.Is(err, domain.ErrMemberNotFound):
		payload["message"] = "Member not found"
	case errors.Is(err, domain.ErrAlreadyJoined):
		payload["message"] = "Already in a room"
	case errors.Is(err, domain.ErrInvalidVideo):
		payload["message"] = "Invalid video data"
	case errors.Is(err, wsrouter.ErrUnknownMessageType):
		payload["message"] = "Unknown message type"
	case errors.Is(err, wsrouter.ErrMalformedPayload),
		errors.Is(err, domain.ErrInvalidPayload),
		errors.Is(err, domain.ErrEmptyMessage):
		payload["message"] = "Invalid payload"
		payload["details"] = err.Error()
	default:
		c.logger.ErrorContext(ctx, "websocket handler failed", "error", err)
		payload["message"] = "Internal error"
	}

	c.writeToConn(ctx, conn, &Output{Type: "error", Payload: payload})
}
