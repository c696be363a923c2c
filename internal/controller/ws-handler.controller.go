package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/service/room"
	"github.com/watchtogether/server/pkg/ctxlogger"
)

func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	connectionId, err := c.roomService.RegisterConnection(r.Context(), conn)
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to register connection", "error", err)
		return
	}

	ctx := context.WithValue(r.Context(), connectionIdCtxKey, connectionId)
	ctx = ctxlogger.AppendCtx(ctx, slog.String("connection_id", connectionId))

	c.logger.InfoContext(ctx, "client connected", "remote_addr", r.RemoteAddr)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "connection closed", "error", err)
	}

	c.disconnect(ctx, conn)
}

// disconnect runs the terminal fan-out for a dropped connection: voice
// updates first, then membership events, then host succession.
func (c controller) disconnect(ctx context.Context, conn *websocket.Conn) {
	disconnectResponse, err := c.roomService.DisconnectMember(ctx, &room.DisconnectMemberParams{
		Conn: conn,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to disconnect member", "error", err)
		return
	}
	if !disconnectResponse.WasJoined {
		return
	}

	if voice := disconnectResponse.Voice; voice != nil && !disconnectResponse.Emptied {
		if voice.Ended {
			c.broadcast(ctx, disconnectResponse.Conns, &Output{
				Type: "voice-chat-ended",
			})
		} else {
			c.broadcast(ctx, voice.MemberConns, &Output{
				Type: "voice-chat-member-left",
				Payload: map[string]any{
					"leftMember": voice.LeftUsername,
					"socketId":   voice.LeftId,
					"members":    voice.Members,
				},
			})
			c.broadcast(ctx, disconnectResponse.Conns, &Output{
				Type: "voice-chat-member-updated",
				Payload: map[string]any{
					"members":    voice.Members,
					"action":     "left",
					"leftMember": voice.LeftUsername,
				},
			})
		}
	}

	if disconnectResponse.Emptied {
		return
	}

	c.broadcast(ctx, disconnectResponse.Conns, &Output{
		Type: "user-left",
		Payload: map[string]any{
			"userId":   disconnectResponse.Left.Id,
			"username": disconnectResponse.Left.Username,
		},
	})
	c.broadcast(ctx, disconnectResponse.Conns, &Output{
		Type: "users-updated",
		Payload: map[string]any{
			"users": disconnectResponse.Members,
		},
	})
	if disconnectResponse.SystemMessage != nil {
		c.broadcast(ctx, disconnectResponse.Conns, &Output{
			Type:    "new-message",
			Payload: disconnectResponse.SystemMessage,
		})
	}

	if disconnectResponse.NewHost != nil {
		c.writeToConn(ctx, disconnectResponse.NewHostConn, &Output{
			Type: "host-status",
			Payload: map[string]any{
				"isHost": true,
			},
		})
	}
}
