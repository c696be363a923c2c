package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/domain"
	"github.com/watchtogether/server/internal/service/room"
)

type JoinRoomInput struct {
	RoomCode string `json:"roomCode" validate:"required,len=6"`
	Username string `json:"username" validate:"required,min=1,max=20"`
}

func (c controller) handleJoinRoom(ctx context.Context, conn *websocket.Conn, input JoinRoomInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %s", domain.ErrInvalidPayload, validationErrors[0].Message)
	}

	joinRoomResponse, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
		RoomCode: input.RoomCode,
		Username: input.Username,
	})
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	if err := c.writeToConn(ctx, conn, &Output{
		Type:    "room-joined",
		Payload: joinRoomResponse.RoomState,
	}); err != nil {
		return err
	}

	if joinRoomResponse.BecameHost {
		c.writeToConn(ctx, conn, &Output{
			Type: "host-status",
			Payload: map[string]any{
				"isHost": true,
			},
		})
	}

	if voice := joinRoomResponse.Voice; voice != nil {
		c.writeToConn(ctx, conn, &Output{
			Type:    "voice-chat-notification",
			Payload: voice,
		})
		c.writeToConn(ctx, conn, &Output{
			Type: "voice-chat-started",
			Payload: map[string]any{
				"initiator": voice.Initiator,
				"members":   voice.Members,
			},
		})
	}

	c.broadcast(ctx, joinRoomResponse.OtherConns, &Output{
		Type: "user-joined",
		Payload: map[string]any{
			"user": joinRoomResponse.JoinedMember,
		},
	})
	c.broadcast(ctx, joinRoomResponse.AllConns, &Output{
		Type: "users-updated",
		Payload: map[string]any{
			"users": joinRoomResponse.Members,
		},
	})
	c.broadcast(ctx, joinRoomResponse.AllConns, &Output{
		Type:    "new-message",
		Payload: joinRoomResponse.SystemMessage,
	})

	if joinRoomResponse.HasCatchUp {
		c.scheduleCatchUp(conn, input.RoomCode)
	}

	return nil
}

// scheduleCatchUp arms the late-joiner playback realignment. The sync is
// re-derived when the timer fires so it reflects whatever happened during
// the grace period, including the video being swapped out.
func (c controller) scheduleCatchUp(conn *websocket.Conn, roomCode string) {
	time.AfterFunc(c.roomService.CatchUpDelay(), func() {
		ctx := context.Background()

		sync, ok := c.roomService.CatchUpSync(ctx, roomCode)
		if !ok {
			return
		}

		c.writeToConn(ctx, conn, &Output{
			Type:    "initial-video-sync",
			Payload: sync,
		})
	})
}

type TransferHostInput struct {
	NewHostUsername string `json:"newHostUsername" validate:"required"`
}

func (c controller) handleTransferHost(ctx context.Context, conn *websocket.Conn, input TransferHostInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %s", domain.ErrInvalidPayload, validationErrors[0].Message)
	}

	transferHostResponse, err := c.roomService.TransferHost(ctx, &room.TransferHostParams{
		SenderId:        c.getConnectionIdFromCtx(ctx),
		NewHostUsername: input.NewHostUsername,
	})
	if err != nil {
		return fmt.Errorf("failed to transfer host: %w", err)
	}

	c.writeToConn(ctx, transferHostResponse.OldHostConn, &Output{
		Type: "host-status",
		Payload: map[string]any{
			"isHost": false,
		},
	})
	c.writeToConn(ctx, transferHostResponse.NewHostConn, &Output{
		Type: "host-status",
		Payload: map[string]any{
			"isHost": true,
		},
	})
	c.broadcast(ctx, transferHostResponse.Conns, &Output{
		Type: "users-updated",
		Payload: map[string]any{
			"users": transferHostResponse.Members,
		},
	})
	c.broadcast(ctx, transferHostResponse.Conns, &Output{
		Type:    "new-message",
		Payload: transferHostResponse.SystemMessage,
	})

	return nil
}
