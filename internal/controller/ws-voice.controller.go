package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/domain"
	"github.com/watchtogether/server/internal/service/room"
	"github.com/watchtogether/server/pkg/wsrouter"
)

func (c controller) handleStartVoiceChat(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	startVoiceResponse, err := c.roomService.StartVoice(ctx, &room.StartVoiceParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to start voice chat: %w", err)
	}

	// A second start against a live session folds into a join.
	if startVoiceResponse.Join != nil {
		c.broadcastVoiceJoin(ctx, startVoiceResponse.Join)
		return nil
	}
	if !startVoiceResponse.Started {
		return nil
	}

	c.writeToConn(ctx, conn, &Output{
		Type: "voice-chat-started",
		Payload: map[string]any{
			"initiator": startVoiceResponse.Initiator,
			"members":   startVoiceResponse.Members,
		},
	})
	c.broadcast(ctx, startVoiceResponse.OtherConns, &Output{
		Type: "voice-chat-notification",
		Payload: map[string]any{
			"initiator":      startVoiceResponse.Initiator,
			"initiatorColor": startVoiceResponse.InitiatorColor,
			"message":        fmt.Sprintf("%s started Voice chat, want to join?", startVoiceResponse.Initiator),
			"members":        startVoiceResponse.Members,
		},
	})
	c.broadcast(ctx, startVoiceResponse.AllConns, &Output{
		Type:    "new-message",
		Payload: startVoiceResponse.SystemMessage,
	})

	return nil
}

func (c controller) handleJoinVoiceChat(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	joinVoiceResponse, err := c.roomService.JoinVoice(ctx, &room.JoinVoiceParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to join voice chat: %w", err)
	}

	c.broadcastVoiceJoin(ctx, &joinVoiceResponse)

	return nil
}

// broadcastVoiceJoin fans a voice join out: members already in the session
// learn who arrived, the joiner additionally gets the existing peer list it
// must open connections to.
func (c controller) broadcastVoiceJoin(ctx context.Context, joinVoiceResponse *room.JoinVoiceResponse) {
	if !joinVoiceResponse.Joined {
		return
	}

	c.broadcast(ctx, joinVoiceResponse.VoiceConns, &Output{
		Type: "voice-chat-member-joined",
		Payload: map[string]any{
			"newMember": joinVoiceResponse.NewMember,
			"socketId":  joinVoiceResponse.NewMemberId,
			"members":   joinVoiceResponse.Members,
		},
	})
	c.writeToConn(ctx, joinVoiceResponse.JoinerConn, &Output{
		Type: "voice-chat-member-joined",
		Payload: map[string]any{
			"newMember":       joinVoiceResponse.NewMember,
			"socketId":        joinVoiceResponse.NewMemberId,
			"members":         joinVoiceResponse.Members,
			"existingMembers": joinVoiceResponse.Existing,
		},
	})
	c.writeToConn(ctx, joinVoiceResponse.JoinerConn, &Output{
		Type: "voice-chat-started",
		Payload: map[string]any{
			"initiator": joinVoiceResponse.Initiator,
			"members":   joinVoiceResponse.Members,
		},
	})
	c.broadcast(ctx, joinVoiceResponse.AllConns, &Output{
		Type: "voice-chat-member-updated",
		Payload: map[string]any{
			"members":   joinVoiceResponse.Members,
			"action":    "joined",
			"newMember": joinVoiceResponse.NewMember,
		},
	})
	c.broadcast(ctx, joinVoiceResponse.AllConns, &Output{
		Type:    "new-message",
		Payload: joinVoiceResponse.SystemMessage,
	})
}

func (c controller) handleLeaveVoiceChat(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	leaveVoiceResponse, err := c.roomService.LeaveVoice(ctx, &room.LeaveVoiceParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to leave voice chat: %w", err)
	}
	if !leaveVoiceResponse.Removed {
		return nil
	}

	if leaveVoiceResponse.Ended {
		c.broadcast(ctx, leaveVoiceResponse.AllConns, &Output{
			Type: "voice-chat-ended",
		})
	} else {
		c.broadcast(ctx, leaveVoiceResponse.VoiceConns, &Output{
			Type: "voice-chat-member-left",
			Payload: map[string]any{
				"leftMember": leaveVoiceResponse.LeftUsername,
				"socketId":   leaveVoiceResponse.LeftId,
				"members":    leaveVoiceResponse.Members,
			},
		})
		c.broadcast(ctx, leaveVoiceResponse.AllConns, &Output{
			Type: "voice-chat-member-updated",
			Payload: map[string]any{
				"members":    leaveVoiceResponse.Members,
				"action":     "left",
				"leftMember": leaveVoiceResponse.LeftUsername,
			},
		})
	}

	for _, systemMessage := range leaveVoiceResponse.SystemMessages {
		c.broadcast(ctx, leaveVoiceResponse.AllConns, &Output{
			Type:    "new-message",
			Payload: systemMessage,
		})
	}

	return nil
}

type MuteStatusInput struct {
	Username string `json:"username"`
	IsMuted  bool   `json:"isMuted"`
}

func (c controller) handleMuteStatus(ctx context.Context, conn *websocket.Conn, input MuteStatusInput) error {
	muteStatusResponse, err := c.roomService.MuteStatus(ctx, &room.MuteStatusParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
		Username: input.Username,
		IsMuted:  input.IsMuted,
	})
	if err != nil {
		return fmt.Errorf("failed to relay mute status: %w", err)
	}

	c.broadcast(ctx, muteStatusResponse.Conns, &Output{
		Type: "voice-chat-mute-status",
		Payload: map[string]any{
			"username": input.Username,
			"isMuted":  input.IsMuted,
		},
	})

	return nil
}

// RelayInput is an opaque signaling payload. The server only reads the
// addressing field; SDP and ICE bodies pass through untouched.
type RelayInput map[string]any

// handleRelayToTarget forwards a signaling frame to one member of the
// sender's room, swapping the target address for the sender's identity.
func (c controller) handleRelayToTarget(ctx context.Context, conn *websocket.Conn, input RelayInput) error {
	targetId, _ := input["targetSocketId"].(string)
	if targetId == "" {
		return fmt.Errorf("%w: missing targetSocketId", domain.ErrInvalidPayload)
	}

	senderId := c.getConnectionIdFromCtx(ctx)

	relayTargetResponse, err := c.roomService.ResolveRelayTarget(ctx, &room.RelayTargetParams{
		SenderId: senderId,
		TargetId: targetId,
	})
	if err != nil {
		return fmt.Errorf("failed to resolve relay target: %w", err)
	}

	payload := make(map[string]any, len(input))
	for key, value := range input {
		if key == "targetSocketId" {
			continue
		}
		payload[key] = value
	}
	payload["fromSocketId"] = senderId

	return c.writeToConn(ctx, relayTargetResponse.TargetConn, &Output{
		Type:    wsrouter.GetMessageTypeFromCtx(ctx),
		Payload: payload,
	})
}

// handleRelayToRoom forwards a signaling frame to every other member, used
// for screen-share start/stop announcements.
func (c controller) handleRelayToRoom(ctx context.Context, conn *websocket.Conn, input RelayInput) error {
	senderId := c.getConnectionIdFromCtx(ctx)

	roomPeersResponse, err := c.roomService.RoomPeers(ctx, senderId)
	if err != nil {
		return fmt.Errorf("failed to resolve room peers: %w", err)
	}

	payload := make(map[string]any, len(input)+1)
	for key, value := range input {
		payload[key] = value
	}
	payload["fromSocketId"] = senderId

	c.broadcast(ctx, roomPeersResponse.Conns, &Output{
		Type:    wsrouter.GetMessageTypeFromCtx(ctx),
		Payload: payload,
	})

	return nil
}
