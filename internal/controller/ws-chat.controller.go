package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/domain"
	"github.com/watchtogether/server/internal/service/room"
)

type SendMessageInput struct {
	Message string `json:"message"`
}

func (c controller) handleSendMessage(ctx context.Context, conn *websocket.Conn, input SendMessageInput) error {
	sendMessageResponse, err := c.roomService.SendMessage(ctx, &room.SendMessageParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
		Message:  input.Message,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	c.broadcast(ctx, sendMessageResponse.Conns, &Output{
		Type:    "new-message",
		Payload: sendMessageResponse.Message,
	})

	return nil
}

type SendReactionInput struct {
	Emoji string `json:"emoji" validate:"required,max=8"`
}

func (c controller) handleSendReaction(ctx context.Context, conn *websocket.Conn, input SendReactionInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %s", domain.ErrInvalidPayload, validationErrors[0].Message)
	}

	sendReactionResponse, err := c.roomService.SendReaction(ctx, &room.SendReactionParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
		Emoji:    input.Emoji,
	})
	if err != nil {
		return fmt.Errorf("failed to send reaction: %w", err)
	}

	c.broadcast(ctx, sendReactionResponse.Conns, &Output{
		Type:    "new-reaction",
		Payload: sendReactionResponse.Reaction,
	})

	return nil
}

func (c controller) handleTypingStart(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	return c.relayTyping(ctx, true)
}

func (c controller) handleTypingStop(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	return c.relayTyping(ctx, false)
}

func (c controller) relayTyping(ctx context.Context, isTyping bool) error {
	setTypingResponse, err := c.roomService.SetTyping(ctx, &room.SetTypingParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
		IsTyping: isTyping,
	})
	if err != nil {
		return fmt.Errorf("failed to set typing: %w", err)
	}
	if !setTypingResponse.Changed {
		return nil
	}

	c.broadcast(ctx, setTypingResponse.Conns, &Output{
		Type: "user-typing",
		Payload: map[string]any{
			"username": setTypingResponse.Username,
			"isTyping": setTypingResponse.IsTyping,
		},
	})

	return nil
}
