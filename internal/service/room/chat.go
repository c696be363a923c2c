package room

import (
	"context"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/domain"
)

type SendMessageParams struct {
	SenderId string
	Message  string
}

type SendMessageResponse struct {
	Message domain.ChatMessage
	Conns   []*websocket.Conn
}

func (s *service) SendMessage(ctx context.Context, params *SendMessageParams) (SendMessageResponse, error) {
	room, err := s.roomForSender(params.SenderId)
	if err != nil {
		return SendMessageResponse{}, err
	}

	message, err := room.AppendUserMessage(params.SenderId, uuid.NewString(), params.Message, s.now())
	if err != nil {
		return SendMessageResponse{}, err
	}

	return SendMessageResponse{
		Message: message,
		Conns:   s.connsForMembers(room.Members()),
	}, nil
}

type SendReactionParams struct {
	SenderId string
	Emoji    string
}

type SendReactionResponse struct {
	Reaction Reaction
	Conns    []*websocket.Conn
}

// SendReaction broadcasts an ephemeral emoji reaction; nothing is stored.
// The server assigns the screen position so all clients place it alike.
func (s *service) SendReaction(ctx context.Context, params *SendReactionParams) (SendReactionResponse, error) {
	room, err := s.roomForSender(params.SenderId)
	if err != nil {
		return SendReactionResponse{}, err
	}

	sender, err := room.MemberById(params.SenderId)
	if err != nil {
		return SendReactionResponse{}, err
	}

	return SendReactionResponse{
		Reaction: Reaction{
			Id:        uuid.NewString(),
			Username:  sender.Username,
			Emoji:     params.Emoji,
			Timestamp: s.now().UnixMilli(),
			X:         rand.Float64() * 100,
			Y:         rand.Float64() * 100,
		},
		Conns: s.connsForMembers(room.Members()),
	}, nil
}

type SetTypingParams struct {
	SenderId string
	IsTyping bool
}

type SetTypingResponse struct {
	// Changed is false for a repeated report; nothing is relayed then.
	Changed  bool
	Username string
	IsTyping bool
	Conns    []*websocket.Conn
}

func (s *service) SetTyping(ctx context.Context, params *SetTypingParams) (SetTypingResponse, error) {
	room, err := s.roomForSender(params.SenderId)
	if err != nil {
		return SetTypingResponse{}, err
	}

	member, changed, err := room.SetTyping(params.SenderId, params.IsTyping)
	if err != nil {
		return SetTypingResponse{}, err
	}
	if !changed {
		return SetTypingResponse{}, nil
	}

	return SetTypingResponse{
		Changed:  true,
		Username: member.Username,
		IsTyping: params.IsTyping,
		Conns:    s.connsForMembers(room.Members(), params.SenderId),
	}, nil
}
