package room

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/domain"
)

type TransferHostParams struct {
	SenderId        string
	NewHostUsername string
}

type TransferHostResponse struct {
	OldHost       Member
	NewHost       Member
	OldHostConn   *websocket.Conn
	NewHostConn   *websocket.Conn
	Members       []Member
	Conns         []*websocket.Conn
	SystemMessage domain.ChatMessage
}

// TransferHost hands room authority to another member. Host-gated; exactly
// one member holds host status afterwards.
func (s *service) TransferHost(ctx context.Context, params *TransferHostParams) (TransferHostResponse, error) {
	room, err := s.roomForSender(params.SenderId)
	if err != nil {
		return TransferHostResponse{}, err
	}

	transferred, err := room.TransferHost(params.SenderId, params.NewHostUsername)
	if err != nil {
		return TransferHostResponse{}, err
	}

	systemMessage := room.AppendSystemMessage(
		uuid.NewString(),
		fmt.Sprintf("%s is now the host", transferred.NewHost.Username),
		"👑",
		s.now(),
	)

	response := TransferHostResponse{
		OldHost:       memberFromDomain(transferred.OldHost),
		NewHost:       memberFromDomain(transferred.NewHost),
		Members:       membersFromDomain(transferred.Members),
		Conns:         s.connsForMembers(transferred.Members),
		SystemMessage: systemMessage,
	}

	if conn, err := s.connRepo.GetConn(transferred.OldHost.Id); err == nil {
		response.OldHostConn = conn
	}
	if conn, err := s.connRepo.GetConn(transferred.NewHost.Id); err == nil {
		response.NewHostConn = conn
	}

	s.logger.InfoContext(ctx, "host transferred",
		"roomCode", room.Code,
		"from", transferred.OldHost.Username,
		"to", transferred.NewHost.Username,
	)

	return response, nil
}
