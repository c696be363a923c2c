package room

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/domain"
)

type StartVoiceParams struct {
	SenderId string
}

type StartVoiceResponse struct {
	// Started is false when a session was already active; Join then carries
	// the join fan-out instead.
	Started        bool
	Join           *JoinVoiceResponse
	Initiator      string
	InitiatorColor string
	Members        []string
	SystemMessage  domain.ChatMessage
	OtherConns     []*websocket.Conn
	AllConns       []*websocket.Conn
}

func (s *service) StartVoice(ctx context.Context, params *StartVoiceParams) (StartVoiceResponse, error) {
	room, err := s.roomForSender(params.SenderId)
	if err != nil {
		return StartVoiceResponse{}, err
	}

	started, err := room.StartVoice(params.SenderId)
	if err != nil {
		return StartVoiceResponse{}, err
	}

	if !started.Started {
		join, err := s.joinVoiceResponse(ctx, room, started.Join)
		if err != nil {
			return StartVoiceResponse{}, err
		}

		return StartVoiceResponse{Join: &join}, nil
	}

	systemMessage := room.AppendSystemMessage(
		uuid.NewString(),
		fmt.Sprintf("%s started a voice chat", started.Initiator),
		"🎤",
		s.now(),
	)

	s.logger.InfoContext(ctx, "voice chat started",
		"roomCode", room.Code,
		"initiator", started.Initiator,
	)

	return StartVoiceResponse{
		Started:        true,
		Initiator:      started.Initiator,
		InitiatorColor: started.InitiatorColor,
		Members:        voiceMemberNames(started.Members),
		SystemMessage:  systemMessage,
		OtherConns:     s.connsForMembers(room.Members(), params.SenderId),
		AllConns:       s.connsForMembers(room.Members()),
	}, nil
}

type JoinVoiceParams struct {
	SenderId string
}

type JoinVoiceResponse struct {
	// Joined is false when there was no active session or the sender was
	// already in it; nothing is broadcast then.
	Joined        bool
	NewMember     string
	NewMemberId   string
	Initiator     string
	Members       []string
	Existing      []domain.VoiceMember
	JoinerConn    *websocket.Conn
	VoiceConns    []*websocket.Conn
	AllConns      []*websocket.Conn
	SystemMessage domain.ChatMessage
}

func (s *service) JoinVoice(ctx context.Context, params *JoinVoiceParams) (JoinVoiceResponse, error) {
	room, err := s.roomForSender(params.SenderId)
	if err != nil {
		return JoinVoiceResponse{}, err
	}

	joined, err := room.JoinVoice(params.SenderId)
	if err != nil {
		return JoinVoiceResponse{}, err
	}
	if !joined.Joined {
		return JoinVoiceResponse{}, nil
	}

	return s.joinVoiceResponse(ctx, room, joined)
}

func (s *service) joinVoiceResponse(ctx context.Context, room *domain.Room, joined domain.VoiceJoinResult) (JoinVoiceResponse, error) {
	if !joined.Joined {
		return JoinVoiceResponse{}, nil
	}

	systemMessage := room.AppendSystemMessage(
		uuid.NewString(),
		fmt.Sprintf("%s joined the voice chat", joined.Member.Username),
		"🔊",
		s.now(),
	)

	response := JoinVoiceResponse{
		Joined:        true,
		NewMember:     joined.Member.Username,
		NewMemberId:   joined.Member.Id,
		Initiator:     joined.Initiator,
		Members:       voiceMemberNames(joined.Members),
		Existing:      joined.Existing,
		VoiceConns:    s.connsForVoiceMembers(joined.Members, joined.Member.Id),
		AllConns:      s.connsForMembers(room.Members()),
		SystemMessage: systemMessage,
	}

	if conn, err := s.connRepo.GetConn(joined.Member.Id); err == nil {
		response.JoinerConn = conn
	}

	s.logger.InfoContext(ctx, "member joined voice chat",
		"roomCode", room.Code,
		"username", joined.Member.Username,
		"voiceMembers", len(joined.Members),
	)

	return response, nil
}

type LeaveVoiceParams struct {
	SenderId string
}

type LeaveVoiceResponse struct {
	Removed        bool
	Ended          bool
	LeftUsername   string
	LeftId         string
	Members        []string
	VoiceConns     []*websocket.Conn
	AllConns       []*websocket.Conn
	SystemMessages []domain.ChatMessage
}

func (s *service) LeaveVoice(ctx context.Context, params *LeaveVoiceParams) (LeaveVoiceResponse, error) {
	room, err := s.roomForSender(params.SenderId)
	if err != nil {
		return LeaveVoiceResponse{}, err
	}

	left := room.LeaveVoice(params.SenderId)
	if !left.Removed {
		return LeaveVoiceResponse{}, nil
	}

	messages := []domain.ChatMessage{room.AppendSystemMessage(
		uuid.NewString(),
		fmt.Sprintf("%s left the voice chat", left.Left.Username),
		"🔇",
		s.now(),
	)}

	if left.Ended {
		messages = append(messages, room.AppendSystemMessage(
			uuid.NewString(),
			"Voice chat ended",
			"🎤",
			s.now(),
		))
	}

	s.logger.InfoContext(ctx, "member left voice chat",
		"roomCode", room.Code,
		"username", left.Left.Username,
		"ended", left.Ended,
	)

	return LeaveVoiceResponse{
		Removed:        true,
		Ended:          left.Ended,
		LeftUsername:   left.Left.Username,
		LeftId:         left.Left.Id,
		Members:        voiceMemberNames(left.Members),
		VoiceConns:     s.connsForVoiceMembers(left.Members),
		AllConns:       s.connsForMembers(room.Members()),
		SystemMessages: messages,
	}, nil
}

type MuteStatusParams struct {
	SenderId string
	Username string
	IsMuted  bool
}

type MuteStatusResponse struct {
	Conns []*websocket.Conn
}

// MuteStatus relays a member's mute flag to the rest of the room. The server
// stores nothing; last write wins on the clients.
func (s *service) MuteStatus(ctx context.Context, params *MuteStatusParams) (MuteStatusResponse, error) {
	room, err := s.roomForSender(params.SenderId)
	if err != nil {
		return MuteStatusResponse{}, err
	}

	if _, err := room.MemberById(params.SenderId); err != nil {
		return MuteStatusResponse{}, err
	}

	return MuteStatusResponse{
		Conns: s.connsForMembers(room.Members(), params.SenderId),
	}, nil
}

type RelayTargetParams struct {
	SenderId string
	TargetId string
}

type RelayTargetResponse struct {
	TargetConn *websocket.Conn
}

// ResolveRelayTarget validates that sender and target share a room and
// returns the target's connection for an opaque signaling relay.
func (s *service) ResolveRelayTarget(ctx context.Context, params *RelayTargetParams) (RelayTargetResponse, error) {
	senderSession, err := s.connRepo.GetSession(params.SenderId)
	if err != nil || !senderSession.Joined() {
		return RelayTargetResponse{}, domain.ErrRoomNotFound
	}

	targetSession, err := s.connRepo.GetSession(params.TargetId)
	if err != nil || targetSession.RoomCode != senderSession.RoomCode {
		return RelayTargetResponse{}, domain.ErrMemberNotFound
	}

	conn, err := s.connRepo.GetConn(params.TargetId)
	if err != nil {
		return RelayTargetResponse{}, domain.ErrMemberNotFound
	}

	return RelayTargetResponse{TargetConn: conn}, nil
}

type RoomPeersResponse struct {
	Conns []*websocket.Conn
}

// RoomPeers returns every other member's connection for room-wide relays
// (screen-share start/stop announcements).
func (s *service) RoomPeers(ctx context.Context, senderId string) (RoomPeersResponse, error) {
	room, err := s.roomForSender(senderId)
	if err != nil {
		return RoomPeersResponse{}, err
	}

	return RoomPeersResponse{
		Conns: s.connsForMembers(room.Members(), senderId),
	}, nil
}
