package room

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/domain"
)

const joinHistoryLimit = 50

type CreateRoomResponse struct {
	RoomCode string `json:"roomCode"`
}

func (s *service) CreateRoom(ctx context.Context) (CreateRoomResponse, error) {
	room, err := s.roomRepo.CreateRoom()
	if err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to create room: %w", err)
	}

	s.logger.InfoContext(ctx, "room created", "roomCode", room.Code, "totalRooms", s.roomRepo.Len())

	return CreateRoomResponse{RoomCode: room.Code}, nil
}

type RoomInfo struct {
	RoomCode  string `json:"roomCode"`
	UserCount int    `json:"userCount"`
	HasVideo  bool   `json:"hasVideo"`
}

func (s *service) GetRoomInfo(ctx context.Context, roomCode string) (RoomInfo, error) {
	room, err := s.roomRepo.GetRoom(roomCode)
	if err != nil {
		return RoomInfo{}, err
	}

	return RoomInfo{
		RoomCode:  room.Code,
		UserCount: room.UserCount(),
		HasVideo:  room.HasVideo(),
	}, nil
}

type RoomDebugInfo struct {
	RoomCode   string     `json:"roomCode"`
	UserCount  int        `json:"userCount"`
	Users      []Member   `json:"users"`
	HasVideo   bool       `json:"hasVideo"`
	EmptySince *time.Time `json:"emptySince,omitempty"`
}

func (s *service) DebugRooms(ctx context.Context) []RoomDebugInfo {
	rooms := s.roomRepo.Rooms()

	infos := make([]RoomDebugInfo, 0, len(rooms))
	for _, room := range rooms {
		info := RoomDebugInfo{
			RoomCode:  room.Code,
			UserCount: room.UserCount(),
			Users:     membersFromDomain(room.Members()),
			HasVideo:  room.HasVideo(),
		}
		if emptySince, ok := room.EmptySince(); ok {
			info.EmptySince = &emptySince
		}

		infos = append(infos, info)
	}

	return infos
}

// RegisterConnection assigns a fresh connection id to a newly upgraded
// websocket. The id is regenerated on every connect: a reconnecting user is
// a new member.
func (s *service) RegisterConnection(ctx context.Context, conn *websocket.Conn) (string, error) {
	connectionId := uuid.NewString()
	if err := s.connRepo.Add(conn, connectionId); err != nil {
		return "", fmt.Errorf("failed to register connection: %w", err)
	}

	return connectionId, nil
}

type JoinRoomParams struct {
	SenderId string
	RoomCode string
	Username string
}

type JoinRoomResponse struct {
	JoinedMember  Member
	BecameHost    bool
	RoomState     RoomState
	Members       []Member
	SystemMessage domain.ChatMessage
	// Voice is set when a voice session is already active, so the joiner
	// can be invited into it.
	Voice      *VoiceNotice
	HasCatchUp bool
	OtherConns []*websocket.Conn
	AllConns   []*websocket.Conn
}

func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	// One membership per connection. A rebind would leave a ghost member in
	// the previous room that blocks its sweep.
	if session, err := s.connRepo.GetSession(params.SenderId); err == nil && session.Joined() {
		return JoinRoomResponse{}, domain.ErrAlreadyJoined
	}

	room, err := s.roomRepo.GetRoom(params.RoomCode)
	if err != nil {
		return JoinRoomResponse{}, &domain.JoinRejectedError{
			Reason:   domain.ErrRoomNotFound,
			RoomCode: params.RoomCode,
		}
	}

	joined, err := room.Join(params.SenderId, params.Username, s.now())
	if err != nil {
		return JoinRoomResponse{}, err
	}

	// The sweep timer may reclaim the room between the lookup and the join.
	// Re-verify the registry still holds this room; once the member is in,
	// a later sweep sees the occupancy and leaves the room alone.
	if current, err := s.roomRepo.GetRoom(params.RoomCode); err != nil || current != room {
		room.Leave(params.SenderId, s.now())
		return JoinRoomResponse{}, &domain.JoinRejectedError{
			Reason:   domain.ErrRoomNotFound,
			RoomCode: params.RoomCode,
		}
	}

	if err := s.connRepo.Bind(params.SenderId, room.Code, params.Username); err != nil {
		// Roll the membership back: a member without a live session record
		// would be unreachable by every broadcast.
		room.Leave(params.SenderId, s.now())
		return JoinRoomResponse{}, fmt.Errorf("failed to bind session: %w", err)
	}

	systemMessage := room.AppendSystemMessage(
		uuid.NewString(),
		fmt.Sprintf("%s joined the room", params.Username),
		"👋",
		s.now(),
	)

	response := JoinRoomResponse{
		JoinedMember:  memberFromDomain(joined.Member),
		BecameHost:    joined.BecameHost,
		Members:       membersFromDomain(joined.Members),
		SystemMessage: systemMessage,
		HasCatchUp:    room.HasVideo(),
		OtherConns:    s.connsForMembers(joined.Members, params.SenderId),
		AllConns:      s.connsForMembers(joined.Members),
		RoomState: RoomState{
			RoomCode:   room.Code,
			Users:      membersFromDomain(joined.Members),
			Video:      room.Video(),
			VideoState: playerStateFromDomain(room.Playback()),
			Messages:   room.RecentMessages(joinHistoryLimit),
			IsHost:     joined.BecameHost,
		},
	}

	if voice, active := room.VoiceState(); active {
		response.Voice = &VoiceNotice{
			Initiator:      voice.Initiator,
			InitiatorColor: voice.InitiatorColor,
			Message:        fmt.Sprintf("%s started Voice chat, want to join?", voice.Initiator),
			Members:        voiceMemberNames(voice.Members),
		}
	}

	s.logger.InfoContext(ctx, "member joined room",
		"roomCode", room.Code,
		"username", params.Username,
		"userCount", len(joined.Members),
		"isHost", joined.BecameHost,
	)

	return response, nil
}

// VoiceDisconnectUpdate describes the voice-session fallout of a member
// dropping: either the session ended or the remaining members must be told.
type VoiceDisconnectUpdate struct {
	Ended        bool
	LeftUsername string
	LeftId       string
	Members      []string
	MemberConns  []*websocket.Conn
}

type DisconnectMemberParams struct {
	Conn *websocket.Conn
}

type DisconnectMemberResponse struct {
	// WasJoined is false for connections that dropped before joining a
	// room; nothing needs broadcasting then.
	WasJoined     bool
	RoomCode      string
	Left          Member
	NewHost       *Member
	NewHostConn   *websocket.Conn
	Members       []Member
	Conns         []*websocket.Conn
	Emptied       bool
	SystemMessage *domain.ChatMessage
	Voice         *VoiceDisconnectUpdate
}

// DisconnectMember is the terminal transition for a connection: voice
// cleanup first, then membership removal with deterministic host succession,
// then the empty-room sweep when the last member leaves.
func (s *service) DisconnectMember(ctx context.Context, params *DisconnectMemberParams) (DisconnectMemberResponse, error) {
	session, err := s.connRepo.RemoveByConn(params.Conn)
	if err != nil {
		return DisconnectMemberResponse{}, nil
	}
	if !session.Joined() {
		return DisconnectMemberResponse{}, nil
	}

	room, err := s.roomRepo.GetRoom(session.RoomCode)
	if err != nil {
		return DisconnectMemberResponse{}, nil
	}

	response := DisconnectMemberResponse{
		WasJoined: true,
		RoomCode:  room.Code,
	}

	if voiceLeft := room.LeaveVoice(session.ConnectionId); voiceLeft.Removed {
		response.Voice = &VoiceDisconnectUpdate{
			Ended:        voiceLeft.Ended,
			LeftUsername: voiceLeft.Left.Username,
			LeftId:       voiceLeft.Left.Id,
			Members:      voiceMemberNames(voiceLeft.Members),
			MemberConns:  s.connsForVoiceMembers(voiceLeft.Members),
		}
	}

	left, err := room.Leave(session.ConnectionId, s.now())
	if err != nil {
		return response, err
	}

	response.Left = memberFromDomain(left.Left)
	response.Emptied = left.Emptied

	if left.Emptied {
		s.scheduleRoomSweep(room.Code)
		s.logger.InfoContext(ctx, "room emptied, sweep scheduled",
			"roomCode", room.Code,
			"ttl", s.config.EmptyRoomTTL,
		)
		return response, nil
	}

	systemMessage := room.AppendSystemMessage(
		uuid.NewString(),
		fmt.Sprintf("%s left the room", left.Left.Username),
		"🚪",
		s.now(),
	)
	response.SystemMessage = &systemMessage
	response.Members = membersFromDomain(left.Members)
	response.Conns = s.connsForMembers(left.Members)

	if left.NewHost != nil {
		newHost := memberFromDomain(*left.NewHost)
		response.NewHost = &newHost
		if conn, err := s.connRepo.GetConn(left.NewHost.Id); err == nil {
			response.NewHostConn = conn
		}
	}

	s.logger.InfoContext(ctx, "member disconnected",
		"roomCode", room.Code,
		"username", left.Left.Username,
		"remaining", len(left.Members),
	)

	return response, nil
}

// scheduleRoomSweep arms the one-shot empty-room check. The fired check
// re-reads registry state instead of acting on a snapshot, so a rejoin
// within the window leaves the room untouched.
func (s *service) scheduleRoomSweep(roomCode string) {
	s.schedule(s.config.EmptyRoomTTL, func() {
		if s.roomRepo.DeleteRoomIfEmpty(roomCode) {
			s.logger.Info("empty room deleted", "roomCode", roomCode)
		}
	})
}
