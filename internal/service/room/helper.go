package room

import (
	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/domain"
)

// connsForMembers resolves the live connection of every member, skipping the
// excluded connection ids. Members whose connection is already gone are
// skipped silently: broadcasts are best-effort.
func (s *service) connsForMembers(members []domain.Member, exclude ...string) []*websocket.Conn {
	conns := make([]*websocket.Conn, 0, len(members))
	for _, m := range members {
		if excluded(m.Id, exclude) {
			continue
		}

		conn, err := s.connRepo.GetConn(m.Id)
		if err != nil {
			continue
		}

		conns = append(conns, conn)
	}

	return conns
}

func (s *service) connsForVoiceMembers(members []domain.VoiceMember, exclude ...string) []*websocket.Conn {
	conns := make([]*websocket.Conn, 0, len(members))
	for _, m := range members {
		if excluded(m.Id, exclude) {
			continue
		}

		conn, err := s.connRepo.GetConn(m.Id)
		if err != nil {
			continue
		}

		conns = append(conns, conn)
	}

	return conns
}

func excluded(id string, exclude []string) bool {
	for _, e := range exclude {
		if id == e {
			return true
		}
	}

	return false
}

// roomForSender resolves the sender's joined room, or ErrRoomNotFound when
// the connection never joined one or the room is gone.
func (s *service) roomForSender(senderId string) (*domain.Room, error) {
	session, err := s.connRepo.GetSession(senderId)
	if err != nil {
		return nil, domain.ErrRoomNotFound
	}
	if !session.Joined() {
		return nil, domain.ErrRoomNotFound
	}

	return s.roomRepo.GetRoom(session.RoomCode)
}
