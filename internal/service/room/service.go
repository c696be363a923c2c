package room

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/domain"
	"github.com/watchtogether/server/internal/repository/connection"
)

type iRoomRepo interface {
	CreateRoom() (*domain.Room, error)
	GetRoom(code string) (*domain.Room, error)
	DeleteRoomIfEmpty(code string) bool
	Rooms() []*domain.Room
	Len() int
}

type iConnRepo interface {
	Add(conn *websocket.Conn, connectionId string) error
	Bind(connectionId, roomCode, username string) error
	GetSession(connectionId string) (connection.Session, error)
	GetConn(connectionId string) (*websocket.Conn, error)
	RemoveByConn(conn *websocket.Conn) (connection.Session, error)
}

type Config struct {
	// EmptyRoomTTL is how long a room may stay empty before the sweep
	// reclaims it.
	EmptyRoomTTL time.Duration
	// CatchUpDelay is the grace period before a late joiner receives its
	// playback catch-up, letting the client player finish initializing.
	CatchUpDelay time.Duration
}

type service struct {
	roomRepo iRoomRepo
	connRepo iConnRepo
	config   *Config
	logger   *slog.Logger

	// now is swappable for tests.
	now func() time.Time
	// schedule arms the deferred sweep/catch-up tasks; swappable for tests.
	schedule func(d time.Duration, f func())
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, config *Config, logger *slog.Logger) *service {
	if config.EmptyRoomTTL <= 0 {
		config.EmptyRoomTTL = 10 * time.Minute
	}
	if config.CatchUpDelay <= 0 {
		config.CatchUpDelay = 2 * time.Second
	}

	return &service{
		roomRepo: roomRepo,
		connRepo: connRepo,
		config:   config,
		logger:   logger,
		now:      time.Now,
		schedule: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// CatchUpDelay exposes the configured late-joiner grace period to the
// transport layer that schedules the catch-up send.
func (s *service) CatchUpDelay() time.Duration {
	return s.config.CatchUpDelay
}
