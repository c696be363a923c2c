package inmemory

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/repository/connection"
)

type repo struct {
	mu     sync.RWMutex
	byConn map[*websocket.Conn]*connection.Session
	byId   map[string]*websocket.Conn
}

func NewRepo() *repo {
	return &repo{
		byConn: make(map[*websocket.Conn]*connection.Session),
		byId:   make(map[string]*websocket.Conn),
	}
}

func (r *repo) Add(conn *websocket.Conn, connectionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byConn[conn] != nil || r.byId[connectionId] != nil {
		return connection.ErrAlreadyExists
	}

	r.byConn[conn] = &connection.Session{ConnectionId: connectionId}
	r.byId[connectionId] = conn

	return nil
}

// Bind attaches the room code and username to an established connection
// after a successful join.
func (r *repo) Bind(connectionId, roomCode, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.byId[connectionId]
	if !ok {
		return connection.ErrNotFound
	}

	session := r.byConn[conn]
	session.RoomCode = roomCode
	session.Username = username

	return nil
}

func (r *repo) GetSession(connectionId string) (connection.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.byId[connectionId]
	if !ok {
		return connection.Session{}, connection.ErrNotFound
	}

	return *r.byConn[conn], nil
}

func (r *repo) GetConn(connectionId string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.byId[connectionId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) RemoveByConn(conn *websocket.Conn) (connection.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byConn[conn]
	if !ok {
		return connection.Session{}, connection.ErrNotFound
	}

	delete(r.byConn, conn)
	delete(r.byId, session.ConnectionId)

	return *session, nil
}
