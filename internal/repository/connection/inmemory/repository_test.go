package inmemory

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchtogether/server/internal/repository/connection"
)

func TestSessionLifecycle(t *testing.T) {
	repo := NewRepo()
	conn := &websocket.Conn{}

	require.NoError(t, repo.Add(conn, "conn-1"))

	// registered but not joined yet
	session, err := repo.GetSession("conn-1")
	require.NoError(t, err)
	assert.False(t, session.Joined())

	require.NoError(t, repo.Bind("conn-1", "ABC123", "alice"))

	session, err = repo.GetSession("conn-1")
	require.NoError(t, err)
	assert.True(t, session.Joined())
	assert.Equal(t, "ABC123", session.RoomCode)
	assert.Equal(t, "alice", session.Username)

	got, err := repo.GetConn("conn-1")
	require.NoError(t, err)
	assert.Same(t, conn, got)

	removed, err := repo.RemoveByConn(conn)
	require.NoError(t, err)
	assert.Equal(t, "conn-1", removed.ConnectionId)
	assert.Equal(t, "ABC123", removed.RoomCode)

	_, err = repo.GetSession("conn-1")
	assert.ErrorIs(t, err, connection.ErrNotFound)
	_, err = repo.GetConn("conn-1")
	assert.ErrorIs(t, err, connection.ErrNotFound)
}

func TestAddDuplicate(t *testing.T) {
	repo := NewRepo()
	conn := &websocket.Conn{}

	require.NoError(t, repo.Add(conn, "conn-1"))
	assert.ErrorIs(t, repo.Add(conn, "conn-2"), connection.ErrAlreadyExists)
	assert.ErrorIs(t, repo.Add(&websocket.Conn{}, "conn-1"), connection.ErrAlreadyExists)
}

func TestBindUnknownConnection(t *testing.T) {
	repo := NewRepo()

	assert.ErrorIs(t, repo.Bind("conn-1", "ABC123", "alice"), connection.ErrNotFound)
}

func TestRemoveUnknownConn(t *testing.T) {
	repo := NewRepo()

	_, err := repo.RemoveByConn(&websocket.Conn{})
	assert.ErrorIs(t, err, connection.ErrNotFound)
}
