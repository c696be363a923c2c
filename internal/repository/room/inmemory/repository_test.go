package inmemory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchtogether/server/internal/domain"
	"github.com/watchtogether/server/pkg/roomcode"
)

func TestCreateRoom(t *testing.T) {
	repo := NewRepo(6)

	room, err := repo.CreateRoom()
	require.NoError(t, err)
	assert.Len(t, room.Code, roomcode.Length)
	assert.Equal(t, 1, repo.Len())

	got, err := repo.GetRoom(room.Code)
	require.NoError(t, err)
	assert.Same(t, room, got)
}

func TestCreateRoomUniqueCodes(t *testing.T) {
	repo := NewRepo(6)

	codes := make(map[string]bool)
	for i := 0; i < 100; i++ {
		room, err := repo.CreateRoom()
		require.NoError(t, err)
		assert.False(t, codes[room.Code], "duplicate code %s", room.Code)
		codes[room.Code] = true
	}
	assert.Equal(t, 100, repo.Len())
}

func TestGetRoomNotFound(t *testing.T) {
	repo := NewRepo(6)

	_, err := repo.GetRoom("NOPE42")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestDeleteRoomIfEmpty(t *testing.T) {
	repo := NewRepo(6)

	room, err := repo.CreateRoom()
	require.NoError(t, err)

	// occupied room is not reclaimed
	_, err = room.Join("conn-1", "alice", time.Now())
	require.NoError(t, err)
	assert.False(t, repo.DeleteRoomIfEmpty(room.Code))
	assert.Equal(t, 1, repo.Len())

	// emptied room is
	_, err = room.Leave("conn-1", time.Now())
	require.NoError(t, err)
	assert.True(t, repo.DeleteRoomIfEmpty(room.Code))
	assert.Equal(t, 0, repo.Len())

	// idempotent on unknown codes
	assert.False(t, repo.DeleteRoomIfEmpty(room.Code))
}

func TestRooms(t *testing.T) {
	repo := NewRepo(6)

	for i := 0; i < 3; i++ {
		_, err := repo.CreateRoom()
		require.NoError(t, err)
	}

	assert.Len(t, repo.Rooms(), 3)
}
