package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voiceRoom(t *testing.T) *Room {
	t.Helper()
	now := time.Now()
	room := NewRoom("ABC123", 6, now)
	room.Join("conn-1", "alice", now)
	room.Join("conn-2", "bob", now)
	room.Join("conn-3", "carol", now)

	return room
}

func TestStartVoice(t *testing.T) {
	room := voiceRoom(t)

	started, err := room.StartVoice("conn-1")
	require.NoError(t, err)
	assert.True(t, started.Started)
	assert.Equal(t, "alice", started.Initiator)
	assert.Equal(t, colorPalette[0], started.InitiatorColor)
	require.Len(t, started.Members, 1)
	assert.Equal(t, "conn-1", started.Members[0].Id)

	status, active := room.VoiceState()
	require.True(t, active)
	assert.Equal(t, "alice", status.Initiator)
}

func TestStartVoiceWhileActiveJoinsInstead(t *testing.T) {
	room := voiceRoom(t)

	_, err := room.StartVoice("conn-1")
	require.NoError(t, err)

	started, err := room.StartVoice("conn-2")
	require.NoError(t, err)
	assert.False(t, started.Started)
	assert.True(t, started.Join.Joined)
	assert.Equal(t, "bob", started.Join.Member.Username)
	assert.Equal(t, "alice", started.Join.Initiator)
	require.Len(t, started.Join.Existing, 1)
	assert.Equal(t, "alice", started.Join.Existing[0].Username)
}

func TestJoinVoice(t *testing.T) {
	room := voiceRoom(t)

	// no active session: no-op
	joined, err := room.JoinVoice("conn-2")
	require.NoError(t, err)
	assert.False(t, joined.Joined)

	room.StartVoice("conn-1")

	joined, err = room.JoinVoice("conn-2")
	require.NoError(t, err)
	assert.True(t, joined.Joined)
	assert.Len(t, joined.Members, 2)

	// repeated join is a no-op
	joined, err = room.JoinVoice("conn-2")
	require.NoError(t, err)
	assert.False(t, joined.Joined)

	_, err = room.JoinVoice("conn-99")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestLeaveVoiceEndsEmptySession(t *testing.T) {
	room := voiceRoom(t)

	room.StartVoice("conn-1")
	room.JoinVoice("conn-2")

	left := room.LeaveVoice("conn-1")
	assert.True(t, left.Removed)
	assert.False(t, left.Ended)
	require.Len(t, left.Members, 1)
	assert.Equal(t, "bob", left.Members[0].Username)

	// session survives its initiator leaving
	_, active := room.VoiceState()
	assert.True(t, active)

	left = room.LeaveVoice("conn-2")
	assert.True(t, left.Removed)
	assert.True(t, left.Ended)

	// a session is never present-but-empty
	_, active = room.VoiceState()
	assert.False(t, active)

	// leaving with no session is a no-op
	left = room.LeaveVoice("conn-3")
	assert.False(t, left.Removed)
}

func TestVoiceStateFallbackColor(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)
	room.Join("conn-1", "alice", now)
	room.Join("conn-2", "bob", now)

	room.StartVoice("conn-1")
	room.JoinVoice("conn-2")

	// initiator left the room entirely; color falls back
	room.LeaveVoice("conn-1")
	room.Leave("conn-1", now)

	status, active := room.VoiceState()
	require.True(t, active)
	assert.Equal(t, "alice", status.Initiator)
	assert.Equal(t, fallbackInitiatorColor, status.InitiatorColor)
}
