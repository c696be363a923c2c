package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinFirstMemberBecomesHost(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)

	joined, err := room.Join("conn-1", "alice", now)
	require.NoError(t, err)
	assert.True(t, joined.BecameHost)
	assert.True(t, joined.Member.IsHost)
	assert.Equal(t, colorPalette[0], joined.Member.Color)

	joined2, err := room.Join("conn-2", "bob", now)
	require.NoError(t, err)
	assert.False(t, joined2.BecameHost)
	assert.False(t, joined2.Member.IsHost)
	assert.Equal(t, colorPalette[1], joined2.Member.Color)
	assert.Len(t, joined2.Members, 2)
}

func TestJoinRejectsDuplicateUsername(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)

	_, err := room.Join("conn-1", "alice", now)
	require.NoError(t, err)

	_, err = room.Join("conn-2", "alice", now)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNameTaken)

	var joinErr *JoinRejectedError
	require.ErrorAs(t, err, &joinErr)
	assert.Equal(t, "ABC123", joinErr.RoomCode)
	assert.Equal(t, []string{"alice"}, joinErr.Usernames)
}

func TestJoinRejectsWhenFull(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 2, now)

	_, err := room.Join("conn-1", "alice", now)
	require.NoError(t, err)
	_, err = room.Join("conn-2", "bob", now)
	require.NoError(t, err)

	_, err = room.Join("conn-3", "carol", now)
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestJoinCapacityCheckedBeforeName(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 1, now)

	_, err := room.Join("conn-1", "alice", now)
	require.NoError(t, err)

	// Duplicate name against a full room reports the capacity problem.
	_, err = room.Join("conn-2", "alice", now)
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestColorsExhaustPaletteThenFallBack(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 20, now)

	for i := 0; i < len(colorPalette); i++ {
		joined, err := room.Join(fmt.Sprintf("conn-%d", i), fmt.Sprintf("user%d", i), now)
		require.NoError(t, err)
		assert.Equal(t, colorPalette[i], joined.Member.Color)
	}

	joined, err := room.Join("conn-extra", "extra", now)
	require.NoError(t, err)
	assert.Regexp(t, `^hsl\(\d+, 75%, 60%\)$`, joined.Member.Color)
}

func TestLeaveHostSuccession(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)

	room.Join("conn-1", "alice", now)
	room.Join("conn-2", "bob", now)
	room.Join("conn-3", "carol", now)

	left, err := room.Leave("conn-1", now)
	require.NoError(t, err)
	assert.Equal(t, "alice", left.Left.Username)
	require.NotNil(t, left.NewHost)
	assert.Equal(t, "bob", left.NewHost.Username)
	assert.True(t, left.NewHost.IsHost)

	// exactly one host remains
	hosts := 0
	for _, m := range left.Members {
		if m.IsHost {
			hosts++
		}
	}
	assert.Equal(t, 1, hosts)
}

func TestLeaveNonHostKeepsHost(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)

	room.Join("conn-1", "alice", now)
	room.Join("conn-2", "bob", now)

	left, err := room.Leave("conn-2", now)
	require.NoError(t, err)
	assert.Nil(t, left.NewHost)
	assert.False(t, left.Emptied)
}

func TestLeaveLastMemberMarksEmpty(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)

	room.Join("conn-1", "alice", now)

	left, err := room.Leave("conn-1", now)
	require.NoError(t, err)
	assert.True(t, left.Emptied)

	emptySince, ok := room.EmptySince()
	require.True(t, ok)
	assert.Equal(t, now, emptySince)

	// rejoin clears the mark and grants host again
	joined, err := room.Join("conn-2", "bob", now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, joined.BecameHost)
	_, ok = room.EmptySince()
	assert.False(t, ok)
}

func TestLeaveUnknownMember(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)

	_, err := room.Leave("conn-1", now)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestTransferHost(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)

	room.Join("conn-1", "alice", now)
	room.Join("conn-2", "bob", now)

	transferred, err := room.TransferHost("conn-1", "bob")
	require.NoError(t, err)
	assert.False(t, transferred.OldHost.IsHost)
	assert.True(t, transferred.NewHost.IsHost)
	assert.Equal(t, "bob", transferred.NewHost.Username)

	// only the new host can transfer now
	_, err = room.TransferHost("conn-1", "alice")
	assert.ErrorIs(t, err, ErrNotHost)

	_, err = room.TransferHost("conn-2", "nobody")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestAppendUserMessage(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)

	room.Join("conn-1", "alice", now)

	msg, err := room.AppendUserMessage("conn-1", "msg-1", "  hello  ", now)
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Message)
	assert.Equal(t, "alice", msg.Username)
	assert.Equal(t, colorPalette[0], msg.Color)

	_, err = room.AppendUserMessage("conn-1", "msg-2", "   ", now)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = room.AppendUserMessage("conn-2", "msg-3", "hi", now)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestChatHistoryCapped(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)

	room.Join("conn-1", "alice", now)

	for i := 0; i < ChatHistoryLimit+10; i++ {
		_, err := room.AppendUserMessage("conn-1", fmt.Sprintf("msg-%d", i), fmt.Sprintf("message %d", i), now)
		require.NoError(t, err)
	}

	messages := room.RecentMessages(ChatHistoryLimit + 50)
	require.Len(t, messages, ChatHistoryLimit)
	// oldest retained message is the 11th sent
	assert.Equal(t, "message 10", messages[0].Message)

	recent := room.RecentMessages(50)
	require.Len(t, recent, 50)
	assert.Equal(t, fmt.Sprintf("message %d", ChatHistoryLimit+9), recent[49].Message)
}

func TestSetTypingReportsChanges(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)

	room.Join("conn-1", "alice", now)

	_, changed, err := room.SetTyping("conn-1", true)
	require.NoError(t, err)
	assert.True(t, changed)

	_, changed, err = room.SetTyping("conn-1", true)
	require.NoError(t, err)
	assert.False(t, changed)

	_, changed, err = room.SetTyping("conn-1", false)
	require.NoError(t, err)
	assert.True(t, changed)

	_, _, err = room.SetTyping("conn-2", true)
	assert.True(t, errors.Is(err, ErrMemberNotFound))
}
