package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 {
	return &v
}

func TestPlaybackIgnoredWithoutVideo(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)
	room.Join("conn-1", "alice", now)

	state, applied := room.ApplyPlayback(ActionPlay, float64Ptr(10), now)
	assert.False(t, applied)
	assert.False(t, state.IsPlaying)
	assert.Equal(t, 0.0, state.CurrentTime)

	_, _, ok := room.CatchUp(now)
	assert.False(t, ok)
}

func TestSetVideoResetsPlayback(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)
	room.Join("conn-1", "alice", now)

	state, err := room.SetVideo("conn-1", Video{Kind: VideoKindYouTube, VideoId: "dQw4w9WgXcQ"}, now)
	require.NoError(t, err)
	assert.False(t, state.IsPlaying)
	assert.Equal(t, 0.0, state.CurrentTime)

	// play it forward, then switch videos
	room.ApplyPlayback(ActionPlay, float64Ptr(120), now)

	later := now.Add(30 * time.Second)
	state, err = room.SetVideo("conn-1", Video{Kind: VideoKindDirect, URL: "https://example.com/movie.mp4"}, later)
	require.NoError(t, err)
	assert.False(t, state.IsPlaying)
	assert.Equal(t, 0.0, state.CurrentTime)
	assert.Equal(t, later, state.UpdatedAt)
}

func TestSetVideoHostGated(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)
	room.Join("conn-1", "alice", now)
	room.Join("conn-2", "bob", now)

	_, err := room.SetVideo("conn-2", Video{Kind: VideoKindYouTube, VideoId: "dQw4w9WgXcQ"}, now)
	assert.ErrorIs(t, err, ErrNotHost)
	assert.False(t, room.HasVideo())
}

func TestPlaybackExtrapolation(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)
	room.Join("conn-1", "alice", now)
	room.SetVideo("conn-1", Video{Kind: VideoKindYouTube, VideoId: "dQw4w9WgXcQ"}, now)

	state, applied := room.ApplyPlayback(ActionPlay, float64Ptr(100), now)
	require.True(t, applied)
	assert.True(t, state.IsPlaying)

	// while playing, position advances with wall time
	action, position, ok := room.CatchUp(now.Add(10 * time.Second))
	require.True(t, ok)
	assert.Equal(t, ActionPlay, action)
	assert.InDelta(t, 110, position, 0.001)

	// pause freezes the position
	state, _ = room.ApplyPlayback(ActionPause, float64Ptr(110), now.Add(10*time.Second))
	assert.False(t, state.IsPlaying)

	action, position, ok = room.CatchUp(now.Add(time.Hour))
	require.True(t, ok)
	assert.Equal(t, ActionPause, action)
	assert.InDelta(t, 110, position, 0.001)
}

func TestPlaybackNilCurrentTimeKeepsPosition(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)
	room.Join("conn-1", "alice", now)
	room.SetVideo("conn-1", Video{Kind: VideoKindYouTube, VideoId: "dQw4w9WgXcQ"}, now)

	room.ApplyPlayback(ActionSeek, float64Ptr(42), now)

	state, _ := room.ApplyPlayback(ActionPlay, nil, now.Add(time.Second))
	assert.True(t, state.IsPlaying)
	assert.Equal(t, 42.0, state.CurrentTime)
}

func TestSeekKeepsPlayFlag(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)
	room.Join("conn-1", "alice", now)
	room.SetVideo("conn-1", Video{Kind: VideoKindYouTube, VideoId: "dQw4w9WgXcQ"}, now)

	room.ApplyPlayback(ActionPlay, float64Ptr(0), now)
	state, _ := room.ApplyPlayback(ActionSeek, float64Ptr(300), now.Add(time.Second))
	assert.True(t, state.IsPlaying)
	assert.Equal(t, 300.0, state.CurrentTime)

	room.ApplyPlayback(ActionPause, nil, now.Add(2*time.Second))
	state, _ = room.ApplyPlayback(ActionSeek, float64Ptr(10), now.Add(3*time.Second))
	assert.False(t, state.IsPlaying)
}

func TestSyncPlaybackHostGated(t *testing.T) {
	now := time.Now()
	room := NewRoom("ABC123", 6, now)
	room.Join("conn-1", "alice", now)
	room.Join("conn-2", "bob", now)

	_, err := room.SyncPlayback("conn-2", ActionPlay, float64Ptr(0), now)
	assert.ErrorIs(t, err, ErrNotHost)

	// host without a video set cannot sync either
	_, err = room.SyncPlayback("conn-1", ActionPlay, float64Ptr(0), now)
	assert.ErrorIs(t, err, ErrInvalidVideo)

	room.SetVideo("conn-1", Video{Kind: VideoKindYouTube, VideoId: "dQw4w9WgXcQ"}, now)
	state, err := room.SyncPlayback("conn-1", ActionPlay, float64Ptr(55), now)
	require.NoError(t, err)
	assert.True(t, state.IsPlaying)
	assert.Equal(t, 55.0, state.CurrentTime)
}

func TestPlaybackActionValid(t *testing.T) {
	assert.True(t, ActionPlay.Valid())
	assert.True(t, ActionPause.Valid())
	assert.True(t, ActionSeek.Valid())
	assert.False(t, PlaybackAction("stop").Valid())
	assert.False(t, PlaybackAction("").Valid())
}
