package room

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/domain"
	"github.com/watchtogether/server/pkg/ytvideoid"
)

type SetVideoParams struct {
	SenderId string
	// Descriptor fields as received; Normalize validates the kind-specific
	// requirements.
	Kind     string
	URL      string
	VideoId  string
	Filename string
	Duration float64
}

type SetVideoResponse struct {
	Video  domain.Video
	Player PlayerState
	Conns  []*websocket.Conn
}

// normalizeVideo turns an inbound descriptor into a validated domain.Video.
// YouTube descriptors may arrive as a bare URL; the video id is derived from
// it then.
func normalizeVideo(params *SetVideoParams) (domain.Video, error) {
	kind := domain.VideoKind(params.Kind)

	// Legacy payloads carry only a YouTube URL with no kind tag.
	if params.Kind == "" && params.URL != "" {
		kind = domain.VideoKindYouTube
	}

	if !kind.Valid() {
		return domain.Video{}, domain.ErrInvalidVideo
	}

	video := domain.Video{
		Kind:     kind,
		URL:      params.URL,
		VideoId:  params.VideoId,
		Filename: params.Filename,
		Duration: params.Duration,
	}

	switch kind {
	case domain.VideoKindYouTube:
		if video.VideoId == "" {
			videoId, err := ytvideoid.Extract(video.URL)
			if err != nil {
				return domain.Video{}, domain.ErrInvalidVideo
			}
			video.VideoId = videoId
		}
	case domain.VideoKindLocal:
		if video.URL == "" {
			return domain.Video{}, domain.ErrInvalidVideo
		}
	default:
		if video.URL == "" {
			return domain.Video{}, domain.ErrInvalidVideo
		}
	}

	return video, nil
}

// SetVideo replaces the room's video (host-only) and resets playback.
func (s *service) SetVideo(ctx context.Context, params *SetVideoParams) (SetVideoResponse, error) {
	room, err := s.roomForSender(params.SenderId)
	if err != nil {
		return SetVideoResponse{}, err
	}

	// Authority before payload: a non-host is told about the gate, not the
	// descriptor.
	sender, err := room.MemberById(params.SenderId)
	if err != nil {
		return SetVideoResponse{}, err
	}
	if !sender.IsHost {
		return SetVideoResponse{}, domain.ErrNotHost
	}

	video, err := normalizeVideo(params)
	if err != nil {
		return SetVideoResponse{}, err
	}

	playback, err := room.SetVideo(params.SenderId, video, s.now())
	if err != nil {
		return SetVideoResponse{}, err
	}

	s.logger.InfoContext(ctx, "video set",
		"roomCode", room.Code,
		"kind", video.Kind,
	)

	return SetVideoResponse{
		Video:  video,
		Player: playerStateFromDomain(playback),
		Conns:  s.connsForMembers(room.Members()),
	}, nil
}

type PlayerActionParams struct {
	SenderId    string
	Action      string
	CurrentTime *float64
}

type PlayerActionResponse struct {
	// Sync is nil when no video is set and there was nothing to track.
	Sync  *SyncEvent
	Conns []*websocket.Conn
}

// ApplyPlayerAction records any member's play/pause/seek report and relays
// it to the other members as an advisory sync. This path is deliberately
// permissive; host-forced realignment is RequestSyncAll.
func (s *service) ApplyPlayerAction(ctx context.Context, params *PlayerActionParams) (PlayerActionResponse, error) {
	room, err := s.roomForSender(params.SenderId)
	if err != nil {
		return PlayerActionResponse{}, err
	}

	action := domain.PlaybackAction(params.Action)
	if !action.Valid() {
		return PlayerActionResponse{}, domain.ErrInvalidPayload
	}

	state, applied := room.ApplyPlayback(action, params.CurrentTime, s.now())
	if !applied {
		return PlayerActionResponse{}, nil
	}

	return PlayerActionResponse{
		Sync: &SyncEvent{
			Action:      params.Action,
			CurrentTime: state.CurrentTime,
			IsPlaying:   state.IsPlaying,
			Timestamp:   state.UpdatedAt.UnixMilli(),
		},
		Conns: s.connsForMembers(room.Members(), params.SenderId),
	}, nil
}

type SyncAllParams struct {
	SenderId    string
	Action      string
	CurrentTime *float64
}

type SyncAllResponse struct {
	Sync  SyncEvent
	Conns []*websocket.Conn
}

// RequestSyncAll is the host-gated realignment broadcast, tagged with the
// host's name so viewers can see who forced the sync.
func (s *service) RequestSyncAll(ctx context.Context, params *SyncAllParams) (SyncAllResponse, error) {
	room, err := s.roomForSender(params.SenderId)
	if err != nil {
		return SyncAllResponse{}, err
	}

	sender, err := room.MemberById(params.SenderId)
	if err != nil {
		return SyncAllResponse{}, err
	}

	action := domain.PlaybackAction(params.Action)
	if !action.Valid() {
		return SyncAllResponse{}, domain.ErrInvalidPayload
	}

	state, err := room.SyncPlayback(params.SenderId, action, params.CurrentTime, s.now())
	if err != nil {
		return SyncAllResponse{}, err
	}

	s.logger.InfoContext(ctx, "host synced playback",
		"roomCode", room.Code,
		"syncedBy", sender.Username,
		"action", params.Action,
	)

	return SyncAllResponse{
		Sync: SyncEvent{
			Action:      params.Action,
			CurrentTime: state.CurrentTime,
			IsPlaying:   state.IsPlaying,
			Timestamp:   state.UpdatedAt.UnixMilli(),
			SyncedBy:    sender.Username,
		},
		Conns: s.connsForMembers(room.Members(), params.SenderId),
	}, nil
}

// CatchUpSync re-derives the late-joiner catch-up from current room state.
// Called at timer-fire time, never from a snapshot taken at schedule time.
func (s *service) CatchUpSync(ctx context.Context, roomCode string) (SyncEvent, bool) {
	room, err := s.roomRepo.GetRoom(roomCode)
	if err != nil {
		return SyncEvent{}, false
	}

	now := s.now()
	action, position, ok := room.CatchUp(now)
	if !ok {
		return SyncEvent{}, false
	}

	return SyncEvent{
		Action:      string(action),
		CurrentTime: position,
		IsPlaying:   action == domain.ActionPlay,
		Timestamp:   now.UnixMilli(),
	}, true
}
