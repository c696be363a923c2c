package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/service/room"
)

type SetVideoInput struct {
	Type     string  `json:"type"`
	Url      string  `json:"url"`
	VideoId  string  `json:"videoId"`
	Filename string  `json:"filename"`
	Duration float64 `json:"duration"`
	// VideoUrl is the legacy URL-only payload shape.
	VideoUrl string `json:"videoUrl"`
}

func (c controller) handleSetVideo(ctx context.Context, conn *websocket.Conn, input SetVideoInput) error {
	url := input.Url
	if url == "" {
		url = input.VideoUrl
	}

	setVideoResponse, err := c.roomService.SetVideo(ctx, &room.SetVideoParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
		Kind:     input.Type,
		URL:      url,
		VideoId:  input.VideoId,
		Filename: input.Filename,
		Duration: input.Duration,
	})
	if err != nil {
		return fmt.Errorf("failed to set video: %w", err)
	}

	c.broadcast(ctx, setVideoResponse.Conns, &Output{
		Type: "video-set",
		Payload: map[string]any{
			"video":      setVideoResponse.Video,
			"videoState": setVideoResponse.Player,
		},
	})

	return nil
}

type VideoActionInput struct {
	Action      string   `json:"action"`
	CurrentTime *float64 `json:"currentTime"`
}

func (c controller) handleVideoAction(ctx context.Context, conn *websocket.Conn, input VideoActionInput) error {
	playerActionResponse, err := c.roomService.ApplyPlayerAction(ctx, &room.PlayerActionParams{
		SenderId:    c.getConnectionIdFromCtx(ctx),
		Action:      input.Action,
		CurrentTime: input.CurrentTime,
	})
	if err != nil {
		return fmt.Errorf("failed to apply video action: %w", err)
	}

	if playerActionResponse.Sync == nil {
		return nil
	}

	c.broadcast(ctx, playerActionResponse.Conns, &Output{
		Type:    "video-sync",
		Payload: playerActionResponse.Sync,
	})

	return nil
}

func (c controller) handleVideoSyncRequest(ctx context.Context, conn *websocket.Conn, input VideoActionInput) error {
	syncAllResponse, err := c.roomService.RequestSyncAll(ctx, &room.SyncAllParams{
		SenderId:    c.getConnectionIdFromCtx(ctx),
		Action:      input.Action,
		CurrentTime: input.CurrentTime,
	})
	if err != nil {
		// Sync failures get a dedicated frame so the host UI can show why
		// the forced sync did not go through.
		c.writeToConn(ctx, conn, &Output{
			Type: "sync-error",
			Payload: map[string]any{
				"message": err.Error(),
			},
		})
		return nil
	}

	c.broadcast(ctx, syncAllResponse.Conns, &Output{
		Type:    "video-sync",
		Payload: syncAllResponse.Sync,
	})
	c.writeToConn(ctx, conn, &Output{
		Type: "sync-success",
		Payload: map[string]any{
			"message": "Sync sent to all users",
		},
	})

	return nil
}
