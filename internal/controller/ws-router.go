package controller

import (
	"github.com/watchtogether/server/pkg/wsrouter"
)

type EmptyInput struct{}

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.wsRequestIdMw())
	mux.Use(c.loggerWSMw())
	mux.OnError(c.handleWSError)

	// room
	wsrouter.Handle(mux, "join-room", c.handleJoinRoom)
	wsrouter.Handle(mux, "transfer-host", c.handleTransferHost)

	// player
	wsrouter.Handle(mux, "set-video", c.handleSetVideo)
	wsrouter.Handle(mux, "video-action", c.handleVideoAction)
	wsrouter.Handle(mux, "video-sync-request", c.handleVideoSyncRequest)

	// chat
	wsrouter.Handle(mux, "send-message", c.handleSendMessage)
	wsrouter.Handle(mux, "send-reaction", c.handleSendReaction)
	wsrouter.Handle(mux, "typing-start", c.handleTypingStart)
	wsrouter.Handle(mux, "typing-stop", c.handleTypingStop)

	// voice chat
	wsrouter.Handle(mux, "start-voice-chat", c.handleStartVoiceChat)
	wsrouter.Handle(mux, "join-voice-chat", c.handleJoinVoiceChat)
	wsrouter.Handle(mux, "leave-voice-chat", c.handleLeaveVoiceChat)
	wsrouter.Handle(mux, "voice-chat-mute-status", c.handleMuteStatus)

	// signaling relays
	wsrouter.Handle(mux, "voice-offer", c.handleRelayToTarget)
	wsrouter.Handle(mux, "voice-answer", c.handleRelayToTarget)
	wsrouter.Handle(mux, "voice-ice-candidate", c.handleRelayToTarget)
	wsrouter.Handle(mux, "request-screen-share-webrtc", c.handleRelayToTarget)
	wsrouter.Handle(mux, "webrtc-offer", c.handleRelayToTarget)
	wsrouter.Handle(mux, "webrtc-answer", c.handleRelayToTarget)
	wsrouter.Handle(mux, "webrtc-ice-candidate", c.handleRelayToTarget)
	wsrouter.Handle(mux, "screen-share-started", c.handleRelayToRoom)
	wsrouter.Handle(mux, "screen-share-stopped", c.handleRelayToRoom)

	return mux
}
