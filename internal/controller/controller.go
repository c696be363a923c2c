package controller

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/watchtogether/server/internal/service/room"
	"github.com/watchtogether/server/pkg/validator"
	"github.com/watchtogether/server/pkg/wsrouter"
)

type iRoomService interface {
	CreateRoom(context.Context) (room.CreateRoomResponse, error)
	GetRoomInfo(context.Context, string) (room.RoomInfo, error)
	DebugRooms(context.Context) []room.RoomDebugInfo
	RegisterConnection(context.Context, *websocket.Conn) (string, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	DisconnectMember(context.Context, *room.DisconnectMemberParams) (room.DisconnectMemberResponse, error)
	TransferHost(context.Context, *room.TransferHostParams) (room.TransferHostResponse, error)
	SetVideo(context.Context, *room.SetVideoParams) (room.SetVideoResponse, error)
	ApplyPlayerAction(context.Context, *room.PlayerActionParams) (room.PlayerActionResponse, error)
	RequestSyncAll(context.Context, *room.SyncAllParams) (room.SyncAllResponse, error)
	CatchUpSync(context.Context, string) (room.SyncEvent, bool)
	CatchUpDelay() time.Duration
	SendMessage(context.Context, *room.SendMessageParams) (room.SendMessageResponse, error)
	SendReaction(context.Context, *room.SendReactionParams) (room.SendReactionResponse, error)
	SetTyping(context.Context, *room.SetTypingParams) (room.SetTypingResponse, error)
	StartVoice(context.Context, *room.StartVoiceParams) (room.StartVoiceResponse, error)
	JoinVoice(context.Context, *room.JoinVoiceParams) (room.JoinVoiceResponse, error)
	LeaveVoice(context.Context, *room.LeaveVoiceParams) (room.LeaveVoiceResponse, error)
	MuteStatus(context.Context, *room.MuteStatusParams) (room.MuteStatusResponse, error)
	ResolveRelayTarget(context.Context, *room.RelayTargetParams) (room.RelayTargetResponse, error)
	RoomPeers(context.Context, string) (room.RoomPeersResponse, error)
}

type controller struct {
	roomService iRoomService
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
	wsmux       *wsrouter.WSRouter
}

func NewController(roomService iRoomService, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		validate:    validator.NewValidator(),
		logger:      logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}

func (c controller) generateTimeBasedId() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}
