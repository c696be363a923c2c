package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/watchtogether/server/internal/domain"
	"github.com/watchtogether/server/pkg/rest"
)

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	createRoomResponse, err := c.roomService.CreateRoom(r.Context())
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to create room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{
			"error":   "Failed to create room",
			"details": err.Error(),
		})
		return
	}

	rest.WriteJSON(w, http.StatusOK, createRoomResponse)
}

func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "room-code")

	roomInfo, err := c.roomService.GetRoomInfo(r.Context(), roomCode)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "Room not found"})
			return
		}

		c.logger.ErrorContext(r.Context(), "failed to get room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, roomInfo)
}

func (c controller) test(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"status":    "Server is running",
		"timestamp": time.Now().UnixMilli(),
	})
}

func (c controller) debugRooms(w http.ResponseWriter, r *http.Request) {
	rooms := c.roomService.DebugRooms(r.Context())

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"totalRooms": len(rooms),
		"rooms":      rooms,
		"timestamp":  time.Now().UnixMilli(),
	})
}
