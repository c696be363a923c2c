package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrNameTaken      = errors.New("username already taken")
	ErrNotHost        = errors.New("only host can perform this action")
	ErrMemberNotFound = errors.New("member not found")
	ErrAlreadyJoined  = errors.New("connection already joined a room")
	ErrInvalidVideo   = errors.New("invalid video data")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrEmptyMessage   = errors.New("message is empty")
)

// JoinRejectedError carries the room context a rejected joiner is shown
// (current usernames, room size) next to the rejection reason.
type JoinRejectedError struct {
	Reason    error
	RoomCode  string
	Usernames []string
}

func (e *JoinRejectedError) Error() string {
	return fmt.Sprintf("join room %s rejected: %s", e.RoomCode, e.Reason)
}

func (e *JoinRejectedError) Unwrap() error {
	return e.Reason
}
