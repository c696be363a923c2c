// Package inmemory holds the process-wide room registry. State is
// deliberately process-local: rooms live and die with the server.
package inmemory

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/watchtogether/server/internal/domain"
	"github.com/watchtogether/server/pkg/roomcode"
)

// createRetryLimit bounds code-collision retries; the code space makes
// exhausting it a configuration-level failure, not something to retry
// forever.
const createRetryLimit = 10

var ErrCodeSpaceExhausted = errors.New("failed to generate unique room code")

type repo struct {
	membersLimit int
	codes        *roomcode.Generator

	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

func NewRepo(membersLimit int) *repo {
	return &repo{
		membersLimit: membersLimit,
		codes:        roomcode.NewGenerator(),
		rooms:        make(map[string]*domain.Room),
	}
}

func (r *repo) CreateRoom() (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < createRetryLimit; attempt++ {
		code := r.codes.Generate()
		if _, taken := r.rooms[code]; taken {
			continue
		}

		room := domain.NewRoom(code, r.membersLimit, time.Now())
		r.rooms[code] = room

		return room, nil
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, createRetryLimit)
}

func (r *repo) GetRoom(code string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[code]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return room, nil
}

// DeleteRoomIfEmpty reclaims the room only if it is still empty at call
// time. A sweep timer armed when the room emptied must re-check here: a
// rejoin within the grace window makes the fired sweep a no-op.
func (r *repo) DeleteRoomIfEmpty(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return false
	}

	if room.UserCount() > 0 {
		return false
	}

	delete(r.rooms, code)

	return true
}

func (r *repo) Rooms() []*domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}

	return rooms
}

func (r *repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}
