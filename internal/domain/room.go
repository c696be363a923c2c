package domain

import (
	"strings"
	"sync"
	"time"
)

const DefaultMembersLimit = 6

// Room is the authoritative state of one watch session. Every method takes
// the room lock and runs to completion, so concurrent handlers for the same
// room never observe a partial mutation, and rooms never contend with each
// other.
type Room struct {
	Code string

	mu           sync.Mutex
	membersLimit int
	members      []*Member
	hostId       string
	video        *Video
	playback     PlaybackState
	messages     []ChatMessage
	voice        *VoiceSession
	emptySince   *time.Time
}

func NewRoom(code string, membersLimit int, now time.Time) *Room {
	if membersLimit <= 0 {
		membersLimit = DefaultMembersLimit
	}

	return &Room{
		Code:         code,
		membersLimit: membersLimit,
		playback:     NewPlaybackState(now),
	}
}

// memberById must be called with the lock held.
func (r *Room) memberById(id string) (*Member, int) {
	for i, m := range r.members {
		if m.Id == id {
			return m, i
		}
	}

	return nil, -1
}

func (r *Room) usernames() []string {
	names := make([]string, 0, len(r.members))
	for _, m := range r.members {
		names = append(names, m.Username)
	}

	return names
}

func (r *Room) membersCopy() []Member {
	members := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		members = append(members, *m)
	}

	return members
}

func (r *Room) Members() []Member {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.membersCopy()
}

func (r *Room) MemberById(id string) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, _ := r.memberById(id)
	if m == nil {
		return Member{}, ErrMemberNotFound
	}

	return *m, nil
}

func (r *Room) UserCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.members)
}

func (r *Room) HasVideo() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.video != nil
}

func (r *Room) EmptySince() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emptySince == nil {
		return time.Time{}, false
	}

	return *r.emptySince, true
}

type JoinResult struct {
	Member     Member
	BecameHost bool
	Members    []Member
}

// Join admits a new member. Validation order: capacity, then username
// uniqueness (the room's existence was already checked by the registry
// lookup). The first member becomes host automatically.
func (r *Room) Join(id, username string, now time.Time) (JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.members) >= r.membersLimit {
		return JoinResult{}, &JoinRejectedError{
			Reason:    ErrRoomFull,
			RoomCode:  r.Code,
			Usernames: r.usernames(),
		}
	}

	for _, m := range r.members {
		if m.Username == username {
			return JoinResult{}, &JoinRejectedError{
				Reason:    ErrNameTaken,
				RoomCode:  r.Code,
				Usernames: r.usernames(),
			}
		}
	}

	member := &Member{
		Id:       id,
		Username: username,
		Color:    colorForJoinIndex(len(r.members)),
	}

	becameHost := r.hostId == ""
	if becameHost {
		r.hostId = id
		member.IsHost = true
	}

	r.members = append(r.members, member)
	r.emptySince = nil

	return JoinResult{
		Member:     *member,
		BecameHost: becameHost,
		Members:    r.membersCopy(),
	}, nil
}

type LeaveResult struct {
	Left    Member
	NewHost *Member
	Emptied bool
	Members []Member
}

// Leave removes a member. When the host leaves and members remain, the
// earliest-joined remaining member becomes host. When the room empties, the
// empty-since mark is set so a later sweep can reclaim it.
func (r *Room) Leave(id string, now time.Time) (LeaveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, i := r.memberById(id)
	if m == nil {
		return LeaveResult{}, ErrMemberNotFound
	}

	left := *m
	r.members = append(r.members[:i], r.members[i+1:]...)

	result := LeaveResult{Left: left}

	if len(r.members) == 0 {
		r.hostId = ""
		r.emptySince = &now
		result.Emptied = true
		return result, nil
	}

	if r.hostId == id {
		r.hostId = r.members[0].Id
		r.members[0].IsHost = true
		newHost := *r.members[0]
		result.NewHost = &newHost
	}

	result.Members = r.membersCopy()

	return result, nil
}

type TransferHostResult struct {
	OldHost Member
	NewHost Member
	Members []Member
}

func (r *Room) TransferHost(senderId, targetUsername string) (TransferHostResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostId != senderId {
		return TransferHostResult{}, ErrNotHost
	}

	var target *Member
	for _, m := range r.members {
		if m.Username == targetUsername {
			target = m
			break
		}
	}
	if target == nil {
		return TransferHostResult{}, ErrMemberNotFound
	}

	oldHost, _ := r.memberById(senderId)
	oldHost.IsHost = false
	target.IsHost = true
	r.hostId = target.Id

	return TransferHostResult{
		OldHost: *oldHost,
		NewHost: *target,
		Members: r.membersCopy(),
	}, nil
}

// SetVideo replaces the shared video and hard-resets playback: switching
// videos always lands paused at position zero.
func (r *Room) SetVideo(senderId string, video Video, now time.Time) (PlaybackState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostId != senderId {
		return PlaybackState{}, ErrNotHost
	}

	v := video
	r.video = &v
	r.playback = NewPlaybackState(now)

	return r.playback, nil
}

func (r *Room) Video() *Video {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.video == nil {
		return nil
	}

	v := *r.video
	return &v
}

func (r *Room) Playback() PlaybackState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.playback
}

// ApplyPlayback advances the playback clock for any member's action report.
// With no video set there is nothing to track and the report is ignored,
// keeping the no-video/paused/zero invariant intact.
func (r *Room) ApplyPlayback(action PlaybackAction, currentTime *float64, now time.Time) (PlaybackState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.video == nil {
		return r.playback, false
	}

	r.playback.apply(action, currentTime, now)

	return r.playback, true
}

// SyncPlayback is the host-gated variant of ApplyPlayback used to forcibly
// realign every viewer.
func (r *Room) SyncPlayback(senderId string, action PlaybackAction, currentTime *float64, now time.Time) (PlaybackState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostId != senderId {
		return PlaybackState{}, ErrNotHost
	}
	if r.video == nil {
		return PlaybackState{}, ErrInvalidVideo
	}

	r.playback.apply(action, currentTime, now)

	return r.playback, nil
}

// CatchUp returns the play/pause action and extrapolated position a late
// joiner needs to align its player. ok is false while no video is set.
func (r *Room) CatchUp(now time.Time) (PlaybackAction, float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.video == nil {
		return "", 0, false
	}

	action := ActionPause
	if r.playback.IsPlaying {
		action = ActionPlay
	}

	return action, r.playback.PositionAt(now), true
}

// appendMessage must be called with the lock held.
func (r *Room) appendMessage(msg ChatMessage) {
	r.messages = append(r.messages, msg)
	if len(r.messages) > ChatHistoryLimit {
		r.messages = r.messages[len(r.messages)-ChatHistoryLimit:]
	}
}

// AppendUserMessage stores a chat message authored by the given member,
// stamped with the member's display color. Whitespace-only bodies are
// rejected.
func (r *Room) AppendUserMessage(senderId, id, body string, now time.Time) (ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, _ := r.memberById(senderId)
	if m == nil {
		return ChatMessage{}, ErrMemberNotFound
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return ChatMessage{}, ErrEmptyMessage
	}

	msg := ChatMessage{
		Id:        id,
		Username:  m.Username,
		Message:   body,
		Color:     m.Color,
		Timestamp: now,
	}
	r.appendMessage(msg)

	return msg, nil
}

// AppendSystemMessage stores a server-synthesized message (join/leave/host
// change/voice events) with a short icon hint.
func (r *Room) AppendSystemMessage(id, text, icon string, now time.Time) ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := ChatMessage{
		Id:        id,
		Kind:      MessageKindSystem,
		Message:   text,
		Icon:      icon,
		Timestamp: now,
	}
	r.appendMessage(msg)

	return msg
}

func (r *Room) RecentMessages(n int) []ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := 0
	if len(r.messages) > n {
		start = len(r.messages) - n
	}

	messages := make([]ChatMessage, len(r.messages)-start)
	copy(messages, r.messages[start:])

	return messages
}

// SetTyping records the member's typing state and reports whether it
// changed, so unchanged reports are not re-broadcast.
func (r *Room) SetTyping(senderId string, isTyping bool) (Member, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, _ := r.memberById(senderId)
	if m == nil {
		return Member{}, false, ErrMemberNotFound
	}

	changed := m.isTyping != isTyping
	m.isTyping = isTyping

	return *m, changed, nil
}
