package domain

const fallbackInitiatorColor = "#4ECDC4"

type VoiceStartResult struct {
	// Started is false when a session was already active and the call was
	// treated as a join instead.
	Started        bool
	Initiator      string
	InitiatorColor string
	Members        []VoiceMember
	Join           VoiceJoinResult
}

type VoiceJoinResult struct {
	Joined    bool
	Member    VoiceMember
	Initiator string
	// Existing lists the members that were already in the session before
	// this join, so the joiner can open peer signaling toward each of them.
	Existing []VoiceMember
	Members  []VoiceMember
}

type VoiceLeaveResult struct {
	Removed bool
	Left    VoiceMember
	Ended   bool
	Members []VoiceMember
}

type VoiceStatus struct {
	Initiator      string
	InitiatorColor string
	Members        []VoiceMember
}

// StartVoice opens the room's voice session with the sender as initiator.
// Starting while a session is already active joins it instead; the initiator
// concept is attribution only, not exclusive control.
func (r *Room) StartVoice(senderId string) (VoiceStartResult, error) {
	r.mu.Lock()

	m, _ := r.memberById(senderId)
	if m == nil {
		r.mu.Unlock()
		return VoiceStartResult{}, ErrMemberNotFound
	}

	if r.voice != nil {
		r.mu.Unlock()
		join, err := r.JoinVoice(senderId)
		if err != nil {
			return VoiceStartResult{}, err
		}

		return VoiceStartResult{Join: join}, nil
	}

	defer r.mu.Unlock()

	r.voice = &VoiceSession{
		Initiator:   m.Username,
		InitiatorId: m.Id,
		Members:     []VoiceMember{{Id: m.Id, Username: m.Username}},
	}

	return VoiceStartResult{
		Started:        true,
		Initiator:      m.Username,
		InitiatorColor: m.Color,
		Members:        r.voice.membersCopy(),
	}, nil
}

// JoinVoice adds the sender to the active session. With no active session or
// when already in it, the call is a no-op (Joined=false).
func (r *Room) JoinVoice(senderId string) (VoiceJoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, _ := r.memberById(senderId)
	if m == nil {
		return VoiceJoinResult{}, ErrMemberNotFound
	}

	if r.voice == nil || r.voice.hasMember(senderId) {
		return VoiceJoinResult{}, nil
	}

	existing := r.voice.membersCopy()
	member := VoiceMember{Id: m.Id, Username: m.Username}
	r.voice.Members = append(r.voice.Members, member)

	return VoiceJoinResult{
		Joined:    true,
		Member:    member,
		Initiator: r.voice.Initiator,
		Existing:  existing,
		Members:   r.voice.membersCopy(),
	}, nil
}

// LeaveVoice removes the sender from the active session; the session is
// cleared entirely when its last member leaves, never left present-but-empty.
func (r *Room) LeaveVoice(senderId string) VoiceLeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.voice == nil {
		return VoiceLeaveResult{}
	}

	left, ok := r.voice.removeMember(senderId)
	if !ok {
		return VoiceLeaveResult{}
	}

	if len(r.voice.Members) == 0 {
		r.voice = nil
		return VoiceLeaveResult{Removed: true, Left: left, Ended: true}
	}

	return VoiceLeaveResult{
		Removed: true,
		Left:    left,
		Members: r.voice.membersCopy(),
	}
}

// VoiceState reports the active session for late-joiner notifications.
func (r *Room) VoiceState() (VoiceStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.voice == nil {
		return VoiceStatus{}, false
	}

	color := fallbackInitiatorColor
	if initiator, _ := r.memberById(r.voice.InitiatorId); initiator != nil {
		color = initiator.Color
	}

	return VoiceStatus{
		Initiator:      r.voice.Initiator,
		InitiatorColor: color,
		Members:        r.voice.membersCopy(),
	}, true
}
