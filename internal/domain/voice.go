package domain

type VoiceMember struct {
	Id       string `json:"socketId"`
	Username string `json:"username"`
}

// VoiceSession exists only while at least one member participates; a room
// never holds a present-but-empty session.
type VoiceSession struct {
	Initiator   string
	InitiatorId string
	Members     []VoiceMember
}

func (v *VoiceSession) hasMember(id string) bool {
	for _, m := range v.Members {
		if m.Id == id {
			return true
		}
	}

	return false
}

func (v *VoiceSession) removeMember(id string) (VoiceMember, bool) {
	for i, m := range v.Members {
		if m.Id == id {
			v.Members = append(v.Members[:i], v.Members[i+1:]...)
			return m, true
		}
	}

	return VoiceMember{}, false
}

func (v *VoiceSession) usernames() []string {
	names := make([]string, 0, len(v.Members))
	for _, m := range v.Members {
		names = append(names, m.Username)
	}

	return names
}

func (v *VoiceSession) membersCopy() []VoiceMember {
	members := make([]VoiceMember, len(v.Members))
	copy(members, v.Members)

	return members
}
