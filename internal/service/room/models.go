package room

import "github.com/watchtogether/server/internal/domain"

type Member struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Color    string `json:"color"`
	IsHost   bool   `json:"isHost"`
}

// PlayerState mirrors domain.PlaybackState on the wire: lastUpdate is a
// unix-millisecond wall-clock timestamp.
type PlayerState struct {
	IsPlaying   bool    `json:"isPlaying"`
	CurrentTime float64 `json:"currentTime"`
	LastUpdate  int64   `json:"lastUpdate"`
}

// RoomState is the full snapshot sent to a joining member.
type RoomState struct {
	RoomCode   string               `json:"roomCode"`
	Users      []Member             `json:"users"`
	Video      *domain.Video        `json:"video"`
	VideoState PlayerState          `json:"videoState"`
	Messages   []domain.ChatMessage `json:"messages"`
	IsHost     bool                 `json:"isHost"`
}

// SyncEvent realigns a viewer's player. SyncedBy is set only for host-forced
// sync-all events.
type SyncEvent struct {
	Action      string  `json:"action"`
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
	Timestamp   int64   `json:"timestamp"`
	SyncedBy    string  `json:"syncedBy,omitempty"`
}

type Reaction struct {
	Id        string  `json:"id"`
	Username  string  `json:"username"`
	Emoji     string  `json:"emoji"`
	Timestamp int64   `json:"timestamp"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// VoiceNotice invites a member to an already-active voice session.
type VoiceNotice struct {
	Initiator      string   `json:"initiator"`
	InitiatorColor string   `json:"initiatorColor"`
	Message        string   `json:"message"`
	Members        []string `json:"members"`
}

func memberFromDomain(m domain.Member) Member {
	return Member{
		Id:       m.Id,
		Username: m.Username,
		Color:    m.Color,
		IsHost:   m.IsHost,
	}
}

func membersFromDomain(members []domain.Member) []Member {
	list := make([]Member, 0, len(members))
	for _, m := range members {
		list = append(list, memberFromDomain(m))
	}

	return list
}

func playerStateFromDomain(p domain.PlaybackState) PlayerState {
	return PlayerState{
		IsPlaying:   p.IsPlaying,
		CurrentTime: p.CurrentTime,
		LastUpdate:  p.UpdatedAt.UnixMilli(),
	}
}

func voiceMemberNames(members []domain.VoiceMember) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Username)
	}

	return names
}
