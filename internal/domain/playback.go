package domain

import "time"

type PlaybackAction string

const (
	ActionPlay  PlaybackAction = "play"
	ActionPause PlaybackAction = "pause"
	ActionSeek  PlaybackAction = "seek"
)

func (a PlaybackAction) Valid() bool {
	return a == ActionPlay || a == ActionPause || a == ActionSeek
}

// PlaybackState is a logical clock: CurrentTime is authoritative only as of
// UpdatedAt, and the live position must be extrapolated from wall time while
// playing.
type PlaybackState struct {
	IsPlaying   bool
	CurrentTime float64
	UpdatedAt   time.Time
}

func NewPlaybackState(now time.Time) PlaybackState {
	return PlaybackState{
		IsPlaying:   false,
		CurrentTime: 0,
		UpdatedAt:   now,
	}
}

// apply advances the logical clock. A nil currentTime keeps the stored
// position (play/pause without a position report); seek never changes the
// play/pause flag.
func (p *PlaybackState) apply(action PlaybackAction, currentTime *float64, now time.Time) {
	if currentTime != nil {
		p.CurrentTime = *currentTime
	}
	p.UpdatedAt = now

	switch action {
	case ActionPlay:
		p.IsPlaying = true
	case ActionPause:
		p.IsPlaying = false
	case ActionSeek:
	}
}

// PositionAt returns the extrapolated position at now.
func (p PlaybackState) PositionAt(now time.Time) float64 {
	if !p.IsPlaying {
		return p.CurrentTime
	}

	return p.CurrentTime + now.Sub(p.UpdatedAt).Seconds()
}
