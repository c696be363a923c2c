package domain

type VideoKind string

const (
	VideoKindYouTube     VideoKind = "youtube"
	VideoKindLocal       VideoKind = "local"
	VideoKindHLS         VideoKind = "hls"
	VideoKindDirect      VideoKind = "direct"
	VideoKindVimeo       VideoKind = "vimeo"
	VideoKindDailymotion VideoKind = "dailymotion"
	VideoKindTwitch      VideoKind = "twitch"
	VideoKindFacebook    VideoKind = "facebook"
	VideoKindInstagram   VideoKind = "instagram"
	VideoKindTikTok      VideoKind = "tiktok"
	VideoKindEmbed       VideoKind = "embed"
	VideoKindDash        VideoKind = "dash"
	VideoKindGeneric     VideoKind = "generic"
)

func (k VideoKind) Valid() bool {
	switch k {
	case VideoKindYouTube, VideoKindLocal, VideoKindHLS, VideoKindDirect,
		VideoKindVimeo, VideoKindDailymotion, VideoKindTwitch, VideoKindFacebook,
		VideoKindInstagram, VideoKindTikTok, VideoKindEmbed, VideoKindDash,
		VideoKindGeneric:
		return true
	}

	return false
}

// Video describes the currently shared video. Only the fields relevant to
// its kind are set: VideoId for youtube, Filename/Duration for local files.
type Video struct {
	Kind     VideoKind `json:"type"`
	URL      string    `json:"url,omitempty"`
	VideoId  string    `json:"videoId,omitempty"`
	Filename string    `json:"filename,omitempty"`
	Duration float64   `json:"duration,omitempty"`
}
