package domain

import (
	"fmt"
	"math/rand/v2"
)

const (
	MinUsernameLength = 1
	MaxUsernameLength = 20
)

type Member struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Color    string `json:"color"`
	IsHost   bool   `json:"isHost"`

	isTyping bool
}

// colorPalette holds maximally distinct colors handed out by join order, so
// the first members of a room are always easy to tell apart.
var colorPalette = []string{
	"#FF6B6B", // red
	"#4ECDC4", // teal
	"#45B7D1", // blue
	"#96CEB4", // green
	"#FFEAA7", // yellow
	"#DDA0DD", // plum
	"#98D8C8", // mint
	"#F7DC6F", // light yellow
	"#BB8FCE", // light purple
	"#85C1E9", // light blue
	"#F8C471", // orange
	"#82E0AA", // light green
}

func colorForJoinIndex(index int) string {
	if index < len(colorPalette) {
		return colorPalette[index]
	}

	return fmt.Sprintf("hsl(%d, 75%%, 60%%)", rand.IntN(360))
}
