// Package ytvideoid extracts the 11-character video id from the usual
// YouTube URL shapes (watch, embed, short youtu.be links).
package ytvideoid

import (
	"errors"
	"regexp"
)

var ErrNoVideoId = errors.New("no video id found in url")

var videoIdRegexp = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

func Extract(url string) (string, error) {
	match := videoIdRegexp.FindStringSubmatch(url)
	if match == nil {
		return "", ErrNoVideoId
	}

	return match[1], nil
}
