package pipeline

import "strings"

var channelURLPatterns = []string{"/channel/", "/c/", "/user/", "/@", "/playlist?"}

// IsChannelURL reports whether the URL points at a channel or playlist.
// Checked before the single-video pattern: a watch URL carrying a playlist
// parameter is treated as a channel run.
func IsChannelURL(url string) bool {
	lowered := strings.ToLower(url)
	for _, pattern := range channelURLPatterns {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}

// IsVideoURL reports whether the URL points at a single video.
func IsVideoURL(url string) bool {
	lowered := strings.ToLower(url)
	return strings.Contains(lowered, "youtube.com/watch") || strings.Contains(lowered, "youtu.be/")
}

// DisplayVideoID extracts a short id for status messages. Falls back to the
// URL tail when the watch parameter is absent.
func DisplayVideoID(url string) string {
	if idx := strings.Index(url, "watch?v="); idx >= 0 {
		id := url[idx+len("watch?v="):]
		if amp := strings.IndexByte(id, '&'); amp >= 0 {
			id = id[:amp]
		}
		return id
	}
	if len(url) > 11 {
		return url[len(url)-11:]
	}
	return url
}
