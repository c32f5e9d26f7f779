package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katube/audio-archiver/internal/pipeline"
)

func TestURLClassification(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		channel bool
		video   bool
	}{
		{"channel id", "https://www.youtube.com/channel/UCabc123", true, false},
		{"legacy custom", "https://www.youtube.com/c/SomeCreator", true, false},
		{"legacy user", "https://www.youtube.com/user/somecreator", true, false},
		{"handle", "https://www.youtube.com/@somecreator", true, false},
		{"playlist", "https://www.youtube.com/playlist?list=PLabc", true, false},
		{"uppercase channel", "https://www.youtube.com/CHANNEL/UCabc123", true, false},
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", false, true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", false, true},
		{"watch with list param", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLabc", false, true},
		{"unrelated", "https://example.com/video", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.channel, pipeline.IsChannelURL(tt.url))
			assert.Equal(t, tt.video, pipeline.IsVideoURL(tt.url))
		})
	}
}

func TestDisplayVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch param", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch param with extras", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"short link tail", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url unchanged", "short", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pipeline.DisplayVideoID(tt.url))
		})
	}
}
