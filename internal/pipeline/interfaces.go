package pipeline

import (
	"context"

	"github.com/katube/audio-archiver/internal/objstore"
	"github.com/katube/audio-archiver/internal/source"
)

// VideoSource resolves a URL to basic metadata and a local audio file.
type VideoSource interface {
	Info(ctx context.Context, url string) (*source.VideoInfo, error)
	Download(ctx context.Context, url, destDir, customName string) (string, error)
}

// ChannelEnumerator lists the video URLs of a channel or playlist in order.
type ChannelEnumerator interface {
	Enumerate(ctx context.Context, channelURL string) ([]string, error)
}

// ObjectStore durably stores local files under remote keys.
type ObjectStore interface {
	Available(ctx context.Context) bool
	Upload(ctx context.Context, localPath, key string, metadata map[string]string) (*objstore.UploadResult, error)
}
