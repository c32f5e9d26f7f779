package source

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"
)

const youtubeWatchURLTemplate = "https://www.youtube.com/watch?v=%s"

// VideoInfo is the basic metadata resolved for one video.
type VideoInfo struct {
	ID              string
	Title           string
	DurationSeconds int
}

// Client resolves, downloads and enumerates YouTube content through the
// yt-dlp binary. Every failure is returned as a single opaque error.
type Client struct{}

func NewClient() *Client {
	return &Client{}
}

// Info resolves id, title and duration for a video URL without downloading.
func (c *Client) Info(ctx context.Context, url string) (*VideoInfo, error) {
	dl := ytdlp.New().
		SkipDownload().
		DumpJSON()

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("resolving video info for %s: %w", url, err)
	}

	entries, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("parsing video info for %s: %w", url, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no video info returned for %s", url)
	}

	info := &VideoInfo{ID: entries[0].ID}
	if entries[0].Title != nil {
		info.Title = *entries[0].Title
	}
	if entries[0].Duration != nil {
		info.DurationSeconds = int(*entries[0].Duration)
	}
	return info, nil
}

// Download fetches the audio track of a video into destDir as FLAC and
// returns the path of the produced file. customName, when set, overrides the
// title-derived file name.
func (c *Client) Download(ctx context.Context, url, destDir, customName string) (string, error) {
	outputTemplate := filepath.Join(destDir, "%(title)s.%(ext)s")
	if customName != "" {
		outputTemplate = filepath.Join(destDir, customName+".%(ext)s")
	}

	dl := ytdlp.New().
		ExtractAudio().
		AudioFormat("flac").
		RestrictFilenames().
		ForceOverwrites().
		Output(outputTemplate)

	result, err := dl.Run(ctx, url)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}

	entries, err := result.GetExtractedInfo()
	if err != nil {
		return "", fmt.Errorf("reading download result for %s: %w", url, err)
	}
	for _, entry := range entries {
		if entry.Filename != nil && *entry.Filename != "" {
			// yt-dlp reports the pre-conversion name; the audio extractor
			// replaces the extension with the requested format.
			name := *entry.Filename
			path := name[:len(name)-len(filepath.Ext(name))] + ".flac"
			return path, nil
		}
	}

	return "", fmt.Errorf("download produced no file for %s", url)
}

// Enumerate lists the watch URLs of a channel or playlist in the order
// yt-dlp reports them. An empty list is a valid "found nothing" result.
func (c *Client) Enumerate(ctx context.Context, channelURL string) ([]string, error) {
	dl := ytdlp.New().
		SkipDownload().
		FlatPlaylist().
		DumpJSON()

	result, err := dl.Run(ctx, channelURL)
	if err != nil {
		return nil, fmt.Errorf("scanning channel %s: %w", channelURL, err)
	}

	entries, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("parsing channel scan for %s: %w", channelURL, err)
	}

	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch {
		case entry.WebpageURL != nil && *entry.WebpageURL != "":
			urls = append(urls, *entry.WebpageURL)
		case entry.ID != "":
			urls = append(urls, fmt.Sprintf(youtubeWatchURLTemplate, entry.ID))
		default:
			zap.S().Named("source").Warnf("skipping channel entry without id: %s", channelURL)
		}
	}

	return urls, nil
}
