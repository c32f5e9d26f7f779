package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thoas/go-funk"
	"go.uber.org/zap"

	api "github.com/katube/audio-archiver/api/v1alpha1"
)

const (
	channelSummaryFileName = "channel_summary.json"
	videoListFileName      = "video_urls.txt"
)

// channelSummary is the JSON document persisted under the session metadata
// directory after a channel run. It mirrors the returned result; losing it
// does not change the run's outcome.
type channelSummary struct {
	ChannelURL       string            `json:"channel_url"`
	ScanTime         string            `json:"scan_time"`
	TotalVideosFound int               `json:"total_videos_found"`
	DownloadedCount  int               `json:"downloaded_count"`
	FailedCount      int               `json:"failed_count"`
	DownloadedVideos []api.VideoResult `json:"downloaded_videos"`
	FailedVideos     []api.VideoResult `json:"failed_videos"`
}

// ProcessChannel enumerates a channel and drives the per-video processor
// over each URL sequentially with immediate upload. Enumeration failure or
// an empty channel fails the whole run; per-video failures only land in the
// failed partition. Exactly one progress event is emitted per video.
func (p *Pipeline) ProcessChannel(ctx context.Context, session *Session, channelURL string, maxVideos int, sink ProgressSink) (*api.ChannelResult, error) {
	logger := zap.S().Named("pipeline")
	logger.Infof("scanning channel: %s", channelURL)

	urls, err := p.enumerator.Enumerate(ctx, channelURL)
	if err != nil {
		return nil, fmt.Errorf("channel scan failed: %w", err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no videos found in channel")
	}

	if maxVideos <= 0 {
		maxVideos = DefaultMaxVideos
	}
	if len(urls) > maxVideos {
		urls = urls[:maxVideos]
		logger.Infof("limited channel run to first %d videos", maxVideos)
	}

	results := make([]api.VideoResult, 0, len(urls))

	// Strictly sequential: one download at a time keeps progress accounting
	// simple and avoids concurrent-download rate limiting.
	for i, url := range urls {
		logger.Infof("processing video %d/%d: %s", i+1, len(urls), url)

		result := p.ProcessVideo(ctx, session, url, "", true)
		if !result.Success {
			logger.Warnf("video failed: %s: %s", url, result.Error)
		}
		results = append(results, *result)

		if sink != nil {
			sink.Notify(ProgressEvent{
				URL:       url,
				Success:   result.Success,
				Total:     len(urls),
				Completed: i + 1,
			})
		}
	}

	downloaded := funk.Filter(results, func(r api.VideoResult) bool { return r.Success }).([]api.VideoResult)
	failed := funk.Filter(results, func(r api.VideoResult) bool { return !r.Success }).([]api.VideoResult)

	result := &api.ChannelResult{
		ChannelURL:       channelURL,
		TotalVideosFound: len(urls),
		DownloadedCount:  len(downloaded),
		FailedCount:      len(failed),
		DownloadedVideos: downloaded,
		FailedVideos:     failed,
	}

	// Side effects only: the returned counts stand even if persistence fails.
	summaryPath := filepath.Join(session.MetadataDir, channelSummaryFileName)
	if err := writeJSON(summaryPath, channelSummary{
		ChannelURL:       channelURL,
		ScanTime:         time.Now().Format(time.RFC3339),
		TotalVideosFound: result.TotalVideosFound,
		DownloadedCount:  result.DownloadedCount,
		FailedCount:      result.FailedCount,
		DownloadedVideos: downloaded,
		FailedVideos:     failed,
	}); err != nil {
		logger.Warnf("writing channel summary: %s", err)
	} else {
		result.SummaryFile = summaryPath
	}

	listPath := filepath.Join(session.Dir, videoListFileName)
	if err := writeVideoList(listPath, channelURL, result); err != nil {
		logger.Warnf("writing video url list: %s", err)
	} else {
		result.VideoListFile = listPath
	}

	return result, nil
}

func writeVideoList(path, channelURL string, result *api.ChannelResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Channel: %s\n", channelURL)
	fmt.Fprintf(&b, "Scan Date: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total Videos: %d\n", result.TotalVideosFound)
	fmt.Fprintf(&b, "Downloaded: %d\n", result.DownloadedCount)
	fmt.Fprintf(&b, "Failed: %d\n", result.FailedCount)

	b.WriteString("\n=== DOWNLOADED VIDEOS ===\n")
	for _, video := range result.DownloadedVideos {
		fmt.Fprintf(&b, "%s | %s\n", video.URL, video.Title)
	}

	b.WriteString("\n=== FAILED VIDEOS ===\n")
	for _, video := range result.FailedVideos {
		fmt.Fprintf(&b, "%s | Error: %s\n", video.URL, video.Error)
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}
