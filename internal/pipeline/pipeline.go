package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	api "github.com/katube/audio-archiver/api/v1alpha1"
)

// DefaultMaxVideos caps how many videos one channel run may process.
const DefaultMaxVideos = 2500

// Pipeline drives the download-and-archive flow for one session. It is
// stateless across runs: every invocation works inside the session it is
// handed and touches nothing shared.
type Pipeline struct {
	source     VideoSource
	enumerator ChannelEnumerator
	store      ObjectStore
}

func New(source VideoSource, enumerator ChannelEnumerator, store ObjectStore) *Pipeline {
	return &Pipeline{
		source:     source,
		enumerator: enumerator,
		store:      store,
	}
}

// Process dispatches a URL to the channel or single-video flow, normalizes
// the outcome into one result shape and persists the session results
// document. A failed single video, a failed enumeration or an empty channel
// all surface as an error; a channel run with some per-video failures is
// still a successful run.
func (p *Pipeline) Process(ctx context.Context, session *Session, url, customName string, maxVideos int, sink ProgressSink) (*api.Result, error) {
	logger := zap.S().Named("pipeline")
	start := time.Now()

	result := &api.Result{
		SessionName: session.Name,
		SessionDir:  session.Dir,
	}

	if IsChannelURL(url) {
		channelResult, err := p.ProcessChannel(ctx, session, url, maxVideos, sink)
		if err != nil {
			return nil, err
		}

		result.Type = api.ResultTypeChannel
		result.Success = true
		result.Channel = channelResult
		result.TotalVideos = channelResult.TotalVideosFound
		result.DownloadedCount = channelResult.DownloadedCount
		result.FailedCount = channelResult.FailedCount
		for _, video := range channelResult.DownloadedVideos {
			if video.Uploaded {
				result.UploadedCount++
			}
		}
	} else {
		videoResult := p.ProcessVideo(ctx, session, url, customName, true)
		if !videoResult.Success {
			return nil, fmt.Errorf("video download failed: %s", videoResult.Error)
		}

		result.Type = api.ResultTypeVideo
		result.Success = true
		result.Video = videoResult
		result.TotalVideos = 1
		result.DownloadedCount = 1
		if videoResult.Uploaded {
			result.UploadedCount = 1
		}
	}

	result.RemoteAvailable = p.store.Available(ctx)
	result.ProcessingTimeSeconds = time.Since(start).Seconds()

	if err := session.WriteResults(result); err != nil {
		logger.Warnf("writing session results: %s", err)
	}

	logger.Infof("pipeline completed in %.2fs: %d/%d downloaded, %d uploaded",
		result.ProcessingTimeSeconds, result.DownloadedCount, result.TotalVideos, result.UploadedCount)

	return result, nil
}
