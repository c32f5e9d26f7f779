package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	api "github.com/katube/audio-archiver/api/v1alpha1"
	"github.com/katube/audio-archiver/pkg/metrics"
)

const remoteKeyPrefix = "youtube_downloads"

// videoSidecar is the JSON document written next to every downloaded audio
// file, keyed by video id to avoid collisions.
type videoSidecar struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Duration     int    `json:"duration"`
	DownloadTime string `json:"download_time"`
	AudioFile    string `json:"audio_file"`
	FileSize     int64  `json:"file_size"`
}

// ProcessVideo downloads one video into the session, writes its metadata
// sidecar and, when requested and the object store is available, uploads both
// files and removes the local copies. Per-video failures are data, not
// faults: the result always comes back, with Success=false and the raw error
// attached when a step aborted.
//
// Local files are deleted only after both uploads are durably confirmed, so
// local storage is never the sole copy of data the system believes archived.
func (p *Pipeline) ProcessVideo(ctx context.Context, session *Session, url, customName string, upload bool) *api.VideoResult {
	logger := zap.S().Named("pipeline")
	logger.Infof("downloading video: %s", url)

	info, err := p.source.Info(ctx, url)
	if err != nil {
		logger.Errorf("resolving video %s: %s", url, err)
		metrics.IncreaseVideosProcessedTotalMetric("failed")
		return &api.VideoResult{Success: false, URL: url, Error: err.Error()}
	}

	audioPath, err := p.source.Download(ctx, url, session.DownloadsDir, customName)
	if err != nil {
		logger.Errorf("downloading video %s: %s", url, err)
		metrics.IncreaseVideosProcessedTotalMetric("failed")
		return &api.VideoResult{Success: false, VideoID: info.ID, URL: url, Error: err.Error()}
	}

	var fileSize int64
	if stat, err := os.Stat(audioPath); err == nil {
		fileSize = stat.Size()
	}

	sidecarPath := filepath.Join(session.MetadataDir, fmt.Sprintf("%s_metadata.json", info.ID))
	sidecar := videoSidecar{
		VideoID:      info.ID,
		Title:        info.Title,
		URL:          url,
		Duration:     info.DurationSeconds,
		DownloadTime: time.Now().Format(time.RFC3339),
		AudioFile:    filepath.Base(audioPath),
		FileSize:     fileSize,
	}
	if err := writeJSON(sidecarPath, sidecar); err != nil {
		logger.Errorf("writing sidecar for %s: %s", url, err)
		metrics.IncreaseVideosProcessedTotalMetric("failed")
		return &api.VideoResult{Success: false, VideoID: info.ID, URL: url, Error: err.Error()}
	}

	result := &api.VideoResult{
		Success:           true,
		VideoID:           info.ID,
		Title:             info.Title,
		URL:               url,
		DurationSeconds:   info.DurationSeconds,
		FileSize:          fileSize,
		LocalAudioPath:    audioPath,
		LocalMetadataPath: sidecarPath,
	}
	metrics.IncreaseVideosProcessedTotalMetric("success")

	if upload && p.store.Available(ctx) {
		p.uploadVideo(ctx, session, result)
	}

	return result
}

// uploadVideo pushes the audio file and its sidecar to the object store.
// The sidecar goes only after the audio upload succeeded, and local cleanup
// happens only when both are confirmed. Upload failures downgrade the
// Uploaded flag without failing the video.
func (p *Pipeline) uploadVideo(ctx context.Context, session *Session, result *api.VideoResult) {
	logger := zap.S().Named("pipeline")
	logger.Infof("uploading %s to object store", result.Title)

	audioKey := fmt.Sprintf("%s/%s/%s/%s", remoteKeyPrefix, session.Name, downloadsSubdir, filepath.Base(result.LocalAudioPath))
	audioUpload, err := p.store.Upload(ctx, result.LocalAudioPath, audioKey, map[string]string{
		"video_id":     result.VideoID,
		"title":        result.Title,
		"duration":     fmt.Sprintf("%d", result.DurationSeconds),
		"session_name": session.Name,
		"upload_time":  time.Now().Format(time.RFC3339),
	})
	if err != nil {
		logger.Warnf("audio upload failed for %s: %s", result.Title, err)
		metrics.IncreaseUploadsTotalMetric("failed")
		return
	}

	metadataKey := fmt.Sprintf("%s/%s/%s/%s", remoteKeyPrefix, session.Name, metadataSubdir, filepath.Base(result.LocalMetadataPath))
	metadataUpload, err := p.store.Upload(ctx, result.LocalMetadataPath, metadataKey, nil)
	if err != nil {
		logger.Warnf("metadata upload failed for %s: %s", result.Title, err)
		metrics.IncreaseUploadsTotalMetric("failed")
		return
	}

	result.Uploaded = true
	result.RemoteAudioURL = audioUpload.RemoteURL
	result.RemoteMetadataURL = metadataUpload.RemoteURL
	metrics.IncreaseUploadsTotalMetric("success")
	logger.Infof("uploaded %s", result.Title)

	// Cleanup failures are logged only; the remote copy is already durable.
	// Each path is cleared as soon as its removal succeeds so the result
	// never points at a file that is already gone.
	cleaned := true
	for _, path := range []*string{&result.LocalAudioPath, &result.LocalMetadataPath} {
		if err := os.Remove(*path); err != nil && !os.IsNotExist(err) {
			logger.Warnf("failed to clean up local file %s: %s", *path, err)
			cleaned = false
			continue
		}
		*path = ""
	}
	result.LocalFilesCleaned = cleaned
}

func writeJSON(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
