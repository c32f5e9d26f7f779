package v1alpha1

import "time"

// JobState is the lifecycle state of a job as reported to callers.
type JobState string

const (
	JobStateWaiting     JobState = "waiting"
	JobStateDownloading JobState = "downloading"
	JobStateProcessing  JobState = "processing"
	JobStateFinalizing  JobState = "finalizing"
	JobStateCompleted   JobState = "completed"
	JobStateFailed      JobState = "failed"
)

// SubmitJobRequest is the payload accepted to start processing a video or channel URL.
type SubmitJobRequest struct {
	URL         string `json:"url" validate:"required,youtube_url"`
	Filename    string `json:"filename,omitempty" validate:"omitempty,resource_name"`
	SessionName string `json:"session_name,omitempty" validate:"omitempty,resource_name"`
	MaxVideos   int    `json:"max_videos,omitempty" validate:"omitempty,min=1"`
}

type SubmitJobResponse struct {
	ID      string `json:"job_id"`
	Message string `json:"message"`
}

// JobStatus is the polling view of a job record.
type JobStatus struct {
	ID        string     `json:"job_id"`
	URL       string     `json:"url"`
	State     JobState   `json:"status"`
	Progress  int        `json:"progress"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"start_time"`
	EndedAt   *time.Time `json:"end_time,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// JobSummary is the lightweight listing view of a job record.
type JobSummary struct {
	ID        string    `json:"job_id"`
	URL       string    `json:"url"`
	State     JobState  `json:"status"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"start_time"`
}

// JobResultResponse wraps the final result payload of a completed job.
type JobResultResponse struct {
	ID                    string  `json:"job_id"`
	State                 JobState `json:"status"`
	Result                *Result `json:"results"`
	ProcessingTimeSeconds float64 `json:"processing_time"`
}

const (
	ResultTypeVideo   = "video"
	ResultTypeChannel = "channel"
)

// VideoResult captures the outcome of processing one video.
type VideoResult struct {
	Success           bool   `json:"success"`
	VideoID           string `json:"video_id,omitempty"`
	Title             string `json:"title,omitempty"`
	URL               string `json:"url"`
	DurationSeconds   int    `json:"duration_seconds,omitempty"`
	FileSize          int64  `json:"file_size,omitempty"`
	LocalAudioPath    string `json:"local_audio_path,omitempty"`
	LocalMetadataPath string `json:"local_metadata_path,omitempty"`
	Uploaded          bool   `json:"uploaded"`
	LocalFilesCleaned bool   `json:"local_files_cleaned"`
	RemoteAudioURL    string `json:"remote_audio_url,omitempty"`
	RemoteMetadataURL string `json:"remote_metadata_url,omitempty"`
	Error             string `json:"error,omitempty"`
}

// ChannelResult captures the outcome of processing a whole channel.
type ChannelResult struct {
	ChannelURL       string        `json:"channel_url"`
	TotalVideosFound int           `json:"total_videos_found"`
	DownloadedCount  int           `json:"downloaded_count"`
	FailedCount      int           `json:"failed_count"`
	DownloadedVideos []VideoResult `json:"downloaded_videos"`
	FailedVideos     []VideoResult `json:"failed_videos"`
	SummaryFile      string        `json:"summary_file,omitempty"`
	VideoListFile    string        `json:"video_list_file,omitempty"`
}

// Result is the unified payload set on a completed job. Single-video runs are
// normalized with channel-like counts so the payload has one shape.
type Result struct {
	Type                  string         `json:"type"`
	Success               bool           `json:"success"`
	TotalVideos           int            `json:"total_videos"`
	DownloadedCount       int            `json:"downloaded_count"`
	FailedCount           int            `json:"failed_count"`
	Video                 *VideoResult   `json:"video,omitempty"`
	Channel               *ChannelResult `json:"channel,omitempty"`
	SessionName           string         `json:"session_name"`
	SessionDir            string         `json:"session_dir"`
	RemoteAvailable       bool           `json:"remote_available"`
	UploadedCount         int            `json:"uploaded_count"`
	ProcessingTimeSeconds float64        `json:"processing_time"`
	Error                 string         `json:"error,omitempty"`
}

// Error is the generic error reply.
type Error struct {
	Message   string  `json:"message"`
	RequestID *string `json:"request_id,omitempty"`
}
