package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/katube/audio-archiver/api/v1alpha1"
	"github.com/katube/audio-archiver/internal/pipeline"
	"github.com/katube/audio-archiver/internal/store/model"
	"github.com/katube/audio-archiver/pkg/metrics"
)

// runJob binds one job record to one pipeline invocation. It owns every
// mutation of the record from here on and must never let a failure escape:
// nothing downstream of the pool would observe it.
func (s *JobService) runJob(id uuid.UUID, request JobRequest) {
	logger := zap.S().Named("job_runner")
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("job %s panicked: %v", id, r)
			s.failJob(ctx, id, fmt.Sprintf("internal error: %v", r))
		}
	}()

	isChannel := pipeline.IsChannelURL(request.URL)
	if isChannel {
		s.updateJob(ctx, id, api.JobStateDownloading, 10, "starting channel processing")
	} else {
		s.updateJob(ctx, id, api.JobStateDownloading, 10, "starting video processing")
	}

	session, err := s.sessions.Create(request.SessionName)
	if err != nil {
		logger.Errorf("job %s: creating session: %s", id, err)
		s.failJob(ctx, id, err.Error())
		return
	}

	// Per-video events land in the 10..90 band; 90..100 is reserved for the
	// finalizing step and the terminal update.
	sink := pipeline.ProgressSinkFunc(func(event pipeline.ProgressEvent) {
		percent := 10 + event.Completed*80/event.Total
		if percent > 90 {
			percent = 90
		}
		message := fmt.Sprintf("processed video %d/%d | id: %s", event.Completed, event.Total, pipeline.DisplayVideoID(event.URL))
		if !event.Success {
			message = fmt.Sprintf("video %d/%d failed | id: %s", event.Completed, event.Total, pipeline.DisplayVideoID(event.URL))
		}
		s.updateJob(ctx, id, api.JobStateProcessing, percent, message)
	})

	result, err := s.pipeline.Process(ctx, session, request.URL, request.Filename, request.MaxVideos, sink)
	if err != nil {
		logger.Errorf("job %s failed: %s", id, err)
		s.failJob(ctx, id, err.Error())
		return
	}

	s.updateJob(ctx, id, api.JobStateFinalizing, 95, "finalizing uploads")

	if _, err := s.store.Job().Update(ctx, id, func(job *model.Job) {
		job.Complete(result, completionMessage(result))
	}); err != nil {
		// Record was evicted while running; the outcome has nowhere to go.
		logger.Warnf("job %s finished but its record is gone", id)
	}
	metrics.IncreaseJobsFinishedTotalMetric(string(api.JobStateCompleted))
	logger.Infof("job %s completed: %d/%d downloaded, %d uploaded", id, result.DownloadedCount, result.TotalVideos, result.UploadedCount)
}

func (s *JobService) updateJob(ctx context.Context, id uuid.UUID, state api.JobState, progress int, message string) {
	if _, err := s.store.Job().Update(ctx, id, func(job *model.Job) {
		job.UpdateStatus(state, progress, message)
	}); err != nil {
		zap.S().Named("job_runner").Debugf("job %s: status update skipped: %s", id, err)
	}
}

func (s *JobService) failJob(ctx context.Context, id uuid.UUID, errMsg string) {
	if _, err := s.store.Job().Update(ctx, id, func(job *model.Job) {
		job.Fail(errMsg)
	}); err != nil {
		zap.S().Named("job_runner").Debugf("job %s: fail update skipped: %s", id, err)
	}
	metrics.IncreaseJobsFinishedTotalMetric(string(api.JobStateFailed))
}

// completionMessage summarizes where the artifacts ended up.
func completionMessage(result *api.Result) string {
	if !result.RemoteAvailable {
		return "processing complete, object store not configured, files kept locally"
	}

	switch {
	case result.UploadedCount == result.DownloadedCount:
		return fmt.Sprintf("processing complete, %d files archived remotely", result.UploadedCount)
	case result.UploadedCount > 0:
		return fmt.Sprintf("processing complete, %d/%d files archived remotely", result.UploadedCount, result.DownloadedCount)
	default:
		return "processing complete, uploads failed, files kept locally"
	}
}
