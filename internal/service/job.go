package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/katube/audio-archiver/api/v1alpha1"
	"github.com/katube/audio-archiver/internal/pipeline"
	"github.com/katube/audio-archiver/internal/store"
	"github.com/katube/audio-archiver/internal/store/model"
	"github.com/katube/audio-archiver/pkg/metrics"
)

// JobRequest carries the caller-supplied options for one submission.
type JobRequest struct {
	URL         string
	Filename    string
	SessionName string
	MaxVideos   int
}

// JobService owns the job lifecycle: it validates submissions, registers
// records, hands execution to the worker pool and answers polling queries.
type JobService struct {
	store            store.Store
	sessions         *pipeline.SessionManager
	pipeline         *pipeline.Pipeline
	pool             *WorkerPool
	defaultMaxVideos int
}

func NewJobService(s store.Store, sessions *pipeline.SessionManager, p *pipeline.Pipeline, pool *WorkerPool, defaultMaxVideos int) *JobService {
	return &JobService{
		store:            s,
		sessions:         sessions,
		pipeline:         p,
		pool:             pool,
		defaultMaxVideos: defaultMaxVideos,
	}
}

// CreateJob validates the URL, registers a fresh record and schedules the
// runner. The caller gets the job id back immediately and polls for status;
// rejected URLs never produce a record.
func (s *JobService) CreateJob(ctx context.Context, request JobRequest) (*model.Job, error) {
	if request.URL == "" || (!pipeline.IsChannelURL(request.URL) && !pipeline.IsVideoURL(request.URL)) {
		return nil, NewErrInvalidURL(request.URL)
	}

	if request.MaxVideos <= 0 {
		request.MaxVideos = s.defaultMaxVideos
	}

	id := uuid.New()
	job, err := s.store.Job().Create(ctx, id, request.URL)
	if err != nil {
		return nil, err
	}

	kind := api.ResultTypeVideo
	if pipeline.IsChannelURL(request.URL) {
		kind = api.ResultTypeChannel
	}
	metrics.IncreaseJobsSubmittedTotalMetric(kind)
	zap.S().Named("job_service").Infof("job %s submitted for %s url: %s", id, kind, request.URL)

	s.pool.Submit(func() {
		s.runJob(id, request)
	})

	return job, nil
}

func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		return nil, NewErrJobNotFound(id)
	}
	return job, nil
}

// GetJobResult returns the record once it completed. Waiting, running and
// failed jobs all answer "not completed"; the status endpoint carries their
// error string.
func (s *JobService) GetJobResult(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		return nil, NewErrJobNotFound(id)
	}
	if job.State != api.JobStateCompleted {
		return nil, NewErrJobNotCompleted(id)
	}
	return job, nil
}

// RemoveJob evicts a record; evicting an unknown id is a no-op. The worker,
// if still running, continues to completion against a gone record.
func (s *JobService) RemoveJob(ctx context.Context, id uuid.UUID) error {
	return s.store.Job().Remove(ctx, id)
}

func (s *JobService) ListJobs(ctx context.Context) ([]model.JobSummary, error) {
	return s.store.Job().List(ctx)
}
