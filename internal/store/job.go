package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/katube/audio-archiver/internal/store/model"
)

type Job interface {
	Create(ctx context.Context, id uuid.UUID, url string) (*model.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	Update(ctx context.Context, id uuid.UUID, apply func(*model.Job)) (*model.Job, error)
	Remove(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]model.JobSummary, error)
}

// JobStore is the in-memory job registry. One coarse lock guards every read
// and mutation: job counts are small and updates are infrequent relative to
// HTTP polling, so a single mutex is sufficient. All returned records are
// snapshots; callers never hold a pointer into the map.
type JobStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*model.Job
}

func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[uuid.UUID]*model.Job),
	}
}

func (s *JobStore) Create(_ context.Context, id uuid.UUID, url string) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.jobs[id]; found {
		return nil, ErrDuplicateKey
	}

	job := model.NewJob(id, url)
	s.jobs[id] = job

	snapshot := job.Snapshot()
	return &snapshot, nil
}

func (s *JobStore) Get(_ context.Context, id uuid.UUID) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, found := s.jobs[id]
	if !found {
		return nil, ErrRecordNotFound
	}

	snapshot := job.Snapshot()
	return &snapshot, nil
}

// Update applies a mutation to the record under the registry lock. State,
// progress and message always change together inside apply, so a concurrent
// Get never observes a partial transition.
func (s *JobStore) Update(_ context.Context, id uuid.UUID, apply func(*model.Job)) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, found := s.jobs[id]
	if !found {
		return nil, ErrRecordNotFound
	}

	apply(job)

	snapshot := job.Snapshot()
	return &snapshot, nil
}

// Remove evicts a record. Removing an unknown id is not an error.
func (s *JobStore) Remove(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.jobs, id)
	return nil
}

func (s *JobStore) List(_ context.Context) ([]model.JobSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]model.JobSummary, 0, len(s.jobs))
	for _, job := range s.jobs {
		summaries = append(summaries, job.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})

	return summaries, nil
}
