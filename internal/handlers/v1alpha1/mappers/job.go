package mappers

import (
	api "github.com/katube/audio-archiver/api/v1alpha1"
	"github.com/katube/audio-archiver/internal/store/model"
)

func JobToStatus(job *model.Job) api.JobStatus {
	return api.JobStatus{
		ID:        job.ID.String(),
		URL:       job.URL,
		State:     job.State,
		Progress:  job.Progress,
		Message:   job.Message,
		CreatedAt: job.CreatedAt,
		EndedAt:   job.EndedAt,
		Error:     job.Error,
	}
}

func JobToSummary(summary model.JobSummary) api.JobSummary {
	return api.JobSummary{
		ID:        summary.ID.String(),
		URL:       summary.URL,
		State:     summary.State,
		Progress:  summary.Progress,
		CreatedAt: summary.CreatedAt,
	}
}

func JobToResult(job *model.Job) api.JobResultResponse {
	response := api.JobResultResponse{
		ID:     job.ID.String(),
		State:  job.State,
		Result: job.Result,
	}
	if job.EndedAt != nil {
		response.ProcessingTimeSeconds = job.EndedAt.Sub(job.CreatedAt).Seconds()
	}
	return response
}
