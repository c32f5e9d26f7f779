package v1alpha1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/katube/audio-archiver/api/v1alpha1"
	"github.com/katube/audio-archiver/internal/handlers/v1alpha1/mappers"
	"github.com/katube/audio-archiver/internal/handlers/validator"
	"github.com/katube/audio-archiver/internal/service"
)

func (h *ServiceHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	logger := zap.S().Named("job_handler")

	var request api.SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		renderError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse request body: %v", err))
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)

	if err := v.Struct(request); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobSrv.CreateJob(r.Context(), service.JobRequest{
		URL:         request.URL,
		Filename:    request.Filename,
		SessionName: request.SessionName,
		MaxVideos:   request.MaxVideos,
	})
	if err != nil {
		logger.Errorf("create job: %s", err)
		switch err.(type) {
		case *service.ErrInvalidURL:
			renderError(w, r, http.StatusBadRequest, err.Error())
		default:
			renderError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to create job: %v", err))
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, api.SubmitJobResponse{ID: job.ID.String(), Message: "processing started"})
}

func (h *ServiceHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.jobSrv.ListJobs(r.Context())
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to list jobs: %v", err))
		return
	}

	response := make([]api.JobSummary, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, mappers.JobToSummary(summary))
	}
	render.JSON(w, r, response)
}

func (h *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.jobSrv.GetJob(r.Context(), id)
	if err != nil {
		renderError(w, r, http.StatusNotFound, err.Error())
		return
	}

	render.JSON(w, r, mappers.JobToStatus(job))
}

func (h *ServiceHandler) GetJobResult(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.jobSrv.GetJobResult(r.Context(), id)
	if err != nil {
		switch err.(type) {
		case *service.ErrJobNotFound:
			renderError(w, r, http.StatusNotFound, err.Error())
		case *service.ErrJobNotCompleted:
			renderError(w, r, http.StatusConflict, err.Error())
		default:
			renderError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to get job result: %v", err))
		}
		return
	}

	render.JSON(w, r, mappers.JobToResult(job))
}

func (h *ServiceHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid job id")
		return
	}

	// Eviction is idempotent: removing an unknown id succeeds the same way.
	if err := h.jobSrv.RemoveJob(r.Context(), id); err != nil {
		renderError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to remove job: %v", err))
		return
	}

	render.NoContent(w, r)
}
