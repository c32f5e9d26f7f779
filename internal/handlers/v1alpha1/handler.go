package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/katube/audio-archiver/api/v1alpha1"
	"github.com/katube/audio-archiver/internal/service"
	"github.com/katube/audio-archiver/pkg/requestid"
)

// ServiceHandler is the thin HTTP adapter over the job service.
type ServiceHandler struct {
	jobSrv *service.JobService
}

func NewServiceHandler(jobSrv *service.JobService) *ServiceHandler {
	return &ServiceHandler{jobSrv: jobSrv}
}

func (h *ServiceHandler) RegisterRoutes(router chi.Router) {
	router.Route("/api/v1alpha1", func(r chi.Router) {
		r.Post("/jobs", h.CreateJob)
		r.Get("/jobs", h.ListJobs)
		r.Get("/jobs/{id}", h.GetJob)
		r.Get("/jobs/{id}/result", h.GetJobResult)
		r.Delete("/jobs/{id}", h.DeleteJob)
	})
	router.Get("/health", h.Health)
}

func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "OK")
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, api.Error{Message: message, RequestID: requestid.FromContextPtr(r.Context())})
}
