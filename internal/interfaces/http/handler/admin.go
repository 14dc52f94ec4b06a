package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/infrastructure/scheduler"
	"github.com/ideation/backend/internal/interfaces/http/dto"
)

// JobResponse describes a queued background job
type JobResponse struct {
	ID           uuid.UUID `json:"id"`
	Kind         string    `json:"kind"`
	Status       string    `json:"status"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// AdminHandler handles operator endpoints
type AdminHandler struct {
	BaseHandler
	recap RecapRunner
	jobs  JobSubmitter
	now   func() time.Time
}

// NewAdminHandler creates a new admin handler. jobs may be nil, which
// disables asynchronous runs.
func NewAdminHandler(recap RecapRunner, jobs JobSubmitter) *AdminHandler {
	return &AdminHandler{recap: recap, jobs: jobs, now: time.Now}
}

// RunRecap godoc
// @Summary      Run the recap digest
// @Description  Sends the daily digest now. With async=true the run is queued on the scheduler and the job is returned.
// @Tags         admin
// @Produce      json
// @Param        async query bool false "Queue instead of running inline"
// @Success      200 {object} dto.Response{data=notification.RecapReport}
// @Success      202 {object} dto.Response{data=JobResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/recap/run [post]
func (h *AdminHandler) RunRecap(c *gin.Context) {
	now := h.now()

	if c.Query("async") == "true" {
		if h.jobs == nil {
			h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Scheduler is not running")
			return
		}
		job, err := h.jobs.Submit(scheduler.JobKindRecapDigest, now)
		if err != nil {
			_ = c.Error(err)
			h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Could not queue recap job")
			return
		}
		h.Accepted(c, JobResponse{
			ID:           job.ID,
			Kind:         job.Kind,
			Status:       string(job.Status),
			ScheduledFor: job.ScheduledFor,
		})
		return
	}

	report, err := h.recap.Run(c.Request.Context(), now)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
