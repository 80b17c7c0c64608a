package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/trycco/storefront/internal/infrastructure/logger"
	"github.com/trycco/storefront/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

// JobRunner lists and runs background jobs.
type JobRunner interface {
	Jobs() []scheduler.JobInfo
	Trigger(name string) error
}

// JobHandler exposes the scheduler to the back office
type JobHandler struct {
	BaseHandler
	jobs JobRunner
}

func NewJobHandler(jobs JobRunner) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// List handles GET /admin/api/v1/jobs
// @Summary      List jobs
// @Description  Returns the scheduled jobs and their latest runs
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=[]scheduler.JobInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	h.Success(c, h.jobs.Jobs())
}

// Run handles POST /admin/api/v1/jobs/:name/run. The job runs on the
// request goroutine and the job's refreshed state is returned.
// @Summary      Run job
// @Description  Runs a job now and returns its refreshed state
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        name path string true "Job name"
// @Success      200 {object} dto.Response{data=scheduler.JobInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/jobs/{name}/run [post]
func (h *JobHandler) Run(c *gin.Context) {
	name := c.Param("name")
	if err := h.jobs.Trigger(name); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			h.NotFound(c, "Job not found")
			return
		}
		logger.FromContext(c.Request.Context()).Error("manual job run failed",
			zap.String("job", name),
			zap.Error(err),
		)
		h.InternalError(c, "Job failed: "+name)
		return
	}
	for _, info := range h.jobs.Jobs() {
		if info.Name == name {
			h.Success(c, info)
			return
		}
	}
	h.NotFound(c, "Job not found")
}
