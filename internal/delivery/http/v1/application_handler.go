package v1

import (
	"net/http"

	"talenthub-backend/internal/delivery/http/response"
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgApplicationNotFound = "Application not found"

type ApplicationHandler struct {
	appUC domain.ApplicationUsecase
}

func NewApplicationHandler(r *gin.RouterGroup, appUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{appUC: appUC}

	apps := r.Group("/applications")
	{
		apps.GET("", handler.List)
		apps.POST("", handler.Submit)
		apps.GET("/:id", handler.Get)
		apps.PATCH("/:id", handler.Transition)
	}
}

// Submit godoc
// @Summary      Apply for a job
// @Description  Talent only. One application per job and user.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SubmitApplicationRequest  true  "Application"
// @Success      201      {object}  response.Response{data=domain.Application}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req domain.SubmitApplicationRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appUC.Submit(c.Request.Context(), session(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// List godoc
// @Summary      List applications
// @Description  Talents see their own. Employers see those on their jobs.
// @Tags         applications
// @Produce      json
// @Param        jobId   query     string  false  "Filter by job"
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number"  default(1)
// @Param        limit   query     int     false  "Page size"    default(10)
// @Success      200     {object}  response.Response{data=[]domain.Application}
// @Failure      401     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) List(c *gin.Context) {
	filter := domain.ApplicationFilter{
		JobID:  c.Query("jobId"),
		Status: domain.ApplicationStatus(c.Query("status")),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	}

	if filter.JobID != "" {
		if _, err := uuid.Parse(filter.JobID); err != nil {
			_ = c.Error(apperror.BadRequest("Invalid job id"))
			return
		}
	}

	result, err := h.appUC.List(c.Request.Context(), session(c), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, result)
}

// Get godoc
// @Summary      Get application details
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", msgApplicationNotFound)
	if !ok {
		return
	}

	app, err := h.appUC.Get(c.Request.Context(), session(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", app)
}

// Transition godoc
// @Summary      Update application status
// @Description  Owning employer only. Moves the status and/or edits interview notes.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Application ID"
// @Param        request  body      domain.TransitionRequest  true  "Status and notes"
// @Success      200      {object}  response.Response{data=domain.Application}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /applications/{id} [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) Transition(c *gin.Context) {
	id, ok := pathID(c, "id", msgApplicationNotFound)
	if !ok {
		return
	}
	var req domain.TransitionRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appUC.Transition(c.Request.Context(), session(c), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application updated", app)
}
