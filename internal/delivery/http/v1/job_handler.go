package v1

import (
	"fmt"
	"net/http"

	"talenthub-backend/internal/delivery/http/response"
	"talenthub-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const msgJobNotFound = "Job not found"

type JobHandler struct {
	jobUC    domain.JobUsecase
	exportUC domain.ExportUsecase
}

func NewJobHandler(r *gin.RouterGroup, jobUC domain.JobUsecase, exportUC domain.ExportUsecase) {
	handler := &JobHandler{jobUC: jobUC, exportUC: exportUC}

	jobs := r.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.POST("", handler.Create)
		jobs.GET("/:id", handler.GetDetails)
		jobs.PATCH("/:id", handler.Update)
	}

	// Employer-specific routes (only the caller's own jobs)
	employer := r.Group("/employer")
	{
		employer.GET("/jobs", handler.ListByEmployer)
		employer.GET("/jobs/:id/applications/export", handler.ExportApplications)
	}
}

// List godoc
// @Summary      List jobs
// @Description  Newest first. Filters combine with AND.
// @Tags         jobs
// @Produce      json
// @Param        status    query     string  false  "active, paused or closed"
// @Param        type      query     string  false  "full-time, part-time, contract or internship"
// @Param        location  query     string  false  "Case-insensitive substring"
// @Param        search    query     string  false  "Full-text search"
// @Param        page      query     int     false  "Page number"  default(1)
// @Param        limit     query     int     false  "Page size"    default(10)
// @Success      200       {object}  response.Response{data=[]domain.Job}
// @Failure      400       {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	filter := domain.JobFilter{
		Status:   domain.JobStatus(c.Query("status")),
		Type:     domain.JobType(c.Query("type")),
		Location: c.Query("location"),
		Search:   c.Query("search"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
	}

	result, err := h.jobUC.ListJobs(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, result)
}

// Create godoc
// @Summary      Create a new job
// @Description  Employer only. Company fields default from the company profile.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      domain.CreateJobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req domain.CreateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobUC.CreateJob(c.Request.Context(), session(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created successfully", job)
}

// GetDetails godoc
// @Summary      Get job details
// @Description  The owning employer also sees the ids of applications received.
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetDetails(c *gin.Context) {
	id, ok := pathID(c, "id", msgJobNotFound)
	if !ok {
		return
	}

	job, err := h.jobUC.GetJob(c.Request.Context(), session(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", job)
}

// Update godoc
// @Summary      Update a job
// @Description  Partial update by the owning employer, including status changes.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      string                   true  "Job ID"
// @Param        job  body      domain.UpdateJobRequest  true  "Fields to change"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [patch]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", msgJobNotFound)
	if !ok {
		return
	}
	var req domain.UpdateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobUC.UpdateJob(c.Request.Context(), session(c), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated successfully", job)
}

// ListByEmployer godoc
// @Summary      List own jobs
// @Tags         jobs
// @Produce      json
// @Param        page   query     int  false  "Page number"  default(1)
// @Param        limit  query     int  false  "Page size"    default(10)
// @Success      200    {object}  response.Response{data=[]domain.Job}
// @Failure      403    {object}  response.Response
// @Router       /employer/jobs [get]
// @Security     BearerAuth
func (h *JobHandler) ListByEmployer(c *gin.Context) {
	result, err := h.jobUC.ListEmployerJobs(c.Request.Context(), session(c), queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, result)
}

// ExportApplications godoc
// @Summary      Export applications for a job
// @Tags         jobs
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id      path   string  true   "Job ID"
// @Param        format  query  string  false  "xlsx or csv"  default(xlsx)
// @Success      200
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employer/jobs/{id}/applications/export [get]
// @Security     BearerAuth
func (h *JobHandler) ExportApplications(c *gin.Context) {
	id, ok := pathID(c, "id", msgJobNotFound)
	if !ok {
		return
	}

	file, err := h.exportUC.ExportJobApplications(c.Request.Context(), session(c), id, c.Query("format"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.FileName))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
