package v1

import (
	"net/http"

	"talenthub-backend/internal/delivery/http/response"
	"talenthub-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	uploadUC domain.UploadUsecase
}

func NewUploadHandler(r *gin.RouterGroup, uploadUC domain.UploadUsecase) {
	handler := &UploadHandler{uploadUC: uploadUC}
	r.POST("/uploads/resume", handler.PrepareResume)
}

// PrepareResume godoc
// @Summary      Get a resume upload URL
// @Description  Returns a presigned PUT URL. The file goes straight to object storage.
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ResumeUploadRequest  true  "File metadata"
// @Success      200      {object}  response.Response{data=domain.ResumeUploadTarget}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /uploads/resume [post]
// @Security     BearerAuth
func (h *UploadHandler) PrepareResume(c *gin.Context) {
	var req domain.ResumeUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	target, err := h.uploadUC.PrepareResumeUpload(c.Request.Context(), session(c), c.ClientIP(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", target)
}
