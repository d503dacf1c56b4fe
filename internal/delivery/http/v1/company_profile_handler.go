package v1

import (
	"net/http"

	"talenthub-backend/internal/delivery/http/response"
	"talenthub-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type CompanyProfileHandler struct {
	profileUC domain.CompanyProfileUsecase
}

func NewCompanyProfileHandler(r *gin.RouterGroup, profileUC domain.CompanyProfileUsecase) {
	handler := &CompanyProfileHandler{profileUC: profileUC}

	employer := r.Group("/employer")
	{
		employer.GET("/company-profile", handler.Get)
		employer.PATCH("/company-profile", handler.Update)
	}
}

// Get godoc
// @Summary      Get company profile
// @Tags         company-profile
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.CompanyProfileView}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /employer/company-profile [get]
// @Security     BearerAuth
func (h *CompanyProfileHandler) Get(c *gin.Context) {
	view, err := h.profileUC.Get(c.Request.Context(), session(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", view)
}

// Update godoc
// @Summary      Update company profile
// @Description  Name is required. New jobs copy these fields as their company snapshot.
// @Tags         company-profile
// @Accept       json
// @Produce      json
// @Param        request  body      domain.UpdateCompanyProfileRequest  true  "Profile"
// @Success      200      {object}  response.Response{data=domain.CompanyProfileView}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /employer/company-profile [patch]
// @Security     BearerAuth
func (h *CompanyProfileHandler) Update(c *gin.Context) {
	var req domain.UpdateCompanyProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.profileUC.Update(c.Request.Context(), session(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company profile updated", view)
}
