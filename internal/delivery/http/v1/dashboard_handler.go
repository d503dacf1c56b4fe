package v1

import (
	"net/http"

	"talenthub-backend/internal/delivery/http/response"
	"talenthub-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	employerUC domain.EmployerDashboardUsecase
	talentUC   domain.TalentDashboardUsecase
	adminUC    domain.AdminUsecase
}

func NewDashboardHandler(r *gin.RouterGroup, employerUC domain.EmployerDashboardUsecase, talentUC domain.TalentDashboardUsecase, adminUC domain.AdminUsecase) {
	handler := &DashboardHandler{employerUC: employerUC, talentUC: talentUC, adminUC: adminUC}

	r.GET("/employer/dashboard", handler.Employer)
	r.GET("/talent/dashboard", handler.Talent)
	r.GET("/admin/dashboard", handler.Admin)
}

// Employer godoc
// @Summary      Employer dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.EmployerDashboard}
// @Failure      403  {object}  response.Response
// @Router       /employer/dashboard [get]
// @Security     BearerAuth
func (h *DashboardHandler) Employer(c *gin.Context) {
	dash, err := h.employerUC.GetDashboard(c.Request.Context(), session(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", dash)
}

// Talent godoc
// @Summary      Talent dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.TalentDashboard}
// @Failure      403  {object}  response.Response
// @Router       /talent/dashboard [get]
// @Security     BearerAuth
func (h *DashboardHandler) Talent(c *gin.Context) {
	dash, err := h.talentUC.GetDashboard(c.Request.Context(), session(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", dash)
}

// Admin godoc
// @Summary      Platform dashboard
// @Description  Admin only. Aggregates across all users, jobs and applications.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.AdminDashboard}
// @Failure      403  {object}  response.Response
// @Router       /admin/dashboard [get]
// @Security     BearerAuth
func (h *DashboardHandler) Admin(c *gin.Context) {
	dash, err := h.adminUC.GetDashboard(c.Request.Context(), session(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", dash)
}
