package v1

import (
	"net/http"

	"talenthub-backend/internal/delivery/http/response"
	"talenthub-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	onboardingUC domain.OnboardingUsecase
}

func NewOnboardingHandler(r *gin.RouterGroup, onboardingUC domain.OnboardingUsecase) {
	handler := &OnboardingHandler{onboardingUC: onboardingUC}
	r.POST("/onboarding/role", handler.ChooseRole)
}

// ChooseRole godoc
// @Summary      Choose account role
// @Description  One-time choice between talent ("user") and employer
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ChooseRoleRequest  true  "Role"
// @Success      200      {object}  response.Response{data=domain.User}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /onboarding/role [post]
// @Security     BearerAuth
func (h *OnboardingHandler) ChooseRole(c *gin.Context) {
	var req domain.ChooseRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.onboardingUC.ChooseRole(c.Request.Context(), session(c), req.Role)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Role selected", user)
}
