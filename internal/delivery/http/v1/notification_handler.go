package v1

import (
	"net/http"

	"talenthub-backend/internal/delivery/http/response"
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgNotificationNotFound = "Notification not found or unauthorized"

type NotificationHandler struct {
	notificationUC domain.NotificationUsecase
}

// UpdateNotificationsRequest selects one of the two bulk actions.
type UpdateNotificationsRequest struct {
	Action         string                      `json:"action" binding:"required,oneof=markAsRead markAllAsRead"`
	NotificationID string                      `json:"notificationId" binding:"omitempty,uuid"`
	Category       domain.NotificationCategory `json:"category"`
}

func NewNotificationHandler(r *gin.RouterGroup, notificationUC domain.NotificationUsecase) {
	handler := &NotificationHandler{notificationUC: notificationUC}

	n := r.Group("/notifications")
	{
		n.GET("", handler.List)
		n.PATCH("", handler.Update)
		n.DELETE("", handler.Delete)
		n.POST("/welcome", handler.Welcome)
	}
}

// List godoc
// @Summary      List own notifications
// @Tags         notifications
// @Produce      json
// @Param        limit       query     int     false  "Max items"  default(20)
// @Param        skip        query     int     false  "Offset"     default(0)
// @Param        unreadOnly  query     bool    false  "Only unread"
// @Param        category    query     string  false  "job, application, profile, system or message"
// @Success      200         {object}  response.Response{data=domain.NotificationList}
// @Failure      401         {object}  response.Response
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) List(c *gin.Context) {
	filter := domain.NotificationFilter{
		Limit:      queryInt(c, "limit", 20),
		Skip:       queryInt(c, "skip", 0),
		UnreadOnly: c.Query("unreadOnly") == "true",
		Category:   domain.NotificationCategory(c.Query("category")),
	}

	list, err := h.notificationUC.List(c.Request.Context(), session(c), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", list)
}

// Update godoc
// @Summary      Mark notifications as read
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request  body      UpdateNotificationsRequest  true  "Action"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /notifications [patch]
// @Security     BearerAuth
func (h *NotificationHandler) Update(c *gin.Context) {
	var req UpdateNotificationsRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case "markAsRead":
		if req.NotificationID == "" {
			_ = c.Error(apperror.BadRequest("Notification ID is required"))
			return
		}
		n, err := h.notificationUC.MarkAsRead(ctx, session(c), req.NotificationID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		response.Success(c, http.StatusOK, "Notification marked as read", n)
	default:
		count, err := h.notificationUC.MarkAllAsRead(ctx, session(c), req.Category)
		if err != nil {
			_ = c.Error(err)
			return
		}
		response.Success(c, http.StatusOK, "All notifications marked as read", gin.H{"modifiedCount": count})
	}
}

// Delete godoc
// @Summary      Delete a notification
// @Tags         notifications
// @Produce      json
// @Param        id   query     string  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /notifications [delete]
// @Security     BearerAuth
func (h *NotificationHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		_ = c.Error(apperror.BadRequest("Notification ID is required"))
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		_ = c.Error(apperror.NotFound(msgNotificationNotFound))
		return
	}

	if err := h.notificationUC.Delete(c.Request.Context(), session(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Notification deleted", nil)
}

// Welcome godoc
// @Summary      Send the welcome notification
// @Tags         notifications
// @Produce      json
// @Success      201  {object}  response.Response{data=domain.Notification}
// @Failure      401  {object}  response.Response
// @Router       /notifications/welcome [post]
// @Security     BearerAuth
func (h *NotificationHandler) Welcome(c *gin.Context) {
	n, err := h.notificationUC.SendWelcome(c.Request.Context(), session(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Welcome notification sent", n)
}
