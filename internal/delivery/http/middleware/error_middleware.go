package middleware

import (
	"errors"
	"net/http"

	"talenthub-backend/internal/delivery/http/response"
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"
	"talenthub-backend/pkg/logger"
	"talenthub-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler pushed with c.Error.
// Denials are written to the audit log and 5xx causes to the app log.
func ErrorHandler(audit *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.Internal(err)
		}

		switch {
		case appErr.Code >= http.StatusInternalServerError:
			// Never expose internal error details to clients
			logger.Log.Error("request failed",
				"error", appErr.Err,
				"path", c.FullPath(),
				"method", c.Request.Method,
				"request_id", c.GetString(string(domain.KeyRequestID)),
			)
		case appErr.Code == http.StatusForbidden || appErr.Code == http.StatusUnauthorized:
			event := security.SecurityEvent{
				Event:     security.EventAccessDenied,
				IP:        c.ClientIP(),
				UserAgent: c.GetHeader("User-Agent"),
				RequestID: c.GetString(string(domain.KeyRequestID)),
				Path:      c.FullPath(),
				Details:   map[string]interface{}{"method": c.Request.Method, "reason": appErr.Message},
			}
			if appErr.Code == http.StatusUnauthorized {
				event.Event = security.EventUnauthenticated
			}
			if s := SessionFrom(c); s != nil {
				event.UserID = s.UserID
				event.Role = string(s.Role)
			}
			audit.Log(c.Request.Context(), event)
		}

		response.Error(c, appErr.Code, appErr.Message)
	}
}
