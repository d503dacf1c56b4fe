package v1

import (
	"strconv"

	"talenthub-backend/internal/delivery/http/middleware"
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"
	"talenthub-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// bindJSON binds the body into req and pushes a 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(apperror.BadRequest(validation.Message(err)))
		return false
	}
	return true
}

// pathID reads a uuid path parameter. Malformed ids are reported as
// missing so probing never distinguishes the two.
func pathID(c *gin.Context, name, notFound string) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		_ = c.Error(apperror.NotFound(notFound))
		return "", false
	}
	return id.String(), true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func session(c *gin.Context) *domain.Session {
	return middleware.SessionFrom(c)
}
