package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserHeader carries the authenticated user id, set by the auth proxy in front of the service.
const UserHeader = "X-User-ID"

const _userKey = "userID"

func identify(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader(UserHeader))
	if id == "" {
		errorResponse(c, http.StatusUnauthorized, "missing "+UserHeader+" header")

		return
	}

	c.Set(_userKey, id)
	c.Next()
}

func userID(c *gin.Context) string {
	return c.GetString(_userKey)
}
