package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/yeremiapane/restaurant-ops/utils"
)

// RoleAdmin passes every role check.
const RoleAdmin = "admin"

// RequireRole lets the request through when the caller's role is one of
// roles or admin.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(RoleKey)
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		if role != RoleAdmin && !lo.Contains(roles, role) {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("one of roles %v required", roles))
			c.Abort()
			return
		}

		c.Next()
	}
}
