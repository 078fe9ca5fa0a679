package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ops/utils"
)

// Context keys set by the auth middlewares.
const (
	EmployeeIDKey = "employee_id"
	CompanyIDKey  = "company_id"
	RoleKey       = "role"
)

func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header must use the Bearer scheme"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *utils.CustomClaims) {
	c.Set(EmployeeIDKey, claims.EmployeeID)
	c.Set(CompanyIDKey, claims.CompanyID)
	c.Set(RoleKey, claims.Role)
}
