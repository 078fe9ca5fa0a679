package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ops/utils"
)

// WebSocketAuthMiddleware reads the token from the query string, since
// browsers cannot set headers on a websocket handshake.
func WebSocketAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}
