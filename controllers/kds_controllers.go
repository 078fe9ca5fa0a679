package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-ops/kds"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type KDSController struct {
	Hub *kds.Hub
}

func NewKDSController(hub *kds.Hub) *KDSController {
	return &KDSController{Hub: hub}
}

// KDSHandler -> websocket stream of the caller's company events
func (kc *KDSController) KDSHandler(c *gin.Context) {
	actor := actorFrom(c)
	if actor.CompanyID.IsZero() {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	kc.Hub.RegisterClient(ws, uint(actor.CompanyID), actor.Role)

	// clients only listen; the read loop notices disconnects
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kc.Hub.UnregisterClient(ws)
}
