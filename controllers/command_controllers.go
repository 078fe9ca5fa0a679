package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type CommandController struct {
	Commands *services.CommandService
}

func NewCommandController(commands *services.CommandService) *CommandController {
	return &CommandController{Commands: commands}
}

// OpenCommand -> starts a tab on a table
func (cc *CommandController) OpenCommand(c *gin.Context) {
	var req struct {
		TableID int64 `json:"table_id" binding:"required"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	tableID, err := domain.NewID(req.TableID)
	if err != nil {
		utils.RespondServiceError(c, utils.BadRequest{Err: err})
		return
	}

	cmd, err := cc.Commands.Open(c.Request.Context(), actorFrom(c), tableID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Command opened", newCommandView(cmd))
}

func (cc *CommandController) RecomputeTotal(c *gin.Context) {
	id, err := pathID(c, "command_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	cmd, err := cc.Commands.RecomputeTotal(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Command total recomputed", newCommandView(cmd))
}

// CloseCommand -> status defaults to CLOSED
func (cc *CommandController) CloseCommand(c *gin.Context) {
	id, err := pathID(c, "command_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	var req struct {
		Status       string `json:"status"`
		SettleOrders bool   `json:"settle_orders"`
	}
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &req); err != nil {
			utils.RespondServiceError(c, err)
			return
		}
	}
	closing := domain.CommandClosed
	if req.Status != "" {
		closing = domain.CommandStatus(req.Status)
	}

	cmd, err := cc.Commands.Close(c.Request.Context(), actorFrom(c), id, closing, req.SettleOrders)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Command closed", newCommandView(cmd))
}
