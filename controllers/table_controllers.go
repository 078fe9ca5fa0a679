package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type TableController struct {
	Tables *services.TableRegistry
}

func NewTableController(tables *services.TableRegistry) *TableController {
	return &TableController{Tables: tables}
}

// CreateTable -> registers a table for the caller's company
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Capacity int    `json:"capacity" binding:"required"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	table, err := tc.Tables.Register(c.Request.Context(), actorFrom(c), req.Name, req.Capacity)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", newTableView(table))
}

func (tc *TableController) GetTable(c *gin.Context) {
	id, err := pathID(c, "table_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	table, err := tc.Tables.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table details", newTableView(table))
}

// UpdateTableStatus -> AVAILABLE, OCCUPIED, RESERVED or OUT_OF_SERVICE
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, err := pathID(c, "table_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := bindJSON(c, &body); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	table, err := tc.Tables.SetStatus(c.Request.Context(), actorFrom(c), id, domain.TableStatus(body.Status))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table status updated", newTableView(table))
}
