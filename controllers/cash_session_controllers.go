package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type CashSessionController struct {
	Sessions *services.CashSessionService
}

func NewCashSessionController(sessions *services.CashSessionService) *CashSessionController {
	return &CashSessionController{Sessions: sessions}
}

func (cc *CashSessionController) OpenSession(c *gin.Context) {
	var req struct {
		InitialFloat *domain.Money `json:"initial_float"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	if req.InitialFloat == nil {
		utils.RespondServiceError(c, utils.BadRequest{Err: errors.New("initial_float is required")})
		return
	}

	session, err := cc.Sessions.Open(c.Request.Context(), actorFrom(c), *req.InitialFloat)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Cash session opened", newCashSessionView(session))
}

// CloseSession -> reconciles the counted drawer against the settled commands
func (cc *CashSessionController) CloseSession(c *gin.Context) {
	var req struct {
		Cash         domain.Money `json:"cash"`
		Card         domain.Money `json:"card"`
		Pix          domain.Money `json:"pix"`
		Others       domain.Money `json:"others"`
		Observations string       `json:"observations"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	counted := domain.CountedAmounts{Cash: req.Cash, Card: req.Card, Pix: req.Pix, Others: req.Others}
	record, err := cc.Sessions.Close(c.Request.Context(), actorFrom(c), counted, req.Observations)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cash session closed", newClosingView(record))
}

func (cc *CashSessionController) GetClosing(c *gin.Context) {
	sessionID, err := pathID(c, "session_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	record, err := cc.Sessions.ClosingRecord(c.Request.Context(), actorFrom(c), sessionID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Closing record retrieved", newClosingView(record))
}
