package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// AddOrder -> places one product with its modifier options on a command
func (oc *OrderController) AddOrder(c *gin.Context) {
	commandID, err := pathID(c, "command_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	var req struct {
		ProductID int64   `json:"product_id" binding:"required"`
		OptionIDs []int64 `json:"option_ids"`
		Notes     string  `json:"notes"`
		Priority  *int    `json:"priority"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	in := services.NewOrder{Notes: req.Notes, Priority: mo.PointerToOption(req.Priority)}
	if in.ProductID, err = domain.NewID(req.ProductID); err != nil {
		utils.RespondServiceError(c, utils.BadRequest{Err: err})
		return
	}
	for _, raw := range lo.Uniq(req.OptionIDs) {
		id, err := domain.NewID(raw)
		if err != nil {
			utils.RespondServiceError(c, utils.BadRequest{Err: err})
			return
		}
		in.OptionIDs = append(in.OptionIDs, id)
	}

	order, err := oc.Orders.AddOrder(c.Request.Context(), actorFrom(c), commandID, in)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order added", newOrderView(order))
}

// UpdateOrderStatus -> a reason is required when canceling
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, err := pathID(c, "order_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	var body struct {
		Status string  `json:"status" binding:"required"`
		Reason *string `json:"reason"`
	}
	if err := bindJSON(c, &body); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	order, err := oc.Orders.ChangeStatus(c.Request.Context(), actorFrom(c), orderID, domain.OrderStatus(body.Status), mo.PointerToOption(body.Reason))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", newOrderView(order))
}

// CloseAllOrders -> every live order of the command becomes DELIVERED_SERVED
func (oc *OrderController) CloseAllOrders(c *gin.Context) {
	commandID, err := pathID(c, "command_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	orders, err := oc.Orders.CloseAll(c.Request.Context(), actorFrom(c), commandID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders closed", lo.Map(orders, func(o domain.Order, _ int) orderView {
		return newOrderView(o)
	}))
}
