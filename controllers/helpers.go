package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/middlewares"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// actorFrom reads the caller set by the auth middleware.
func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		EmployeeID: domain.ID(c.GetUint(middlewares.EmployeeIDKey)),
		CompanyID:  domain.ID(c.GetUint(middlewares.CompanyIDKey)),
		Role:       c.GetString(middlewares.RoleKey),
	}
}

func pathID(c *gin.Context, name string) (domain.ID, error) {
	raw, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, utils.BadRequest{Err: fmt.Errorf("%s must be a number", name)}
	}
	id, err := domain.NewID(raw)
	if err != nil {
		return 0, utils.BadRequest{Err: fmt.Errorf("%s: %w", name, err)}
	}
	return id, nil
}

// bindJSON decodes the body into dest and reports failures as bad input.
func bindJSON(c *gin.Context, dest any) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return utils.BadRequest{Err: err}
	}
	return nil
}
