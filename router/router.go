package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ops/controllers"
	"github.com/yeremiapane/restaurant-ops/middlewares"
)

// Options carries what the router needs besides the controllers.
type Options struct {
	JWTSecret    []byte
	CORSOrigins  []string
	RateLimitRPS float64
}

type Controllers struct {
	Users        *controllers.UserController
	Tables       *controllers.TableController
	Commands     *controllers.CommandController
	Orders       *controllers.OrderController
	CashSessions *controllers.CashSessionController
	KDS          *controllers.KDSController
}

func SetupRouter(ctrl Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	rateLimiter := middlewares.NewRateLimiter(opts.RateLimitRPS, int(opts.RateLimitRPS)*2)
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigins...))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(rateLimiter.RateLimit())

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/login", ctrl.Users.Login)

	// WebSocket stream, the token travels in ?token=
	r.GET("/ws", middlewares.WebSocketAuthMiddleware(opts.JWTSecret), ctrl.KDS.KDSHandler)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware(opts.JWTSecret))

	// EMPLOYEES (admin)
	auth.POST("/employees", middlewares.RequireRole(), ctrl.Users.Register)

	// TABLES
	auth.POST("/tables", ctrl.Tables.CreateTable)
	auth.GET("/tables/:table_id", ctrl.Tables.GetTable)
	auth.PATCH("/tables/:table_id/status", ctrl.Tables.UpdateTableStatus)

	// COMMANDS
	auth.POST("/commands", ctrl.Commands.OpenCommand)
	auth.POST("/commands/:command_id/recompute", ctrl.Commands.RecomputeTotal)
	auth.POST("/commands/:command_id/close", ctrl.Commands.CloseCommand)

	// ORDERS
	auth.POST("/commands/:command_id/orders", ctrl.Orders.AddOrder)
	auth.POST("/commands/:command_id/orders/close-all", ctrl.Orders.CloseAllOrders)
	auth.PATCH("/orders/:order_id/status", ctrl.Orders.UpdateOrderStatus)

	// CASH SESSIONS (cashier/admin)
	cash := auth.Group("/cash-sessions")
	cash.Use(middlewares.RequireRole("cashier"))
	{
		cash.POST("", ctrl.CashSessions.OpenSession)
		cash.POST("/close", ctrl.CashSessions.CloseSession)
		cash.GET("/:session_id/closing", ctrl.CashSessions.GetClosing)
	}

	return r
}
