package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/yeremiapane/restaurant-ops/controllers"
	"github.com/yeremiapane/restaurant-ops/database"
	"github.com/yeremiapane/restaurant-ops/events"
	"github.com/yeremiapane/restaurant-ops/kds"
	"github.com/yeremiapane/restaurant-ops/locks"
	"github.com/yeremiapane/restaurant-ops/repository"
	"github.com/yeremiapane/restaurant-ops/router"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and run the HTTP API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	lookup, err := repository.NewStatusLookup(ctx, db)
	if err != nil {
		return err
	}

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	var locker locks.Locker = locks.NewLocal()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		closers = append(closers, client)
		locker = locks.NewRedis(client, cfg.LockTTL, cfg.LockTTL)
		utils.InfoLogger.WithField("addr", cfg.RedisAddr).Info("using redis locks")
	}

	hub := kds.NewHub(utils.InfoLogger)
	sinks := []events.Publisher{hub}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		closers = append(closers, kafka)
		sinks = append(sinks, kafka)
	}
	if cfg.RabbitMQURL != "" {
		amqp, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return err
		}
		closers = append(closers, amqp)
		sinks = append(sinks, amqp)
	}

	deps := services.Deps{
		UoW:       repository.NewUnitOfWork(db, lookup),
		Statuses:  lookup,
		Locker:    locker,
		Publisher: events.NewFanout(utils.ErrorLogger, sinks...),
	}

	secret := []byte(cfg.JWTSecret)
	r := router.SetupRouter(router.Controllers{
		Users:        controllers.NewUserController(db, secret, cfg.TokenTTL),
		Tables:       controllers.NewTableController(services.NewTableRegistry(deps)),
		Commands:     controllers.NewCommandController(services.NewCommandService(deps, cfg.ActiveCommandStatuses...)),
		Orders:       controllers.NewOrderController(services.NewOrderService(deps, cfg.ForeignOptionPolicy())),
		CashSessions: controllers.NewCashSessionController(services.NewCashSessionService(deps)),
		KDS:          controllers.NewKDSController(hub),
	}, router.Options{
		JWTSecret:    secret,
		CORSOrigins:  cfg.CORSOrigins,
		RateLimitRPS: cfg.RateLimitRPS,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	utils.InfoLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
