// Package config reads settings from .env, an optional application.yml and
// the environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/yeremiapane/restaurant-ops/domain"
)

type Config struct {
	Port                   string
	GinMode                string
	DBDriver               string
	DBDSN                  string
	JWTSecret              string
	LogLevel               string
	RedisAddr              string
	LockTTL                time.Duration
	RabbitMQURL            string
	RabbitMQExchange       string
	KafkaBrokers           []string
	KafkaTopic             string
	ActiveCommandStatuses  []domain.CommandStatus
	RejectForeignModifiers bool
	RateLimitRPS           float64
	CORSOrigins            []string
	TokenTTL               time.Duration
}

var defaults = map[string]any{
	"PORT":                     "8080",
	"GIN_MODE":                 "debug",
	"DB_DRIVER":                "sqlite",
	"DB_DSN":                   "file:restaurant-ops.db?cache=shared",
	"JWT_SECRET":               "",
	"LOG_LEVEL":                "info",
	"REDIS_ADDR":               "",
	"LOCK_TTL":                 "10s",
	"RABBITMQ_URL":             "",
	"RABBITMQ_EXCHANGE":        "restaurant-ops.events",
	"KAFKA_BROKERS":            "",
	"KAFKA_TOPIC":              "restaurant-ops.events",
	"ACTIVE_COMMAND_STATUSES":  "OPEN",
	"REJECT_FOREIGN_MODIFIERS": true,
	"RATE_LIMIT_RPS":           50.0,
	"CORS_ORIGINS":             "*",
	"TOKEN_TTL":                "12h",
}

// Load builds the configuration. A missing .env or application.yml is not an
// error.
func Load(paths ...string) (Config, error) {
	// .env only fills variables that are not already set
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName("application")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read application.yml: %w", err)
		}
	}
	v.AutomaticEnv()

	cfg := Config{
		Port:                   v.GetString("PORT"),
		GinMode:                v.GetString("GIN_MODE"),
		DBDriver:               strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:                  v.GetString("DB_DSN"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		RedisAddr:              v.GetString("REDIS_ADDR"),
		LockTTL:                v.GetDuration("LOCK_TTL"),
		RabbitMQURL:            v.GetString("RABBITMQ_URL"),
		RabbitMQExchange:       v.GetString("RABBITMQ_EXCHANGE"),
		KafkaBrokers:           splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:             v.GetString("KAFKA_TOPIC"),
		RejectForeignModifiers: v.GetBool("REJECT_FOREIGN_MODIFIERS"),
		RateLimitRPS:           v.GetFloat64("RATE_LIMIT_RPS"),
		CORSOrigins:            splitList(v.GetString("CORS_ORIGINS")),
		TokenTTL:               v.GetDuration("TOKEN_TTL"),
	}

	for _, raw := range splitList(v.GetString("ACTIVE_COMMAND_STATUSES")) {
		st := domain.CommandStatus(strings.ToUpper(raw))
		if !st.Valid() {
			return Config{}, fmt.Errorf("ACTIVE_COMMAND_STATUSES: unknown command status %q", raw)
		}
		cfg.ActiveCommandStatuses = append(cfg.ActiveCommandStatuses, st)
	}
	if !lo.Contains(cfg.ActiveCommandStatuses, domain.CommandOpen) {
		cfg.ActiveCommandStatuses = append(cfg.ActiveCommandStatuses, domain.CommandOpen)
	}

	if cfg.DBDriver != "mysql" && cfg.DBDriver != "sqlite" {
		return Config{}, fmt.Errorf("DB_DRIVER must be mysql or sqlite, got %q", cfg.DBDriver)
	}
	if cfg.LockTTL <= 0 {
		return Config{}, fmt.Errorf("LOCK_TTL must be positive, got %s", cfg.LockTTL)
	}
	if cfg.RateLimitRPS <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", cfg.RateLimitRPS)
	}
	return cfg, nil
}

// ForeignOptionPolicy maps REJECT_FOREIGN_MODIFIERS to the validator policy.
func (c Config) ForeignOptionPolicy() domain.ForeignOptionPolicy {
	return lo.Ternary(c.RejectForeignModifiers, domain.RejectForeignOptions, domain.IgnoreForeignOptions)
}

func splitList(raw string) []string {
	parts := lo.Map(strings.Split(raw, ","), func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Compact(parts)
}
