package config

import (
	"github.com/ShareIt-Platform/service-sharing/internal/common/config"
)

// ServiceConfig holds all configuration for the sharing server and gateway.
type ServiceConfig struct {
	Port            string
	AppEnv          string
	DBConfig        config.DatabaseConfig
	KafkaConfig     config.KafkaConfig
	RedisConfig     config.RedisConfig
	RateLimitConfig config.RateLimitConfig
	MigrationsDir   string
	EventsTopic     string
	GatewayPort     string
	GatewayUpstream string
}

// Load reads configuration from SHAREIT_* environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("SHAREIT")
	if err != nil {
		return nil, err
	}
	v.SetDefault("SERVICE_PORT", "9090")
	v.SetDefault("DB_NAME", "shareit")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("EVENTS_TOPIC", "booking.events")
	v.SetDefault("GATEWAY_PORT", "8080")
	v.SetDefault("GATEWAY_UPSTREAM", "http://localhost:9090")

	return &ServiceConfig{
		Port:            config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:          config.GetAppEnv(v),
		DBConfig:        config.LoadDatabaseConfig(v, "DB_NAME"),
		KafkaConfig:     config.LoadKafkaConfig(v),
		RedisConfig:     config.LoadRedisConfig(v),
		RateLimitConfig: config.LoadRateLimitConfig(v),
		MigrationsDir:   v.GetString("MIGRATIONS_DIR"),
		EventsTopic:     v.GetString("EVENTS_TOPIC"),
		GatewayPort:     config.GetServicePort(v, "GATEWAY_PORT"),
		GatewayUpstream: v.GetString("GATEWAY_UPSTREAM"),
	}, nil
}
