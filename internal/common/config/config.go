package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// KafkaConfig holds Kafka broker settings. An empty broker list disables publishing.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// RedisConfig holds Redis connection settings. An empty address disables Redis.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	PoolSize int
}

// RateLimitConfig holds per-actor request limits.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads an optional .env file and returns a viper instance bound to
// environment variables with the given prefix (PREFIX_KEY).
func Load(prefix string) (*viper.Viper, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "shareit")
	v.SetDefault("DB_PASSWORD", "shareit")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("KAFKA_GROUP_PREFIX", "shareit-")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	return v, nil
}

// GetAppEnv returns the application environment name.
func GetAppEnv(v *viper.Viper) string {
	return v.GetString("APP_ENV")
}

// GetServicePort returns the listen address stored under key, always prefixed with ':'.
func GetServicePort(v *viper.Viper, key string) string {
	port := v.GetString(key)
	if port == "" {
		return ""
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

// LoadDatabaseConfig reads database settings. dbNameKey selects the database name variable.
func LoadDatabaseConfig(v *viper.Viper, dbNameKey string) DatabaseConfig {
	return DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetString("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		DBName:       v.GetString(dbNameKey),
		SSLMode:      v.GetString("DB_SSLMODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}
}

// LoadKafkaConfig reads a comma separated broker list.
func LoadKafkaConfig(v *viper.Viper) KafkaConfig {
	var brokers []string
	for _, b := range strings.Split(v.GetString("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return KafkaConfig{
		Brokers:     brokers,
		GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
	}
}

// LoadRedisConfig reads Redis settings.
func LoadRedisConfig(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Address:  v.GetString("REDIS_ADDRESS"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		PoolSize: v.GetInt("REDIS_POOL_SIZE"),
	}
}

// LoadRateLimitConfig reads rate limit settings.
func LoadRateLimitConfig(v *viper.Viper) RateLimitConfig {
	return RateLimitConfig{
		RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		Burst: v.GetInt("RATE_LIMIT_BURST"),
	}
}
