package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Security   SecurityConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NATS       NATSConfig
	CloudWatch CloudWatchConfig
	Dynamo     DynamoConfig
	Engine     EngineConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type SecurityConfig struct {
	AuthEnabled    bool
	AuthToken      string
	RateLimitRPS   float64
	RateLimitBurst int
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	TTL          time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type NATSConfig struct {
	Enabled         bool
	URL             string
	ConsumerEnabled bool
	ConsumerRate    float64
	ConsumerBurst   int
}

type CloudWatchConfig struct {
	MetricsEnabled           bool
	MetricsNamespace         string
	MetricsDimensions        map[string]string
	MetricsBufferSize        int
	MetricsFlushInterval     time.Duration
	MetricsStorageResolution int32
	LogsEnabled              bool
	LogGroupName             string
	LogStreamName            string
	LogsBufferSize           int
	LogsFlushInterval        time.Duration
	Region                   string
	Endpoint                 string
	AccessKeyID              string
	SecretAccessKey          string
}

type DynamoConfig struct {
	Enabled            bool
	TableAlertSnapshot string
	Region             string
	Endpoint           string
	AccessKeyID        string
	SecretAccessKey    string
	StrongReads        bool
}

type EngineConfig struct {
	FleetScanInterval time.Duration
	AnticipationHours float64
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	redisTTL, err := parseDuration(getEnv("REDIS_CACHE_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_CACHE_TTL: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	consumerRate, err := strconv.ParseFloat(getEnv("NATS_CONSUMER_RATE", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid NATS_CONSUMER_RATE: %w", err)
	}

	consumerBurst, err := strconv.Atoi(getEnv("NATS_CONSUMER_BURST", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid NATS_CONSUMER_BURST: %w", err)
	}

	metricsFlushInterval, err := parseDuration(getEnv("CLOUDWATCH_METRICS_FLUSH_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_METRICS_FLUSH_INTERVAL: %w", err)
	}

	logsFlushInterval, err := parseDuration(getEnv("CLOUDWATCH_LOGS_FLUSH_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_LOGS_FLUSH_INTERVAL: %w", err)
	}

	fleetScanInterval, err := parseDuration(getEnv("FLEET_SCAN_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid FLEET_SCAN_INTERVAL: %w", err)
	}

	anticipationHours, err := strconv.ParseFloat(getEnv("ENGINE_ANTICIPATION_HOURS", "50"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_ANTICIPATION_HOURS: %w", err)
	}

	rateLimitRPS, err := strconv.ParseFloat(getEnv("API_RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid API_RATE_LIMIT_RPS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AuthEnabled:    getEnvBool("AUTH_ENABLED", false),
			AuthToken:      getEnv("AUTH_BEARER_TOKEN", ""),
			RateLimitRPS:   rateLimitRPS,
			RateLimitBurst: 10,
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "fleet_maintenance"),
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 10 * time.Minute,
		},
		Redis: RedisConfig{
			Enabled:      getEnvBool("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           redisDB,
			TTL:          redisTTL,
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		NATS: NATSConfig{
			Enabled:         getEnvBool("NATS_ENABLED", true),
			URL:             getEnv("NATS_URL", "nats://localhost:4222"),
			ConsumerEnabled: getEnvBool("NATS_CONSUMER_ENABLED", true),
			ConsumerRate:    consumerRate,
			ConsumerBurst:   consumerBurst,
		},
		CloudWatch: CloudWatchConfig{
			MetricsEnabled:   getEnvBool("CLOUDWATCH_METRICS_ENABLED", false),
			MetricsNamespace: getEnv("CLOUDWATCH_METRICS_NAMESPACE", "FleetMaintenance/Engine"),
			MetricsDimensions: map[string]string{
				"Environment": getEnv("ENVIRONMENT", "production"),
				"Service":     "fleet-maintenance-engine",
			},
			MetricsBufferSize:        20,
			MetricsFlushInterval:     metricsFlushInterval,
			MetricsStorageResolution: 60,
			LogsEnabled:              getEnvBool("CLOUDWATCH_LOGS_ENABLED", false),
			LogGroupName:             getEnv("CLOUDWATCH_LOG_GROUP", "/fleet-maintenance/engine"),
			LogStreamName:            getEnv("CLOUDWATCH_LOG_STREAM", "engine-events"),
			LogsBufferSize:           100,
			LogsFlushInterval:        logsFlushInterval,
			Region:                   getEnv("CLOUDWATCH_REGION", "us-east-1"),
			Endpoint:                 getEnv("CLOUDWATCH_ENDPOINT", ""),
			AccessKeyID:              getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey:          getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Dynamo: DynamoConfig{
			Enabled:            getEnvBool("DYNAMO_ENABLED", false),
			TableAlertSnapshot: getEnv("DYNAMO_TABLE_ALERT_SNAPSHOT", "fleet-alert-snapshots"),
			Region:             getEnv("DYNAMO_REGION", "us-east-1"),
			Endpoint:           getEnv("DYNAMO_ENDPOINT", ""),
			AccessKeyID:        getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
			StrongReads:        getEnvBool("DYNAMO_STRONG_READS", false),
		},
		Engine: EngineConfig{
			FleetScanInterval: fleetScanInterval,
			AnticipationHours: anticipationHours,
		},
	}

	if cfg.Security.AuthEnabled && cfg.Security.AuthToken == "" {
		return nil, fmt.Errorf("AUTH_BEARER_TOKEN is required when AUTH_ENABLED=true")
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
