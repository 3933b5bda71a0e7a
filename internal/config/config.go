package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	DatabaseURL        string        `envconfig:"DATABASE_URL" required:"true"`
	BookingTxTimeout   time.Duration `envconfig:"BOOKING_TX_TIMEOUT" default:"3s"`
	BookingLockTimeout time.Duration `envconfig:"BOOKING_LOCK_TIMEOUT" default:"1s"`
	// HTTP
	Port        int    `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty   bool   `envconfig:"LOG_PRETTY" default:"false"`
	// JWT
	JWTSecret string        `envconfig:"JWT_SECRET"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
	JWKSURL   string        `envconfig:"JWKS_URL"`
	// Redis
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	// MinIO
	MinioEndpoint      string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey     string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	MinioSecretKey     string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	MinioBucket        string `envconfig:"MINIO_BUCKET" default:"course-images"`
	MinioPublicBaseURL string `envconfig:"MINIO_PUBLIC_URL"`
	MinioUseSSL        bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	// Events
	RabbitURL       string `envconfig:"RABBIT_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"fairway.bookings"`
	// Tracing
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// Guest bookings allowed per client IP per hour
	GuestBookingRateLimit int `envconfig:"GUEST_BOOKING_RATE_LIMIT" default:"10"`
	// Background processing
	WorkerEnabled    bool `envconfig:"WORKER_ENABLED" default:"true"`
	SchedulerEnabled bool `envconfig:"SCHEDULER_ENABLED" default:"true"`

	// Worker holds queue and scheduler tuning from the optional TOML file.
	Worker WorkerConfig `ignored:"true"`
}

// Load reads .env (when present), the optional TOML file named by
// FAIRWAY_CONFIG, and then the process environment.
func Load() (App, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return App{}, fmt.Errorf("load .env: %w", err)
	}

	var c App
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}

	c.Worker = DefaultWorkerConfig()
	if path := os.Getenv("FAIRWAY_CONFIG"); path != "" {
		w, err := LoadWorkerConfig(path)
		if err != nil {
			return c, err
		}
		c.Worker = *w
	}
	return c, nil
}
