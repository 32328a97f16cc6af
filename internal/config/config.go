package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the analytics service.
type Config struct {
	AppName  string
	AppEnv   string
	AppPort  string
	LogLevel string

	DatabaseDriver string
	DatabaseURL    string

	MongoURI            string
	MongoDatabase       string
	MongoConnectTimeout time.Duration
	DocStoreFallback    bool

	RedisURL string

	NATSURL           string
	NATSSubjectPrefix string

	SerializeMetricUpserts bool
	LockTTL                time.Duration

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EDUCOLLAB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "EduCollab Analytics")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017/")
	v.SetDefault("mongo.db_name", "educollab_nosql")
	v.SetDefault("mongo.connect_timeout", "5s")
	v.SetDefault("docstore.fallback", true)
	v.SetDefault("nats.subject_prefix", "educollab.analytics")
	v.SetDefault("analytics.serialize_metric_upserts", false)
	v.SetDefault("analytics.lock_ttl", "5s")
	v.SetDefault("ratelimit.max", 120)
	v.SetDefault("ratelimit.window", "1m")

	connectTimeout, err := parseDuration(v, "mongo.connect_timeout")
	if err != nil {
		return Config{}, err
	}
	lockTTL, err := parseDuration(v, "analytics.lock_ttl")
	if err != nil {
		return Config{}, err
	}
	window, err := parseDuration(v, "ratelimit.window")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		LogLevel:               strings.ToLower(v.GetString("app.log_level")),
		DatabaseDriver:         strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
		DatabaseURL:            v.GetString("database.url"),
		MongoURI:               v.GetString("mongo.uri"),
		MongoDatabase:          v.GetString("mongo.db_name"),
		MongoConnectTimeout:    connectTimeout,
		DocStoreFallback:       v.GetBool("docstore.fallback"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		NATSSubjectPrefix:      v.GetString("nats.subject_prefix"),
		SerializeMetricUpserts: v.GetBool("analytics.serialize_metric_upserts"),
		LockTTL:                lockTTL,
		RateLimitMax:           v.GetInt("ratelimit.max"),
		RateLimitWindow:        window,
	}

	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.MongoDatabase == "" {
		return Config{}, fmt.Errorf("document store database name must be provided")
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 120
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
