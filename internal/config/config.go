package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	commoncfg "github.com/MPanduranga55/Contact-Book/internal/common/config"

	"github.com/caarlos0/env/v11"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	EventsNone  = "none"
	EventsRedis = "redis"
	EventsMQTT  = "mqtt"
)

// Config contactbook（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr              string        `env:"HTTP_ADDR" envDefault:":5000"`
		Port              string        `env:"PORT"`
		CORSOrigin        string        `env:"HTTP_CORS_ORIGIN" envDefault:"*"`
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
		ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}
	DBEnabled bool                     `env:"DB_ENABLED" envDefault:"true"`
	DBDriver  string                   `env:"DB_DRIVER" envDefault:"sqlite"`
	Database  commoncfg.DatabaseConfig `envPrefix:"DB_"`
	SQLite    commoncfg.SQLiteConfig   `envPrefix:"SQLITE_"`
	Redis     commoncfg.RedisConfig    `envPrefix:"REDIS_"`
	MQTT      commoncfg.MQTTConfig     `envPrefix:"MQTT_"`
	Events    struct {
		Backend string `env:"EVENTS_BACKEND" envDefault:"none"`
		Stream  string `env:"EVENTS_STREAM" envDefault:"contactbook:events"`
		MaxLen  int64  `env:"EVENTS_STREAM_MAXLEN" envDefault:"10000"`
		Topic   string `env:"EVENTS_TOPIC" envDefault:"contactbook/events"`
	}
	RateLimit struct {
		Enabled           bool    `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
		RPS               float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
		Burst             int     `env:"RATE_LIMIT_BURST" envDefault:"40"`
		TrustForwardedFor bool    `env:"RATE_LIMIT_TRUST_FORWARDED_FOR" envDefault:"false"` // 反向代理之后按 X-Forwarded-For 第一跳区分客户端
	}
	Log struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
	}
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// PORT 兼容常见 PaaS 约定，只替换端口部分
	if cfg.HTTP.Port != "" {
		host, _, err := net.SplitHostPort(cfg.HTTP.Addr)
		if err != nil {
			host = ""
		}
		cfg.HTTP.Addr = net.JoinHostPort(host, cfg.HTTP.Port)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.Events.Backend = strings.ToLower(strings.TrimSpace(cfg.Events.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.Events.Backend {
	case EventsNone, EventsRedis, EventsMQTT:
	default:
		return fmt.Errorf("config: unsupported EVENTS_BACKEND %q", c.Events.Backend)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}
