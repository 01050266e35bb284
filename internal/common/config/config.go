package config

import (
	"fmt"
	"net/url"
)

// DatabaseConfig PostgreSQL 连接配置
type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:"postgres"`
	Database string `env:"NAME" envDefault:"contactbook"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
	MaxConns int    `env:"MAX_CONNS" envDefault:"10"`
	MaxIdle  int    `env:"MAX_IDLE" envDefault:"5"`
}

// SQLiteConfig SQLite 文件配置
type SQLiteConfig struct {
	Path        string `env:"PATH" envDefault:"contacts.db"`
	BusyTimeout int    `env:"BUSY_TIMEOUT_MS" envDefault:"5000"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// MQTTConfig MQTT配置
type MQTTConfig struct {
	Broker   string `env:"BROKER" envDefault:"tcp://localhost:1883"`
	ClientID string `env:"CLIENT_ID" envDefault:"contactbook"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	QoS      byte   `env:"QOS" envDefault:"1"`
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// GetDSN builds the modernc.org/sqlite DSN. Pragmas are applied per connection.
func (c *SQLiteConfig) GetDSN() string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", c.BusyTimeout))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return c.Path + "?" + q.Encode()
}
