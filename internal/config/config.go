package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	RocketMQ RocketMQConfig `mapstructure:"rocketmq"`
	Links    LinksConfig    `mapstructure:"links"`
	Tracking TrackingConfig `mapstructure:"tracking"`
	Stats    StatsConfig    `mapstructure:"stats"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port          int    `mapstructure:"port"`
	Mode          string `mapstructure:"mode"`
	BaseURL       string `mapstructure:"base_url"`
	SessionCookie string `mapstructure:"session_cookie"`
	// AdminHeader is set by the edge layer for authenticated administrators.
	AdminHeader   string `mapstructure:"admin_header"`
	CountryHeader string `mapstructure:"country_header"`
	RegionHeader  string `mapstructure:"region_header"`
}

// LogConfig represents logger configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// RedisConfig represents Redis configuration. An empty Addr selects the
// in-memory store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MySQLConfig represents the click archive database configuration
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RocketMQConfig represents RocketMQ configuration
type RocketMQConfig struct {
	NameServer string `mapstructure:"nameserver"`
	Topic      string `mapstructure:"topic"`
	Group      string `mapstructure:"group"`
}

// LinksConfig represents link registry configuration
type LinksConfig struct {
	SlugLength      int   `mapstructure:"slug_length"`
	MaxSlugRetries  int   `mapstructure:"max_slug_retries"`
	OwnerCanDelete  bool  `mapstructure:"owner_can_delete"`
	CreateRateLimit int64 `mapstructure:"create_rate_limit"`
	ListPageSize    int64 `mapstructure:"list_page_size"`
	ListPageMax     int64 `mapstructure:"list_page_max"`
}

// TrackingConfig represents click tracking configuration
type TrackingConfig struct {
	RateLimit    int64         `mapstructure:"rate_limit"`
	RateWindow   time.Duration `mapstructure:"rate_window"`
	DayBucketTTL time.Duration `mapstructure:"day_bucket_ttl"`
	Workers      int           `mapstructure:"workers"`
	QueueSize    int           `mapstructure:"queue_size"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// StatsConfig represents statistics report configuration
type StatsConfig struct {
	Days int   `mapstructure:"days"`
	TopN int64 `mapstructure:"top_n"`
}

// Load loads configuration from file. A missing file is not an error when
// configPath is empty; defaults and environment variables still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	v.SetEnvPrefix("SHORTLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand environment variables
	cfg.Redis.Password = expandEnv(cfg.Redis.Password)
	cfg.MySQL.DSN = expandEnv(cfg.MySQL.DSN)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Links.SlugLength < 4 {
		return fmt.Errorf("links.slug_length must be at least 4, got %d", c.Links.SlugLength)
	}
	if c.Links.MaxSlugRetries < 1 {
		return fmt.Errorf("links.max_slug_retries must be positive, got %d", c.Links.MaxSlugRetries)
	}
	if c.Tracking.RateLimit < 1 || c.Tracking.RateWindow <= 0 {
		return fmt.Errorf("tracking rate limit must be positive")
	}
	if c.Tracking.Workers < 1 || c.Tracking.QueueSize < 1 {
		return fmt.Errorf("tracking.workers and tracking.queue_size must be positive")
	}
	if c.Stats.Days < 1 || c.Stats.TopN < 1 {
		return fmt.Errorf("stats.days and stats.top_n must be positive")
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.session_cookie", "sid")
	v.SetDefault("server.admin_header", "X-Shortlink-Admin")
	v.SetDefault("server.country_header", "X-Geo-Country")
	v.SetDefault("server.region_header", "X-Geo-Region")

	v.SetDefault("log.level", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("mysql.dsn", "")
	v.SetDefault("rocketmq.nameserver", "")
	v.SetDefault("rocketmq.topic", "click_events")
	v.SetDefault("rocketmq.group", "shortlink_click_group")

	v.SetDefault("links.slug_length", 7)
	v.SetDefault("links.max_slug_retries", 10)
	v.SetDefault("links.owner_can_delete", false)
	v.SetDefault("links.create_rate_limit", 10)
	v.SetDefault("links.list_page_size", 50)
	v.SetDefault("links.list_page_max", 100)

	v.SetDefault("tracking.rate_limit", 100)
	v.SetDefault("tracking.rate_window", time.Minute)
	v.SetDefault("tracking.day_bucket_ttl", 30*24*time.Hour)
	v.SetDefault("tracking.workers", 4)
	v.SetDefault("tracking.queue_size", 1024)
	v.SetDefault("tracking.timeout", 5*time.Second)

	v.SetDefault("stats.days", 14)
	v.SetDefault("stats.top_n", 10)
}

// expandEnv expands ${VAR} references in the string
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	return s
}
