package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Environment string           `yaml:"environment"`
	Server      ServerConfig     `yaml:"server"`
	MQTT        MQTTConfig       `yaml:"mqtt"`
	Database    DatabaseConfig   `yaml:"database"`
	Home        HomeConfig       `yaml:"home"`
	Analytics   AnalyticsConfig  `yaml:"analytics"`
	Push        PushConfig       `yaml:"push"`
	WorkerPool  WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// MQTTConfig holds the connection settings for the sensor ingest broker.
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// HomeConfig is the fixed home coordinate used for presence classification.
type HomeConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// AnalyticsConfig holds the tuning knobs for the trend analyzers.
type AnalyticsConfig struct {
	ActivityLowThreshold  float64 `yaml:"activity_low_threshold"`
	ActivityHighThreshold float64 `yaml:"activity_high_threshold"`
	PeriodDays            int     `yaml:"period_days"`
}

// PushConfig holds the VAPID keys for lost-pet web push alerts.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the alert worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CacheTTL returns the response cache TTL as a duration.
func (c *ServerConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "tagcly/pet/+/sensors"
	}
	if cfg.MQTT.QoS > 2 {
		log.Printf("mqtt.qos %d is invalid; defaulting to 1", cfg.MQTT.QoS)
		cfg.MQTT.QoS = 1
	}

	if cfg.Home.Latitude == 0 && cfg.Home.Longitude == 0 {
		cfg.Home.Latitude = 40.7128
		cfg.Home.Longitude = -74.006
	}

	if cfg.Analytics.ActivityLowThreshold <= 0 {
		cfg.Analytics.ActivityLowThreshold = 30
	}
	if cfg.Analytics.ActivityHighThreshold <= 0 {
		cfg.Analytics.ActivityHighThreshold = 70
	}
	if cfg.Analytics.PeriodDays <= 0 {
		cfg.Analytics.PeriodDays = 7
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
