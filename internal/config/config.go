package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Backup  BackupConfig  `mapstructure:"backup"`
	Session SessionConfig `mapstructure:"session"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Search  SearchConfig  `mapstructure:"search"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type BackupConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Dir      string `mapstructure:"dir"`
	Schedule string `mapstructure:"schedule"`
}

type SessionConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
	// PurgeSchedule is the cron spec for deleting expired sessions
	PurgeSchedule string `mapstructure:"purge_schedule"`
}

type AuthConfig struct {
	LoginRate  int `mapstructure:"login_rate"`
	LoginBurst int `mapstructure:"login_burst"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type SearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const envPrefix = "MARKET"

var defaults = map[string]any{
	"server.addr":            ":8080",
	"server.mode":            "release",
	"db.driver":              "sqlite",
	"db.path":                "data/marketplace.db",
	"db.dsn":                 "",
	"db.max_open_conns":      10,
	"db.max_idle_conns":      5,
	"db.conn_max_lifetime":   30 * time.Minute,
	"backup.enabled":         true,
	"backup.dir":             "data/backups",
	"backup.schedule":        "@daily",
	"session.ttl":            24 * time.Hour,
	"session.cookie_name":    "session_token",
	"session.secure":         false,
	"session.purge_schedule": "@hourly",
	"auth.login_rate":        10,
	"auth.login_burst":       5,
	"kafka.brokers":          []string{},
	"kafka.topic":            "marketplace-events",
	"search.addresses":       []string{},
	"search.username":        "",
	"search.password":        "",
	"search.index":           "listings",
	"log.level":              "info",
	"log.format":             "json",
}

// LoadConfig loads configuration from an optional config file, a .env file and MARKET_* environment variables.
// An empty path searches the default locations for config.yaml.
func LoadConfig(path string) (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./")
		v.AddConfigPath("./config/")
		v.AddConfigPath("/etc/auction-marketplace/")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)
	cfg.Search.Addresses = splitList(cfg.Search.Addresses)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration can be used to start the service
func (c *Config) Validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case "sqlite", "sqlite3":
		if c.DB.Path == "" {
			return errors.New("config: db.path is required for the sqlite driver")
		}
	case "mysql", "postgres", "postgresql", "pgx":
		if c.DB.DSN == "" {
			return fmt.Errorf("config: db.dsn is required for the %s driver", c.DB.Driver)
		}
	default:
		return fmt.Errorf("config: unsupported db.driver %q", c.DB.Driver)
	}

	if c.Session.TTL <= 0 {
		return errors.New("config: session.ttl must be positive")
	}
	if c.Backup.Enabled && c.Backup.Dir == "" {
		return errors.New("config: backup.dir is required when backups are enabled")
	}
	return nil
}

// splitList accepts both yaml lists and comma separated environment values
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
