package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"restaurant/utils"
)

// Config is read from the environment, optionally seeded by a .env file.
// Keys are the upper-cased mapstructure names, e.g. MONGO_URI.
type Config struct {
	Port string `mapstructure:"port"`

	MongoURI          string        `mapstructure:"mongo_uri"`
	MongoDatabase     string        `mapstructure:"mongo_database"`
	MongoTimeout      time.Duration `mapstructure:"mongo_timeout"`
	MongoTransactions string        `mapstructure:"mongo_transactions"`

	DataDir              string `mapstructure:"data_dir"`
	PreferRemote         bool   `mapstructure:"prefer_remote"`
	LocalOnlyCollections string `mapstructure:"local_only_collections"`
	CacheCapacity        uint64 `mapstructure:"cache_capacity"`

	JWTSecret string `mapstructure:"jwt_secret"`

	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`
	SMTPFrom     string `mapstructure:"smtp_from"`
	AlertEmail   string `mapstructure:"alert_email"`

	Timezone    string `mapstructure:"timezone"`
	AnalyticsAt string `mapstructure:"analytics_at"`

	MigrationThreshold    float64       `mapstructure:"migration_threshold"`
	MigrationReportMaxAge time.Duration `mapstructure:"migration_report_max_age"`

	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`

	CORSOrigins  string `mapstructure:"cors_origins"`
	MetricsAllow string `mapstructure:"metrics_allow"`
}

var defaults = map[string]any{
	"port":                     "1414",
	"mongo_uri":                "",
	"mongo_database":           "restaurant",
	"mongo_timeout":            "10s",
	"mongo_transactions":       "auto",
	"data_dir":                 "./data",
	"prefer_remote":            true,
	"local_only_collections":   "",
	"cache_capacity":           1024,
	"jwt_secret":               "",
	"smtp_host":                "",
	"smtp_port":                587,
	"smtp_username":            "",
	"smtp_password":            "",
	"smtp_from":                "",
	"alert_email":              "",
	"timezone":                 "Asia/Kolkata",
	"analytics_at":             "03:00",
	"migration_threshold":      0.5,
	"migration_report_max_age": "15m",
	"log_file":                 "",
	"log_level":                "info",
	"cors_origins":             "http://localhost:3000",
	"metrics_allow":            "127.0.0.1",
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is empty, admin login will not work")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) LocalOnly() []string { return splitList(c.LocalOnlyCollections) }

func (c *Config) AllowedOrigins() []string { return splitList(c.CORSOrigins) }

func (c *Config) MetricsClients() []string { return splitList(c.MetricsAllow) }

// UsesMongo is false when no MONGO_URI is set; everything then runs on the local files.
func (c *Config) UsesMongo() bool { return c.MongoURI != "" }

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// MailEnabled reports whether stock alerts can be sent.
func (c *Config) MailEnabled() bool { return c.SMTPHost != "" && c.AlertEmail != "" }

func (c *Config) SMTP() utils.SMTPConfig {
	from := c.SMTPFrom
	if from == "" {
		from = c.SMTPUsername
	}
	return utils.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUsername,
		Password: c.SMTPPassword,
		From:     from,
	}
}
