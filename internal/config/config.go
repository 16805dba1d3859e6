package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Sher-V/play-today-admin/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Club       ClubConfig       `yaml:"club"`
	Courts     []CourtConfig    `yaml:"courts"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Payments   PaymentsConfig   `yaml:"payments"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

// ClubConfig describes the facility itself: working hours and the
// default rate table used when a court has no pricing of its own.
type ClubConfig struct {
	OpeningTime models.ClockTime  `yaml:"opening_time"`
	ClosingTime models.ClockTime  `yaml:"closing_time"`
	Pricing     *models.RateTable `yaml:"pricing"`
}

// CourtConfig seeds a court on startup. Seeding is idempotent: a court
// that already exists by name is left untouched.
type CourtConfig struct {
	Name      string            `yaml:"name"`
	SortOrder int64             `yaml:"sort_order"`
	Pricing   *models.RateTable `yaml:"pricing"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	CacheTTL int    `yaml:"cache_ttl_seconds"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Interval      string `yaml:"interval"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	Port      int                `yaml:"port"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	HeaderExtra  string         `yaml:"header_extra"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Extra       string   `yaml:"extra"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type PaymentsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	ShopID    string `yaml:"shop_id"`
	SecretKey string `yaml:"secret_key"`
	BaseURL   string `yaml:"base_url"`
	ReturnURL string `yaml:"return_url"`
	Currency  string `yaml:"currency"`
}

type ExportConfig struct {
	Path      string `yaml:"path"`
	RangeDays int    `yaml:"range_days"`
}

func Load(configPath string) (*Config, error) {
	// .env не обязателен: в проде переменные приходят из окружения
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if !c.Club.OpeningTime.Valid() {
		return fmt.Errorf("invalid club opening time %q", c.Club.OpeningTime)
	}
	if !c.Club.ClosingTime.Valid() {
		return fmt.Errorf("invalid club closing time %q", c.Club.ClosingTime)
	}
	openMin, _ := c.Club.OpeningTime.Minutes()
	closeMin, _ := c.Club.ClosingTime.Minutes()
	if openMin >= closeMin {
		return errors.New("club opening time must be before closing time")
	}

	if err := ValidateCourts(c.Courts); err != nil {
		return err
	}

	if c.Payments.Enabled {
		if c.Payments.ShopID == "" || c.Payments.SecretKey == "" {
			return errors.New("payments enabled but shop_id or secret_key is missing")
		}
	}

	return nil
}

func ValidateCourts(courts []CourtConfig) error {
	names := make(map[string]bool)
	for _, court := range courts {
		if court.Name == "" {
			return errors.New("court with empty name in config")
		}
		if names[court.Name] {
			return fmt.Errorf("duplicate court name found: %s", court.Name)
		}
		names[court.Name] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Club.OpeningTime == "" {
		c.Club.OpeningTime = "08:00"
	}
	if c.Club.ClosingTime == "" {
		c.Club.ClosingTime = "22:00"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	// auth enabled by default when API is enabled
	if c.API.Enabled && !c.API.Auth.Enabled {
		c.API.Auth.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = models.DefaultScheduleCacheTTL
	}
	if c.Payments.BaseURL == "" {
		c.Payments.BaseURL = "https://api.yookassa.ru/v3"
	}
	if c.Payments.Currency == "" {
		c.Payments.Currency = "RUB"
	}
	if c.Exports.RangeDays == 0 {
		c.Exports.RangeDays = models.DefaultExportRangeDays
	}
}
