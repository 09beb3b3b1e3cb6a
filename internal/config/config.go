// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver        string `yaml:"driver" validate:"required,oneof=sqlite"`
	Filename      string `yaml:"filename" validate:"required"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms" validate:"gte=0"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
}

type ClubConfig struct {
	Name     string `yaml:"name"`
	Courts   int    `yaml:"courts" validate:"gte=1,lte=50"`
	Timezone string `yaml:"timezone" validate:"required"`
}

type BookingConfig struct {
	SlotMinutes     int `yaml:"slot_minutes" validate:"gte=15,lte=240"`
	LeadTimeMinutes int `yaml:"lead_time_minutes" validate:"gte=1,lte=1440"`
}

type EmailConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Region      string `yaml:"region" validate:"required_if=Enabled true"`
	FromAddress string `yaml:"from_address" validate:"omitempty,email"`
	// Loaded from environment
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

type SchedulerConfig struct {
	CleanupCron string `yaml:"cleanup_cron"`
}

type Config struct {
	App struct {
		Name            string        `yaml:"name" validate:"required"`
		Environment     string        `yaml:"environment" validate:"required,oneof=development test production"`
		Port            int           `yaml:"port" validate:"required,gt=0,lt=65536"`
		BaseURL         string        `yaml:"base_url" validate:"omitempty,url"`
		SessionTTL      time.Duration `yaml:"session_ttl"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		TrustProxy      bool          `yaml:"trust_proxy"`
		SecretKey       string        `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	Club      ClubConfig      `yaml:"club"`
	Booking   BookingConfig   `yaml:"booking"`
	Email     EmailConfig     `yaml:"email"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Features struct {
		EnableMetrics bool `yaml:"enable_metrics"`
		EnableDebug   bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// envOverrides holds values that may come from the process environment.
// Empty values leave the YAML setting untouched.
type envOverrides struct {
	SecretKey       string `envconfig:"APP_SECRET_KEY"`
	Environment     string `envconfig:"APP_ENVIRONMENT"`
	Port            int    `envconfig:"PORT"`
	DatabaseFile    string `envconfig:"DATABASE_FILENAME"`
	LogLevel        string `envconfig:"LOG_LEVEL"`
	SESAccessKeyID  string `envconfig:"SES_ACCESS_KEY_ID"`
	SESSecretKey    string `envconfig:"SES_SECRET_ACCESS_KEY"`
	SESFromAddress  string `envconfig:"SES_FROM_ADDRESS"`
	ClubTimezone    string `envconfig:"CLUB_TIMEZONE"`
	BookingSlotMins int    `envconfig:"BOOKING_SLOT_MINUTES"`
}

var validate = validator.New()

// Default returns a configuration populated with the values used when the YAML
// file leaves a setting out.
func Default() *Config {
	cfg := &Config{}
	cfg.App.Name = "courtbook"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.SessionTTL = time.Hour
	cfg.App.ShutdownTimeout = 30 * time.Second
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = "data/courtbook.db"
	cfg.Database.BusyTimeoutMS = 5000
	cfg.Logging.Level = "info"
	cfg.Logging.MaxSizeMB = 50
	cfg.Logging.MaxBackups = 5
	cfg.Logging.MaxAgeDays = 28
	cfg.Club.Name = "Tennisverein"
	cfg.Club.Courts = 3
	cfg.Club.Timezone = "Europe/Berlin"
	cfg.Booking.SlotMinutes = 60
	cfg.Booking.LeadTimeMinutes = 60
	cfg.Email.Region = "eu-central-1"
	cfg.Scheduler.CleanupCron = "15 3 * * *"
	return cfg
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults plus environment are enough to run locally.
	default:
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("error reading environment: %w", err)
	}

	c.App.SecretKey = env.SecretKey
	if env.Environment != "" {
		c.App.Environment = env.Environment
	}
	if env.Port != 0 {
		c.App.Port = env.Port
	}
	if env.DatabaseFile != "" {
		c.Database.Filename = env.DatabaseFile
	}
	if env.LogLevel != "" {
		c.Logging.Level = strings.ToLower(env.LogLevel)
	}
	if env.ClubTimezone != "" {
		c.Club.Timezone = env.ClubTimezone
	}
	if env.BookingSlotMins != 0 {
		c.Booking.SlotMinutes = env.BookingSlotMins
	}
	c.Email.AccessKeyID = env.SESAccessKeyID
	c.Email.SecretAccessKey = env.SESSecretKey
	if env.SESFromAddress != "" {
		c.Email.FromAddress = env.SESFromAddress
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("%s failed %q validation", first.Namespace(), first.Tag())
		}
		return err
	}

	if c.App.Environment != "development" && c.App.Environment != "test" && c.App.SecretKey == "" {
		return fmt.Errorf("APP_SECRET_KEY is required outside development")
	}
	if _, err := time.LoadLocation(c.Club.Timezone); err != nil {
		return fmt.Errorf("unknown club timezone %q: %w", c.Club.Timezone, err)
	}
	if c.Scheduler.CleanupCron != "" {
		if _, err := cron.ParseStandard(c.Scheduler.CleanupCron); err != nil {
			return fmt.Errorf("invalid cleanup cron %q: %w", c.Scheduler.CleanupCron, err)
		}
	}
	if c.Email.Enabled && c.Email.FromAddress == "" {
		return fmt.Errorf("email from_address is required when email is enabled")
	}

	return nil
}

// Location returns the club time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Club.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlotDuration is the length of one bookable slot.
func (c *Config) SlotDuration() time.Duration {
	return time.Duration(c.Booking.SlotMinutes) * time.Minute
}

// LeadTime is how far ahead of the current time a same-day booking must start.
func (c *Config) LeadTime() time.Duration {
	return time.Duration(c.Booking.LeadTimeMinutes) * time.Minute
}
