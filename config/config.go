package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisHoldDB   int    `mapstructure:"REDIS_HOLD_DB"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisWorkerDB int    `mapstructure:"REDIS_WORKER_DB"`

	// Booking rules.
	SlotWindowMinutes      int  `mapstructure:"SLOT_WINDOW_MINUTES"`
	SlotReservationMinutes int  `mapstructure:"SLOT_RESERVATION_MINUTES"`
	AvailabilityMaxDays    int  `mapstructure:"AVAILABILITY_MAX_DAYS"`
	AutoAssignDefault      bool `mapstructure:"AUTO_ASSIGN_DEFAULT"`

	// Worker cadence.
	EscalationIntervalMinutes    int `mapstructure:"ESCALATION_INTERVAL_MINUTES"`
	NotificationRetryIntervalMin int `mapstructure:"NOTIFICATION_RETRY_INTERVAL_MINUTES"`
	NotificationMaxRetries       int `mapstructure:"NOTIFICATION_MAX_RETRIES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_HOLD_DB", 0)
	viper.SetDefault("REDIS_LOCK_DB", 1)
	viper.SetDefault("REDIS_WORKER_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "fieldops")
	viper.SetDefault("SLOT_WINDOW_MINUTES", 120)
	viper.SetDefault("SLOT_RESERVATION_MINUTES", 5)
	viper.SetDefault("AVAILABILITY_MAX_DAYS", 14)
	viper.SetDefault("AUTO_ASSIGN_DEFAULT", false)
	viper.SetDefault("ESCALATION_INTERVAL_MINUTES", 15)
	viper.SetDefault("NOTIFICATION_RETRY_INTERVAL_MINUTES", 5)
	viper.SetDefault("NOTIFICATION_MAX_RETRIES", 3)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Rules carries the booking tunables a service needs at construction time.
// Services never read AppConfig directly; main assembles one of these and
// hands it down.
type Rules struct {
	SlotWindowMinutes   int
	HoldDuration        time.Duration
	AvailabilityMaxDays int
	AutoAssignDefault   bool

	// Escalation ladder thresholds: minutes of job age for levels 1..4.
	EscalationThresholds []int

	NotificationMaxRetries int
}

// DefaultRules mirrors the viper defaults; tests construct services from it.
func DefaultRules() Rules {
	return Rules{
		SlotWindowMinutes:      120,
		HoldDuration:           5 * time.Minute,
		AvailabilityMaxDays:    14,
		AutoAssignDefault:      false,
		EscalationThresholds:   []int{30, 120, 240, 1440},
		NotificationMaxRetries: 3,
	}
}

// RulesFromConfig builds the Rules value from the loaded AppConfig.
func RulesFromConfig() Rules {
	r := DefaultRules()
	if AppConfig.SlotWindowMinutes > 0 {
		r.SlotWindowMinutes = AppConfig.SlotWindowMinutes
	}
	if AppConfig.SlotReservationMinutes > 0 {
		r.HoldDuration = time.Duration(AppConfig.SlotReservationMinutes) * time.Minute
	}
	if AppConfig.AvailabilityMaxDays > 0 {
		r.AvailabilityMaxDays = AppConfig.AvailabilityMaxDays
	}
	if AppConfig.NotificationMaxRetries > 0 {
		r.NotificationMaxRetries = AppConfig.NotificationMaxRetries
	}
	r.AutoAssignDefault = AppConfig.AutoAssignDefault
	return r
}
