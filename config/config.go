package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Admin      AdminConfig
	Scheduling SchedulingConfig
	Mail       MailConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// AdminConfig holds the administrative login credentials. The admin account is
// provisioned through the environment, not stored in the database.
type AdminConfig struct {
	Username string
	Password string
}

// SchedulingConfig carries the two slot granularities used by the system.
// WindowGranularityMinutes validates doctor availability window boundaries
// (admin-facing definition, default 30). BookingGranularityMinutes expands
// windows into the bookable slots shown to patients (default 15).
type SchedulingConfig struct {
	WindowGranularityMinutes  int
	BookingGranularityMinutes int
	LockTTL                   time.Duration
}

type MailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	windowGranularity := viper.GetInt("SCHEDULING_WINDOW_GRANULARITY")
	if windowGranularity <= 0 {
		windowGranularity = 30
	}

	bookingGranularity := viper.GetInt("SCHEDULING_BOOKING_GRANULARITY")
	if bookingGranularity <= 0 {
		bookingGranularity = 15
	}

	lockTTL, err := time.ParseDuration(viper.GetString("SCHEDULING_LOCK_TTL"))
	if err != nil {
		lockTTL = 5 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Admin: AdminConfig{
			Username: viper.GetString("ADMIN_USERNAME"),
			Password: viper.GetString("ADMIN_PASSWORD"),
		},
		Scheduling: SchedulingConfig{
			WindowGranularityMinutes:  windowGranularity,
			BookingGranularityMinutes: bookingGranularity,
			LockTTL:                   lockTTL,
		},
		Mail: MailConfig{
			SendGridAPIKey: viper.GetString("SENDGRID_API_KEY"),
			FromEmail:      viper.GetString("MAIL_FROM_EMAIL"),
			FromName:       viper.GetString("MAIL_FROM_NAME"),
		},
	}

	return config, nil
}
