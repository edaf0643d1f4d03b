package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Reservation ReservationConfig
	Admin       AdminConfig
	Assets      AssetsConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	Timezone       string
	CORSOrigins    []string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type KafkaConfig struct {
	Brokers   []string
	SeatTopic string
}

type ReservationConfig struct {
	HoldTTL       time.Duration
	SweepInterval time.Duration
	UnitPrice     int64
	QRSecret      string
}

type AdminConfig struct {
	User         string
	PasswordHash string
}

type AssetsConfig struct {
	UploadDir string
}

// Location resolves the configured time zone used to derive showing keys.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "cinema-kiosk")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("APP_TIMEZONE", "Local")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("KAFKA_SEAT_TOPIC", "cinema.seats.status")
	v.SetDefault("HOLD_TTL_MINUTES", 20)
	v.SetDefault("EXPIRY_SWEEP_INTERVAL", "1m")
	v.SetDefault("TICKET_UNIT_PRICE", 200)
	v.SetDefault("ADMIN_USER", "admin")
	v.SetDefault("UPLOAD_DIR", "uploads/")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           v.GetString("APP_NAME"),
			Port:           v.GetString("PORT"),
			Debug:          v.GetBool("DEBUG"),
			LogPath:        v.GetString("LOG_PATH"),
			Timezone:       v.GetString("APP_TIMEZONE"),
			CORSOrigins:    splitCSV(v.GetString("CORS_ORIGINS")),
			RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CacheTTL: v.GetDuration("CACHE_TTL"),
		},
		Kafka: KafkaConfig{
			Brokers:   splitCSV(v.GetString("KAFKA_BROKERS")),
			SeatTopic: v.GetString("KAFKA_SEAT_TOPIC"),
		},
		Reservation: ReservationConfig{
			HoldTTL:       time.Duration(v.GetInt("HOLD_TTL_MINUTES")) * time.Minute,
			SweepInterval: v.GetDuration("EXPIRY_SWEEP_INTERVAL"),
			UnitPrice:     v.GetInt64("TICKET_UNIT_PRICE"),
			QRSecret:      v.GetString("QR_SECRET"),
		},
		Admin: AdminConfig{
			User:         v.GetString("ADMIN_USER"),
			PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		},
		Assets: AssetsConfig{
			UploadDir: v.GetString("UPLOAD_DIR"),
		},
	}

	return config, nil
}

func splitCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
