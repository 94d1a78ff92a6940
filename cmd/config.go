package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	HTTPPort    string
	StoreDriver string

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	DBAutoMigrate bool

	AuthSecret   string
	AuthTokenTTL time.Duration
	BcryptCost   int

	AdminName     string
	AdminEmail    string
	AdminPassword string

	AllowedOrigins    string
	LogLevel          string
	OpenAPIValidation bool
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration

	WSSendBuffer        int
	WSMessagesPerSecond float64
	WSBurst             int

	StatsSchedule        string
	HousekeepingSchedule string
	WatermarkIdle        time.Duration
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ordertracker")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("AUTH_TOKEN_TTL", "1h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("ADMIN_NAME", "Administrator")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OPENAPI_VALIDATION", true)
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("WS_SEND_BUFFER", 32)
	v.SetDefault("WS_MESSAGES_PER_SECOND", 5)
	v.SetDefault("WS_BURST", 10)
	v.SetDefault("STATS_SCHEDULE", "*/30 * * * * *")
	v.SetDefault("HOUSEKEEPING_SCHEDULE", "0 */5 * * * *")
	v.SetDefault("WATERMARK_IDLE", "1h")

	cfg := Config{
		HTTPPort:    v.GetString("HTTP_PORT"),
		StoreDriver: v.GetString("STORE_DRIVER"),

		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBSslMode:     v.GetString("DB_SSLMODE"),
		DBAutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),

		AuthSecret:   v.GetString("AUTH_SECRET"),
		AuthTokenTTL: v.GetDuration("AUTH_TOKEN_TTL"),
		BcryptCost:   v.GetInt("BCRYPT_COST"),

		AdminName:     v.GetString("ADMIN_NAME"),
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),

		AllowedOrigins:    v.GetString("ALLOWED_ORIGINS"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		OpenAPIValidation: v.GetBool("OPENAPI_VALIDATION"),
		RequestTimeout:    v.GetDuration("REQUEST_TIMEOUT"),
		ShutdownTimeout:   v.GetDuration("SHUTDOWN_TIMEOUT"),

		WSSendBuffer:        v.GetInt("WS_SEND_BUFFER"),
		WSMessagesPerSecond: v.GetFloat64("WS_MESSAGES_PER_SECOND"),
		WSBurst:             v.GetInt("WS_BURST"),

		StatsSchedule:        v.GetString("STATS_SCHEDULE"),
		HousekeepingSchedule: v.GetString("HOUSEKEEPING_SCHEDULE"),
		WatermarkIdle:        v.GetDuration("WATERMARK_IDLE"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var problems []error
	if c.AuthSecret == "" {
		problems = append(problems, errors.New("AUTH_SECRET is required"))
	}
	if c.StoreDriver != StoreDriverPostgres && c.StoreDriver != StoreDriverMemory {
		problems = append(problems, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q",
			StoreDriverPostgres, StoreDriverMemory, c.StoreDriver))
	}
	if c.AuthTokenTTL <= 0 {
		problems = append(problems, errors.New("AUTH_TOKEN_TTL must be positive"))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		problems = append(problems, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	return errors.Join(problems...)
}

// PostgresDSN renders the connection string for gorm's postgres driver.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
