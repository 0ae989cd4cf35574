package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Store     StoreConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Invoice   InvoiceConfig
	Printer   PrinterConfig
	Log       LogConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	LogLevel string
}

// StoreConfig selects the persistence backend: "postgres" or "memory"
type StoreConfig struct {
	Driver      string
	SeedCatalog bool
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// InvoiceConfig controls identifier generation and the creation retry budget
type InvoiceConfig struct {
	IDPrefix       string
	IDWidth        int
	IDSeed         string
	CreateAttempts int
	IdempotencyTTL time.Duration
}

type PrinterConfig struct {
	Type         string
	USBPath      string
	Address      string
	StoreName    string
	StoreAddress string
	StorePhone   string
	CharWidth    int
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg(".env file not found, using environment variables")
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "pasvilla-invoicing")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "pasvilla")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "America/Guatemala")
	viper.SetDefault("DB_LOG_LEVEL", "warn")
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("STORE_SEED_CATALOG", true)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("INVOICE_ID_PREFIX", "pasvilla")
	viper.SetDefault("INVOICE_ID_WIDTH", 3)
	viper.SetDefault("INVOICE_ID_SEED", "pasvilla000")
	viper.SetDefault("INVOICE_CREATE_ATTEMPTS", 5)
	viper.SetDefault("INVOICE_IDEMPOTENCY_TTL_HOURS", 24)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_STORE_NAME", "Pasvilla")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 48)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
			LogLevel: viper.GetString("DB_LOG_LEVEL"),
		},
		Store: StoreConfig{
			Driver:      viper.GetString("STORE_DRIVER"),
			SeedCatalog: viper.GetBool("STORE_SEED_CATALOG"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Invoice: InvoiceConfig{
			IDPrefix:       viper.GetString("INVOICE_ID_PREFIX"),
			IDWidth:        viper.GetInt("INVOICE_ID_WIDTH"),
			IDSeed:         viper.GetString("INVOICE_ID_SEED"),
			CreateAttempts: viper.GetInt("INVOICE_CREATE_ATTEMPTS"),
			IdempotencyTTL: time.Duration(viper.GetInt("INVOICE_IDEMPOTENCY_TTL_HOURS")) * time.Hour,
		},
		Printer: PrinterConfig{
			Type:         viper.GetString("PRINTER_TYPE"),
			USBPath:      viper.GetString("PRINTER_USB_PATH"),
			Address:      viper.GetString("PRINTER_ADDRESS"),
			StoreName:    viper.GetString("PRINTER_STORE_NAME"),
			StoreAddress: viper.GetString("PRINTER_STORE_ADDRESS"),
			StorePhone:   viper.GetString("PRINTER_STORE_PHONE"),
			CharWidth:    viper.GetInt("PRINTER_CHAR_WIDTH"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
