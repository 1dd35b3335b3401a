package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrReadConfig файл конфигурации не прочитан или не разобран
	ErrReadConfig = errors.New("config: failed to read config")
	// ErrInvalidConfig значение конфигурации вне допустимого диапазона
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Config конфигурация сервиса бронирования номеров
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        DatabaseConfig        `toml:"database"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
	CatalogService  CatalogServiceConfig  `toml:"catalog_service"`
	CustomerService CustomerServiceConfig `toml:"customer_service"`
	Redis           RedisConfig           `toml:"redis"`
	RabbitMQ        RabbitMQConfig        `toml:"rabbitmq"`
	Calendar        CalendarConfig        `toml:"calendar"`
	Worker          WorkerConfig          `toml:"worker"`
	Booking         BookingConfig         `toml:"booking"`
}

// ServerConfig HTTP сервер, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig подключение к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig уровень и файл логов
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig Prometheus метрики
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// CatalogServiceConfig сервис каталога номеров
type CatalogServiceConfig struct {
	URL                string `toml:"url"`
	Timeout            int    `toml:"timeout"`
	BreakerMaxFailures uint32 `toml:"breaker_max_failures"`
	BreakerOpenTimeout int    `toml:"breaker_open_timeout"`
}

// CustomerServiceConfig сервис клиентов
type CustomerServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// RedisConfig кэш доступности, пустой addr отключает кэш
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // секунды
	Prefix   string `toml:"prefix"`
}

// Enabled кэш настроен
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// RabbitMQConfig публикация событий бронирования, пустой url отключает публикацию
type RabbitMQConfig struct {
	URL string `toml:"url"`
}

// Enabled публикация настроена
func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

// CalendarConfig материализованный календарь
type CalendarConfig struct {
	HorizonDays int `toml:"horizon_days"`
}

// WorkerConfig фоновый пересчёт, интервалы в секундах
type WorkerConfig struct {
	QueueSize      int `toml:"queue_size"`
	MaxAttempts    int `toml:"max_attempts"`
	RetryBackoff   int `toml:"retry_backoff"`
	ExtendInterval int `toml:"extend_interval"`
	JobTimeout     int `toml:"job_timeout"`
}

// BookingConfig правила бронирования
type BookingConfig struct {
	ConfirmPolicy      string `toml:"confirm_policy"`
	LockTimeoutSeconds int    `toml:"lock_timeout_seconds"`
	MaxNights          int    `toml:"max_nights"`
}

// LockTimeout время жизни транзакции бронирования
func (b BookingConfig) LockTimeout() time.Duration {
	return time.Duration(b.LockTimeoutSeconds) * time.Second
}

// Load читает конфигурацию из TOML файла, заполняет значения по умолчанию и проверяет её
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация по умолчанию, значения из файла её перекрывают
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "room_reservation_service",
		},
		CatalogService: CatalogServiceConfig{
			Timeout:            5,
			BreakerMaxFailures: 3,
			BreakerOpenTimeout: 10,
		},
		CustomerService: CustomerServiceConfig{
			Timeout: 5,
		},
		Redis: RedisConfig{
			TTL:    60,
			Prefix: "availability",
		},
		Calendar: CalendarConfig{
			HorizonDays: 365,
		},
		Worker: WorkerConfig{
			QueueSize:      256,
			MaxAttempts:    5,
			RetryBackoff:   5,
			ExtendInterval: 86400,
			JobTimeout:     30,
		},
		Booking: BookingConfig{
			ConfirmPolicy:      "first_payment",
			LockTimeoutSeconds: 5,
			MaxNights:          30,
		},
	}
}

// Validate проверяет обязательные параметры и диапазоны
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	case c.Database.DBName == "":
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	case c.CatalogService.URL == "":
		return fmt.Errorf("%w: catalog_service.url is required", ErrInvalidConfig)
	case c.CustomerService.URL == "":
		return fmt.Errorf("%w: customer_service.url is required", ErrInvalidConfig)
	case c.Calendar.HorizonDays <= 0:
		return fmt.Errorf("%w: calendar.horizon_days must be positive, got %d", ErrInvalidConfig, c.Calendar.HorizonDays)
	case c.Booking.MaxNights <= 0:
		return fmt.Errorf("%w: booking.max_nights must be positive, got %d", ErrInvalidConfig, c.Booking.MaxNights)
	case c.Booking.LockTimeoutSeconds <= 0:
		return fmt.Errorf("%w: booking.lock_timeout_seconds must be positive, got %d", ErrInvalidConfig, c.Booking.LockTimeoutSeconds)
	}

	switch c.Booking.ConfirmPolicy {
	case "first_payment", "full_payment":
	default:
		return fmt.Errorf("%w: booking.confirm_policy must be first_payment or full_payment, got %q", ErrInvalidConfig, c.Booking.ConfirmPolicy)
	}

	switch c.Logs.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logs.level must be debug, info, warn or error, got %q", ErrInvalidConfig, c.Logs.Level)
	}

	return nil
}
