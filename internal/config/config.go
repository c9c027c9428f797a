package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config корневая конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Tracing     TracingConfig     `toml:"tracing"`
	UserService UserServiceConfig `toml:"user_service"`
	Kafka       KafkaConfig       `toml:"kafka"`
	Booking     BookingConfig     `toml:"booking"`
	Payments    PaymentsConfig    `toml:"payments"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type TracingConfig struct {
	Enabled bool   `toml:"enabled"`
	Output  string `toml:"output"`
}

type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type KafkaConfig struct {
	Enabled      bool     `toml:"enabled"`
	Brokers      []string `toml:"brokers"`
	Topic        string   `toml:"topic"`
	WriteTimeout int      `toml:"write_timeout"`
}

// BookingConfig политика бронирования
type BookingConfig struct {
	// Должен ли залог быть оплачен для автоматического подтверждения бронирования
	DepositRequiredForConfirmation bool `toml:"deposit_required_for_confirmation"`
}

// PaymentsConfig политика платежей
type PaymentsConfig struct {
	// Ставка пени за день просрочки (0.005 = 0.5% в день)
	DailyPenaltyRate string `toml:"daily_penalty_rate"`
	// Через сколько дней от создания бронирования наступает срок оплаты
	DueDays int `toml:"due_days"`
}

// PenaltyRate разобранная ставка пени
func (p PaymentsConfig) PenaltyRate() decimal.Decimal {
	rate, err := decimal.NewFromString(p.DailyPenaltyRate)
	if err != nil {
		return decimal.RequireFromString(DefaultDailyPenaltyRate)
	}
	return rate
}

const (
	DefaultHTTPPort         = 8080
	DefaultDailyPenaltyRate = "0.005"
	DefaultDueDays          = 3
	DefaultKafkaTopic       = "marina.events"
	DefaultMetricsPath      = "/metrics"
	DefaultServiceName      = "marina-service"
)

// Load читает .env (если есть), затем TOML-файл, затем переменные окружения MARINA_*
func Load(path string) (*Config, error) {
	// .env необязателен: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = DefaultHTTPPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = DefaultServiceName
	}
	if c.UserService.Timeout == 0 {
		c.UserService.Timeout = 5
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = DefaultKafkaTopic
	}
	if c.Kafka.WriteTimeout == 0 {
		c.Kafka.WriteTimeout = 5
	}
	if c.Payments.DailyPenaltyRate == "" {
		c.Payments.DailyPenaltyRate = DefaultDailyPenaltyRate
	}
	if c.Payments.DueDays == 0 {
		c.Payments.DueDays = DefaultDueDays
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("MARINA_DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("MARINA_DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: MARINA_DB_PORT: %w", err)
		}
		c.Database.Port = port
	}
	if v := os.Getenv("MARINA_DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("MARINA_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("MARINA_DB_NAME"); v != "" {
		c.Database.DBName = v
	}
	if v := os.Getenv("MARINA_KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("MARINA_USER_SERVICE_URL"); v != "" {
		c.UserService.URL = v
	}
	return nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database.dbname is required"))
	}
	if c.UserService.URL == "" {
		errs = append(errs, errors.New("user_service.url is required"))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers is required when kafka is enabled"))
	}
	rate, err := decimal.NewFromString(c.Payments.DailyPenaltyRate)
	if err != nil {
		errs = append(errs, fmt.Errorf("payments.daily_penalty_rate: %v", err))
	} else if rate.IsNegative() {
		errs = append(errs, errors.New("payments.daily_penalty_rate must not be negative"))
	}
	if c.Payments.DueDays < 0 {
		errs = append(errs, errors.New("payments.due_days must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
