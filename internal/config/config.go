package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Changefeed драйверы
const (
	ChangefeedPostgres = "postgres"
	ChangefeedKafka    = "kafka"
	ChangefeedNone     = "none"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Business   BusinessConfig   `toml:"business"`
	Booking    BookingConfig    `toml:"booking"`
	Agenda     AgendaConfig     `toml:"agenda"`
	Changefeed ChangefeedConfig `toml:"changefeed"`
	Redis      RedisConfig      `toml:"redis"`
	Auth       AuthConfig       `toml:"auth"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`  // секунды
	WriteTimeout    int `toml:"write_timeout"` // секунды
	IdleTimeout     int `toml:"idle_timeout"`  // секунды
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды

	// Public учетные данные с ограниченными правами для публичных маршрутов.
	// Если User пустой, публичные маршруты используют основной пул.
	Public PublicCredentials `toml:"public"`
}

type PublicCredentials struct {
	User         string `toml:"user"`
	Password     string `toml:"password"`
	MaxOpenConns int    `toml:"max_open_conns"`
}

// DSN строка подключения для основного (привилегированного) пула
func (c DatabaseConfig) DSN() string {
	return c.dsn(c.User, c.Password)
}

// PublicDSN строка подключения для публичного пула, пустая если он не настроен
func (c DatabaseConfig) PublicDSN() string {
	if c.Public.User == "" {
		return ""
	}
	return c.dsn(c.Public.User, c.Public.Password)
}

// dsn postgres:// URL; логин и пароль экранируются, поэтому допустимы пробелы и кавычки
func (c DatabaseConfig) dsn(user, password string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.DBName,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
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

type BusinessConfig struct {
	Timezone         string `toml:"timezone"`
	OpeningHoursFile string `toml:"opening_hours_file"` // пусто - часы по умолчанию
	SlotStepMinutes  int    `toml:"slot_step_minutes"`
}

type BookingConfig struct {
	// StrictApproval отклоняет одобрение заявки, если её интервал пересекается с существующей записью.
	// По умолчанию пересечение только логируется.
	StrictApproval  bool   `toml:"strict_approval"`
	ConfirmationURL string `toml:"confirmation_url"`
}

type AgendaConfig struct {
	RefreshInterval int `toml:"refresh_interval"` // секунды
	FetchTimeout    int `toml:"fetch_timeout"`    // секунды
}

type ChangefeedConfig struct {
	Driver  string   `toml:"driver"` // postgres | kafka | none
	Channel string   `toml:"channel"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
	GroupID string   `toml:"group_id"`
}

type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	CatalogTTL int    `toml:"catalog_ttl"` // секунды
}

type AuthConfig struct {
	// StaffTokenHash bcrypt-хэш токена администратора
	StaffTokenHash string `toml:"staff_token_hash"`
}

// Default конфигурация со значениями по умолчанию
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
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "salon_service",
		},
		Business: BusinessConfig{
			Timezone:        "Europe/Rome",
			SlotStepMinutes: 30,
		},
		Booking: BookingConfig{
			ConfirmationURL: "/booking/success",
		},
		Agenda: AgendaConfig{
			RefreshInterval: 10,
			FetchTimeout:    5,
		},
		Changefeed: ChangefeedConfig{
			Driver:  ChangefeedPostgres,
			Channel: "salon_changes",
			Topic:   "salon.changes",
			GroupID: "salon-agenda",
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			CatalogTTL: 300,
		},
	}
}

// Load читает конфигурацию из TOML-файла и накладывает переменные окружения SALON_*
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv переопределяет секреты и адреса из окружения
func (c *Config) applyEnv() error {
	setString(&c.Database.Host, "SALON_DB_HOST")
	setString(&c.Database.User, "SALON_DB_USER")
	setString(&c.Database.Password, "SALON_DB_PASSWORD")
	setString(&c.Database.DBName, "SALON_DB_NAME")
	setString(&c.Database.Public.User, "SALON_DB_PUBLIC_USER")
	setString(&c.Database.Public.Password, "SALON_DB_PUBLIC_PASSWORD")
	setString(&c.Redis.Addr, "SALON_REDIS_ADDR")
	setString(&c.Redis.Password, "SALON_REDIS_PASSWORD")
	setString(&c.Auth.StaffTokenHash, "SALON_STAFF_TOKEN_HASH")
	setString(&c.Changefeed.Driver, "SALON_CHANGEFEED_DRIVER")

	if v := os.Getenv("SALON_KAFKA_BROKERS"); v != "" {
		c.Changefeed.Brokers = strings.Split(v, ",")
	}

	if v := os.Getenv("SALON_HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SALON_HTTP_PORT=%q", ErrInvalidConfig, v)
		}
		c.Server.HTTPPort = port
	}
	if v := os.Getenv("SALON_DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SALON_DB_PORT=%q", ErrInvalidConfig, v)
		}
		c.Database.Port = port
	}

	return nil
}

// Validate проверяет обязательные значения
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Business.SlotStepMinutes <= 0 {
		return fmt.Errorf("%w: business.slot_step_minutes must be positive", ErrInvalidConfig)
	}
	if c.Agenda.RefreshInterval <= 0 {
		return fmt.Errorf("%w: agenda.refresh_interval must be positive", ErrInvalidConfig)
	}

	switch c.Changefeed.Driver {
	case ChangefeedPostgres, ChangefeedNone:
	case ChangefeedKafka:
		if len(c.Changefeed.Brokers) == 0 || c.Changefeed.Topic == "" {
			return fmt.Errorf("%w: changefeed.kafka requires brokers and topic", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown changefeed.driver %q", ErrInvalidConfig, c.Changefeed.Driver)
	}

	if c.Auth.StaffTokenHash == "" {
		return fmt.Errorf("%w: auth.staff_token_hash is required", ErrInvalidConfig)
	}

	return nil
}

func setString(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok {
		*dst = v
	}
}
