package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/microservice-production/internal/data/db"
	"github.com/yungbote/microservice-production/internal/events"
	"github.com/yungbote/microservice-production/internal/platform/envutil"
)

// Duration accepts "5s" style strings or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	s := strings.TrimSpace(node.Value)
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d.Duration = time.Duration(n)
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = dd
	return nil
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	IdleTimeout       Duration `yaml:"idle_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `yaml:"max_request_bytes"`
	CORSOrigins       []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`

	SQLitePath string `yaml:"sqlite_path"`

	MaxOpenConns    int      `yaml:"max_open_conns"`
	MaxIdleConns    int      `yaml:"max_idle_conns"`
	ConnMaxLifetime Duration `yaml:"conn_max_lifetime"`
	SlowThreshold   Duration `yaml:"slow_threshold"`
	AutoMigrate     bool     `yaml:"auto_migrate"`
}

type AuthConfig struct {
	// JWTSecret enables bearer auth on /api when set.
	JWTSecret string `yaml:"jwt_secret"`
}

type EventsConfig struct {
	Driver        string   `yaml:"driver"`
	RedisAddr     string   `yaml:"redis_addr"`
	RedisPassword string   `yaml:"redis_password"`
	RedisDB       int      `yaml:"redis_db"`
	RedisChannel  string   `yaml:"redis_channel"`
	KafkaBrokers  []string `yaml:"kafka_brokers"`
	KafkaTopic    string   `yaml:"kafka_topic"`
	Timeout       Duration `yaml:"timeout"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Addr runs a dedicated listener; empty serves /metrics on the API listener.
	Addr string `yaml:"addr"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	Headers     string  `yaml:"headers"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type Config struct {
	AppName  string         `yaml:"app_name"`
	Env      string         `yaml:"env"`
	Version  string         `yaml:"version"`
	LogMode  string         `yaml:"log_mode"`
	LogLevel string         `yaml:"log_level"`
	LogSalt  string         `yaml:"log_identifier_salt"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Events   EventsConfig   `yaml:"events"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Otel     OtelConfig     `yaml:"otel"`
}

func defaultConfig() *Config {
	return &Config{
		AppName: "microserviceproduction",
		Env:     "development",
		LogMode: "development",
		HTTP: HTTPConfig{
			Addr:              ":8081",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   1 << 20,
		},
		Database: DatabaseConfig{
			Driver:          db.DriverPostgres,
			Host:            "localhost",
			Port:            "5432",
			User:            "microserviceproduction",
			Name:            "microserviceproduction",
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: Duration{Duration: 30 * time.Minute},
			SlowThreshold:   Duration{Duration: time.Second},
			AutoMigrate:     true,
		},
		Events: EventsConfig{
			Driver:  events.DriverNone,
			Timeout: Duration{Duration: 2 * time.Second},
		},
		Otel: OtelConfig{
			ServiceName: "microservice-production",
			SampleRatio: 0.1,
		},
	}
}

// LoadConfig reads defaults, then CONFIG_PATH (or ./config/config.yaml when present),
// then environment overrides, and validates the result.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.AppName = envutil.String("APP_NAME", cfg.AppName)
	cfg.Env = envutil.String("APP_ENV", cfg.Env)
	cfg.Version = envutil.String("APP_VERSION", cfg.Version)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.LogLevel = envutil.String("LOG_LEVEL", cfg.LogLevel)
	cfg.LogSalt = envutil.String("LOG_IDENTIFIER_SALT", cfg.LogSalt)

	cfg.HTTP.Addr = envutil.String("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.ShutdownTimeout.Duration = envutil.Duration("HTTP_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout.Duration)
	cfg.HTTP.MaxRequestBytes = envutil.Int64("HTTP_MAX_REQUEST_BYTES", cfg.HTTP.MaxRequestBytes)
	cfg.HTTP.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.HTTP.CORSOrigins)

	cfg.Database.Driver = envutil.String("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = envutil.String("DATABASE_URL", cfg.Database.DSN)
	cfg.Database.Host = envutil.String("POSTGRES_HOST", cfg.Database.Host)
	cfg.Database.Port = envutil.String("POSTGRES_PORT", cfg.Database.Port)
	cfg.Database.User = envutil.String("POSTGRES_USER", cfg.Database.User)
	cfg.Database.Password = envutil.String("POSTGRES_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = envutil.String("POSTGRES_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.SQLitePath = envutil.String("SQLITE_PATH", cfg.Database.SQLitePath)
	cfg.Database.AutoMigrate = envutil.Bool("DB_AUTO_MIGRATE", cfg.Database.AutoMigrate)

	cfg.Auth.JWTSecret = envutil.String("JWT_SECRET_KEY", cfg.Auth.JWTSecret)

	cfg.Events.Driver = envutil.String("EVENTS_DRIVER", cfg.Events.Driver)
	cfg.Events.RedisAddr = envutil.String("REDIS_ADDR", cfg.Events.RedisAddr)
	cfg.Events.RedisPassword = envutil.String("REDIS_PASSWORD", cfg.Events.RedisPassword)
	cfg.Events.RedisChannel = envutil.String("REDIS_CHANNEL", cfg.Events.RedisChannel)
	cfg.Events.KafkaBrokers = envutil.List("KAFKA_BROKERS", cfg.Events.KafkaBrokers)
	cfg.Events.KafkaTopic = envutil.String("KAFKA_TOPIC", cfg.Events.KafkaTopic)

	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Addr = envutil.String("METRICS_ADDR", cfg.Metrics.Addr)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	cfg.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.Otel.Headers)
	if v := strings.TrimSpace(os.Getenv("OTEL_SAMPLER_RATIO")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Otel.SampleRatio = f
		}
	}
}

func (c *Config) validate() error {
	var errs []error
	c.AppName = strings.TrimSpace(c.AppName)
	if c.AppName == "" {
		errs = append(errs, errors.New("app_name is required"))
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.HTTP.MaxRequestBytes < 0 {
		errs = append(errs, errors.New("http.max_request_bytes must not be negative"))
	}

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case db.DriverPostgres:
		if c.Database.DSN == "" && (c.Database.Host == "" || c.Database.Name == "") {
			errs = append(errs, errors.New("database: postgres needs dsn or host and name"))
		}
	case db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not one of postgres, sqlite", c.Database.Driver))
	}

	c.Events.Driver = strings.ToLower(strings.TrimSpace(c.Events.Driver))
	switch c.Events.Driver {
	case "", events.DriverNone:
		c.Events.Driver = events.DriverNone
	case events.DriverRedis:
		if strings.TrimSpace(c.Events.RedisAddr) == "" {
			errs = append(errs, errors.New("events: redis driver needs redis_addr"))
		}
	case events.DriverKafka:
		if len(c.Events.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("events: kafka driver needs kafka_brokers"))
		}
	default:
		errs = append(errs, fmt.Errorf("events.driver %q is not one of none, redis, kafka", c.Events.Driver))
	}

	if c.Otel.SampleRatio < 0 || c.Otel.SampleRatio > 1 {
		errs = append(errs, errors.New("otel.sample_ratio must be within [0, 1]"))
	}
	return errors.Join(errs...)
}

func (c *Config) dbConfig() db.Config {
	return db.Config{
		Driver:          c.Database.Driver,
		DSN:             c.Database.DSN,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		Name:            c.Database.Name,
		SSLMode:         c.Database.SSLMode,
		SQLitePath:      c.Database.SQLitePath,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime.Duration,
		SlowThreshold:   c.Database.SlowThreshold.Duration,
	}
}

func (c *Config) eventsConfig() events.Config {
	return events.Config{
		Driver:        c.Events.Driver,
		RedisAddr:     c.Events.RedisAddr,
		RedisPassword: c.Events.RedisPassword,
		RedisDB:       c.Events.RedisDB,
		RedisChannel:  c.Events.RedisChannel,
		KafkaBrokers:  c.Events.KafkaBrokers,
		KafkaTopic:    c.Events.KafkaTopic,
		Timeout:       c.Events.Timeout.Duration,
	}
}
