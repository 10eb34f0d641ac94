package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mealprep/internal/models"
)

// Store drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Database DatabaseConfig `yaml:"database"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Auth     AuthConfig     `yaml:"auth"`
	Planning PlanningConfig `yaml:"planning"`
	Logging  LoggingConfig  `yaml:"logging"`
	Queue    QueueConfig    `yaml:"queue"`
	Sheets   SheetsConfig   `yaml:"sheets"`

	// Roster seeds the worker tables on first migration.
	Roster models.Roster `yaml:"roster"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // release, debug, test
}

// MetricsConfig configures the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// DatabaseConfig selects the order and roster store
type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	LogMode      bool   `yaml:"log_mode"`
}

// MongoConfig is used when Database.Driver is "mongo"
type MongoConfig struct {
	URI      string        `yaml:"uri"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
}

// AuthConfig guards mutating routes. An empty secret disables the guard.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// PlanningConfig tunes the production-planning engine
type PlanningConfig struct {
	GramsPerCup      float64 `yaml:"grams_per_cup"`
	DefaultPackagers int     `yaml:"default_packagers"`
}

// LoggingConfig configures zap
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// QueueConfig enables publishing recomputed plans to RabbitMQ when URL is set
type QueueConfig struct {
	URL string `yaml:"url"`
}

// SheetsConfig points at the service account used by the order import
type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	Range           string `yaml:"range"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, Mode: "release"},
		Metrics: MetricsConfig{Enabled: true, Port: 9090, Path: "/metrics"},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			DSN:          "mealprep.db",
			MaxOpenConns: 10,
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "mealprep",
			Timeout:  10 * time.Second,
		},
		Planning: PlanningConfig{GramsPerCup: 250},
		Logging:  LoggingConfig{Level: "info"},
		Sheets:   SheetsConfig{Range: "A:N"},
		Roster: models.Roster{
			Kitchen: []models.Worker{
				{Name: "María", Percentage: 70},
				{Name: "Luis", Percentage: 30},
			},
			Packaging: []models.Worker{
				{Name: "Ana", Percentage: 60},
				{Name: "José", Percentage: 25},
				{Name: "Carla", Percentage: 15},
			},
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strings := map[string]*string{
		"MEALPREP_SERVER_MODE":        &c.Server.Mode,
		"MEALPREP_DB_DRIVER":          &c.Database.Driver,
		"MEALPREP_DB_DSN":             &c.Database.DSN,
		"MEALPREP_MONGO_URI":          &c.Mongo.URI,
		"MEALPREP_MONGO_DATABASE":     &c.Mongo.Database,
		"MEALPREP_JWT_SECRET":         &c.Auth.JWTSecret,
		"MEALPREP_LOG_LEVEL":          &c.Logging.Level,
		"MEALPREP_AMQP_URL":           &c.Queue.URL,
		"MEALPREP_SHEETS_CREDENTIALS": &c.Sheets.CredentialsFile,
	}
	for key, dst := range strings {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MEALPREP_PORT":         &c.Server.Port,
		"MEALPREP_METRICS_PORT": &c.Metrics.Port,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := os.LookupEnv("MEALPREP_GRAMS_PER_CUP"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid MEALPREP_GRAMS_PER_CUP: %w", err)
		}
		c.Planning.GramsPerCup = f
	}
	return nil
}

// Validate checks the configuration for values the services cannot run with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server port must be greater than 0")
	}
	if c.Metrics.Enabled && c.Metrics.Port <= 0 {
		return fmt.Errorf("metrics port must be greater than 0")
	}
	if c.Planning.GramsPerCup < 0 {
		return fmt.Errorf("grams per cup must not be negative")
	}
	if c.Planning.DefaultPackagers < 0 {
		return fmt.Errorf("default packagers must not be negative")
	}
	for _, pool := range []models.Pool{models.PoolKitchen, models.PoolPackaging} {
		for _, w := range c.Roster.Pool(pool) {
			if w.Percentage < 0 || w.Percentage > 100 {
				return fmt.Errorf("%s worker %q: percentage must be between 0 and 100", pool, w.Name)
			}
		}
	}
	return nil
}
