// Package config loads the server configuration from a yaml file and the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"couplecall/internal/entity"
)

const _defaultPath = "./config/config.yml"

type (
	// Config -.
	Config struct {
		App       `yaml:"app"`
		HTTP      `yaml:"http"`
		Log       `yaml:"logger"`
		Store     `yaml:"store"`
		PG        `yaml:"postgres"`
		MySQL     `yaml:"mysql"`
		RMQ       `yaml:"rabbitmq"`
		Signaling `yaml:"signaling"`
		Couples   []Couple `yaml:"couples"`

		// Path is the file the config was read from.
		Path string `yaml:"-"`
	}

	// App -.
	App struct {
		Name    string `env-required:"true" yaml:"name"    env:"APP_NAME"`
		Version string `env-required:"true" yaml:"version" env:"APP_VERSION"`
	}

	// HTTP -.
	HTTP struct {
		Port string `env-required:"true" yaml:"port" env:"HTTP_PORT"`
	}

	// Log -.
	Log struct {
		Level string `env-required:"true" yaml:"log_level" env:"LOG_LEVEL"`
	}

	// Store selects the call record backend: memory, sqlite, postgres or mysql.
	Store struct {
		Driver     string `yaml:"driver"      env:"STORE_DRIVER" env-default:"memory"`
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"  env-default:"data/calls.db"`
	}

	// PG -.
	PG struct {
		PoolMax int    `yaml:"pool_max" env:"PG_POOL_MAX" env-default:"2"`
		URL     string `yaml:"url"      env:"PG_URL"`
	}

	// MySQL -.
	MySQL struct {
		MaxOpenConns int    `yaml:"max_open_conns" env:"MYSQL_MAX_OPEN_CONNS" env-default:"10"`
		DSN          string `yaml:"dsn"            env:"MYSQL_DSN"`
	}

	// RMQ -. An empty URL disables event publishing to RabbitMQ.
	RMQ struct {
		URL      string `yaml:"url"      env:"RMQ_URL"`
		Exchange string `yaml:"exchange" env:"RMQ_EXCHANGE" env-default:"call-events"`
	}

	// Signaling -.
	Signaling struct {
		RingTimeout   time.Duration `yaml:"ring_timeout"   env:"RING_TIMEOUT"   env-default:"60s"`
		SweepInterval time.Duration `yaml:"sweep_interval" env:"SWEEP_INTERVAL" env-default:"5s"`
	}

	// Couple -.
	Couple struct {
		ID      string   `yaml:"id"`
		Members []string `yaml:"members"`
	}
)

// NewConfig reads CONFIG_PATH, or ./config/config.yml when it is unset.
func NewConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = _defaultPath
	}

	return Load(path)
}

// Load -.
func Load(path string) (*Config, error) {
	cfg := &Config{Path: path}

	err := cleanenv.ReadConfig(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	err = cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Store.Driver {
	case "memory", "sqlite":
	case "postgres":
		if cfg.PG.URL == "" {
			return nil, fmt.Errorf("config error: store driver postgres needs postgres.url")
		}
	case "mysql":
		if cfg.MySQL.DSN == "" {
			return nil, fmt.Errorf("config error: store driver mysql needs mysql.dsn")
		}
	default:
		return nil, fmt.Errorf("config error: unknown store driver %q", cfg.Store.Driver)
	}

	return cfg, nil
}

// CoupleList converts the configured couples to entities.
func (c *Config) CoupleList() ([]entity.Couple, error) {
	couples := make([]entity.Couple, 0, len(c.Couples))

	for _, cp := range c.Couples {
		if len(cp.Members) != 2 {
			return nil, fmt.Errorf("config error: couple %q must have exactly two members", cp.ID)
		}

		couples = append(couples, entity.Couple{ID: cp.ID, Members: [2]string{cp.Members[0], cp.Members[1]}})
	}

	return couples, nil
}
