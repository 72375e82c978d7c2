package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	PokeAPI  PokeAPIConfig  `mapstructure:"pokeapi"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type PokeAPIConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"min=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"min=0"`
	Burst             int     `mapstructure:"burst" validate:"min=0"`
	MaxRetryAttempts  uint    `mapstructure:"max_retry_attempts"`
	RetryDelayMillis  int     `mapstructure:"retry_delay_millis" validate:"min=0"`
	ListLimit         int     `mapstructure:"list_limit" validate:"min=0"`
}

func (c PokeAPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c PokeAPIConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMillis) * time.Millisecond
}

const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type StoreConfig struct {
	Driver        string `mapstructure:"driver" validate:"oneof=file memory mysql sqlite"`
	DataDirectory string `mapstructure:"data_directory" validate:"required_if=Driver file"`
	SQLitePath    string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type CacheConfig struct {
	StalenessMode  string `mapstructure:"staleness_mode" validate:"staleness_mode"`
	StalenessDays  int    `mapstructure:"staleness_days" validate:"min=1"`
	MaxConcurrency int    `mapstructure:"max_concurrency" validate:"min=1"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pokestats")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 4000)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("pokeapi.base_url", "https://pokeapi.co/api/v2")
	v.SetDefault("pokeapi.timeout_seconds", 10)
	v.SetDefault("pokeapi.requests_per_second", 20)
	v.SetDefault("pokeapi.burst", 5)
	v.SetDefault("pokeapi.max_retry_attempts", 3)
	v.SetDefault("pokeapi.retry_delay_millis", 200)
	v.SetDefault("pokeapi.list_limit", 2000)
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.data_directory", "data")
	v.SetDefault("store.sqlite_path", "pokestats.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "pokestats")
	v.SetDefault("database.username", "user")
	v.SetDefault("cache.staleness_mode", "day_of_month")
	v.SetDefault("cache.staleness_days", 7)
	v.SetDefault("cache.max_concurrency", 8)

	if err := v.BindEnv("pokeapi.base_url", "POKEAPI_BASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind POKEAPI_BASE_URL environment variable: %w", err)
	}
	// The database password is only read from the environment.
	if err := v.BindEnv("database.password", "POKESTATS_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind POKESTATS_DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validator.Struct() > %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
