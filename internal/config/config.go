// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/at-ishikawa/kizuna/internal/resolve"
)

// Store backend names.
const (
	StoreBackendMemory = "memory"
	StoreBackendMySQL  = "mysql"
	StoreBackendREST   = "rest"
)

type Config struct {
	Journal  JournalConfig  `mapstructure:"journal"`
	Identity IdentityConfig `mapstructure:"identity"`
	Store    StoreConfig    `mapstructure:"store"`
}

type JournalConfig struct {
	// Owner is the namespace every person and encounter is stored under.
	Owner string `mapstructure:"owner" validate:"required"`
	// DebounceMillis is the quiet period after the last edit before a write
	// is attempted.
	DebounceMillis int `mapstructure:"debounce_ms" validate:"min=0"`
}

type IdentityConfig struct {
	// Strategy selects the identity scheme. The two schemes persist
	// different layouts, so this is explicit configuration, never guessed.
	Strategy string `mapstructure:"strategy" validate:"oneof=normalized composite"`
}

type StoreConfig struct {
	Backend  string         `mapstructure:"backend" validate:"oneof=memory mysql rest"`
	REST     RESTConfig     `mapstructure:"rest"`
	Database DatabaseConfig `mapstructure:"database"`
}

type RESTConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string `mapstructure:"api_key"`
	RetryAttempts  uint   `mapstructure:"retry_attempts"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=0"`
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
		v.AddConfigPath("$HOME/.config/kizuna")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("journal.owner", "local")
	v.SetDefault("journal.debounce_ms", 1500)
	v.SetDefault("identity.strategy", resolve.StrategyNormalized)
	v.SetDefault("store.backend", StoreBackendMemory)
	v.SetDefault("store.rest.retry_attempts", 3)
	v.SetDefault("store.rest.timeout_seconds", 10)
	v.SetDefault("store.database.host", "localhost")
	v.SetDefault("store.database.port", 3306)
	v.SetDefault("store.database.database", "kizuna")
	v.SetDefault("store.database.username", "user")

	// Bind secrets to environment variables only (not from config file)
	if err := v.BindEnv("store.database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("store.rest.api_key", "KIZUNA_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind KIZUNA_API_KEY environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
