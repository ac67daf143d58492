package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
)

type AppConfig struct {
	API        *APIConfig        `mapstructure:"api"`
	Gin        *GinConfig        `mapstructure:"gin"`
	Postgres   *PostgresConfig   `mapstructure:"postgres"`
	Settlement *SettlementConfig `mapstructure:"settlement"`
	Review     *ReviewConfig     `mapstructure:"review"`
	Log        *LogConfig        `mapstructure:"log"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	JWTTTL             time.Duration `mapstructure:"jwt_ttl"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DB           string `mapstructure:"db"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type SettlementConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Cron           string        `mapstructure:"cron"`
	Timezone       string        `mapstructure:"timezone"`
	ProgramTimeout time.Duration `mapstructure:"program_timeout"`
}

type ReviewConfig struct {
	CreditUserWallet bool `mapstructure:"credit_user_wallet"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Load reads the YAML file at path. Every key can be overridden by an environment
// variable prefixed with QUEST_, e.g. QUEST_POSTGRES_HOST.
func Load(path string) (*AppConfig, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return unmarshal(v)
}

// Watch reloads the file at path on every write and hands the new config to onChange.
// Invalid files are reported through onError and the previous config stays in effect.
func Watch(path string, onChange func(*AppConfig), onError func(error)) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		onError(fmt.Errorf("v.ReadInConfig -> %w", err))
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		conf, err := unmarshal(v)
		if err != nil {
			onError(fmt.Errorf("config reload %s -> %w", e.Name, err))
			return
		}

		onChange(conf)
	})
	v.WatchConfig()
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("QUEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.jwt_ttl", 24*time.Hour)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("settlement.enabled", true)
	v.SetDefault("settlement.cron", "1 0 * * *")
	v.SetDefault("settlement.timezone", "UTC")
	v.SetDefault("settlement.program_timeout", 30*time.Second)
	v.SetDefault("review.credit_user_wallet", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)

	return v
}

func unmarshal(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("conf.Validate -> %w", err)
	}

	return conf, nil
}

func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.API, validation.Required),
		validation.Field(&c.Gin, validation.Required),
		validation.Field(&c.Postgres, validation.Required),
		validation.Field(&c.Settlement, validation.Required),
		validation.Field(&c.Review, validation.Required),
		validation.Field(&c.Log, validation.Required),
	)
}

func (c *APIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Environment, validation.Required, validation.In("development", "production", "test")),
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.JWTSigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.JWTTTL, validation.Required),
	)
}

func (c *GinConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In("debug", "release", "test")),
	)
}

func (c *PostgresConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.SSLMode, validation.Required),
	)
}

func (c *SettlementConfig) Validate() error {
	cronRules := []validation.Rule{}
	if c.Enabled {
		cronRules = append(cronRules, validation.Required)
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.Cron, cronRules...),
		validation.Field(&c.Timezone, validation.By(validTimezone)),
		validation.Field(&c.ProgramTimeout, validation.Min(time.Duration(0))),
	)
}

// Location resolves the configured timezone; empty means UTC.
func (c *SettlementConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}

	return time.LoadLocation(c.Timezone)
}

func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.MaxSizeMB, validation.Min(0)),
		validation.Field(&c.MaxBackups, validation.Min(0)),
	)
}

func validTimezone(value interface{}) error {
	tz, _ := value.(string)
	if tz == "" {
		return nil
	}

	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("unknown timezone %q", tz)
	}

	return nil
}
