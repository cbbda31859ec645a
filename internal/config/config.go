package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/mairateam/calculators/internal/format"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	DBPath          string `mapstructure:"db_path"`
	Env             string `mapstructure:"app_env"`
	LogLevel        string `mapstructure:"log_level"`
	DefaultCurrency string `mapstructure:"default_currency"`
	SeedOnStart     bool   `mapstructure:"seed_on_start"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_PATH", "./dev.db")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEFAULT_CURRENCY", format.DefaultCurrency)
	v.SetDefault("SEED_ON_START", true)
}

// Load reads environment variables (and a local .env, when present) and
// returns a populated Config.
func Load() (Config, error) {
	// Existing environment variables win over the file.
	if err := godotenv.Load(".env"); err == nil {
		logrus.Debug("config: loaded .env")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if !format.IsSupported(cfg.DefaultCurrency) {
		logrus.Warnf("config: unsupported DEFAULT_CURRENCY %q, using %s", cfg.DefaultCurrency, format.DefaultCurrency)
	}
	cfg.DefaultCurrency = format.Normalize(cfg.DefaultCurrency)

	return cfg, nil
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "dev"
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}
