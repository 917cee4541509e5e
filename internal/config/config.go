package config

import (
	"errors"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	Env         string `mapstructure:"APP_ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	ServerAddr  string `mapstructure:"SERVER_ADDR"`
	DBType      string `mapstructure:"STORAGE_BACKEND"`
	DBDSN       string `mapstructure:"POSTGRES_DSN"`
	FileProfile string `mapstructure:"PROFILE_FILE"`
	FilePlans   string `mapstructure:"PLANS_FILE"`
	LockBackend string `mapstructure:"LOCK_BACKEND"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	AuthMode    string `mapstructure:"AUTH_MODE"`
	AuthURL     string `mapstructure:"AUTH_URL"`
	LocalToken  string `mapstructure:"LOCAL_TOKEN"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		c, err := load(".")
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

func load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_ADDR", ":8088")
	v.SetDefault("STORAGE_BACKEND", "file")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("AUTH_URL", "")
	v.SetDefault("PROFILE_FILE", "data/circadian_profiles.json")
	v.SetDefault("PLANS_FILE", "data/wellness_plans.json")
	v.SetDefault("LOCK_BACKEND", "none")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("AUTH_MODE", "local")
	v.SetDefault("LOCAL_TOKEN", "MOCK-TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && (c.FileProfile == "" || c.FilePlans == "") {
		return errors.New("File storage requires PROFILE_FILE and PLANS_FILE to be set")
	}
	if c.LockBackend == "redis" && c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required when LOCK_BACKEND=redis")
	}
	if c.AuthMode == "remote" && c.AuthURL == "" {
		return errors.New("AUTH_URL is required when AUTH_MODE=remote")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	return nil
}
