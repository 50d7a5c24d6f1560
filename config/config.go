package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Poderia ser uma lib externa*/

type Config struct {
	Port           string `mapstructure:"PORT"`
	WebhooksDir    string `mapstructure:"WEBHOOKS_DIR"`
	LogsDir        string `mapstructure:"LOGS_DIR"`
	SourcesFile    string `mapstructure:"SOURCES_FILE"`
	GithubSecret   string `mapstructure:"GITHUB_SECRET"`
	MaxBodyBytes   int64  `mapstructure:"MAX_BODY_BYTES"`
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "3000")
	viper.SetDefault("WEBHOOKS_DIR", "webhooks")
	viper.SetDefault("LOGS_DIR", "logs")
	viper.SetDefault("SOURCES_FILE", "sources.yaml")
	viper.SetDefault("GITHUB_SECRET", "")
	viper.SetDefault("MAX_BODY_BYTES", int64(1048576))
	viper.SetDefault("STORAGE_BACKEND", "file")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	err := viper.ReadInConfig()
	if err != nil {
		// The .env file is optional; environment variables and
		// defaults cover every key.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var config Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	return &config, nil
}
