package configs

import (
	"errors"

	"github.com/ManxCat/tradeproof/internal/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Logger struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logger"`
	Whop struct {
		APIBaseURL     string  `mapstructure:"api_base_url"`
		APIKey         string  `mapstructure:"api_key"`
		AppSecret      string  `mapstructure:"app_secret"`
		DemoMode       bool    `mapstructure:"demo_mode"`
		RateLimit      float64 `mapstructure:"rate_limit"`
		RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	} `mapstructure:"whop"`
	Trades struct {
		AutoApprove bool `mapstructure:"auto_approve"`
	} `mapstructure:"trades"`
	Seed struct {
		Enabled      bool   `mapstructure:"enabled"`
		ExperienceID string `mapstructure:"experience_id"`
	} `mapstructure:"seed"`
}

var AppConfig Config

func LoadConfig() {
	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")
	viper.SetDefault("whop.api_base_url", "https://api.whop.com/api/v2")
	viper.SetDefault("whop.rate_limit", 20) // requests per second
	viper.SetDefault("whop.rate_limit_burst", 5)
	viper.SetDefault("trades.auto_approve", false)
	viper.SetDefault("seed.experience_id", "exp_demo")

	var fileLookupError viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &fileLookupError) {
			logger.Log.Fatal("config file not found", zap.Error(err))
		}
		logger.Log.Fatal("failed to read config", zap.Error(err))
	}

	viper.Unmarshal(&AppConfig)
}
