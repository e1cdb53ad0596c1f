package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Quote       QuoteConfig    `mapstructure:"quote"`
	History     HistoryConfig  `mapstructure:"history"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	APIToken     string `mapstructure:"api_token"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// QuoteConfig carries the quote-source endpoint and the currency
// normalization policy: symbols with one of the local suffixes are already
// quoted in local currency, everything else is multiplied by the FX rate.
type QuoteConfig struct {
	BaseURL        string   `mapstructure:"base_url"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	FXRate         string   `mapstructure:"fx_rate"`
	LocalSuffixes  []string `mapstructure:"local_suffixes"`
}

// HistoryConfig tunes the daily snapshot recorder
type HistoryConfig struct {
	NoiseThreshold     string `mapstructure:"noise_threshold"`
	SettleDelaySeconds int    `mapstructure:"settle_delay_seconds"`
	// DailyCron records a snapshot even on days without any mutation
	DailyCron string `mapstructure:"daily_cron"`
}

// ConnectionString builds the lib/pq connection string
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Load reads configuration from config.yaml (if present) and the
// environment. Environment variables win, with dots mapped to underscores
// (e.g. SERVER_PORT overrides server.port).
func Load() (*Config, error) {
	// .env is optional; ignore a missing file
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.api_token", "dev-token")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "assetpro")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.ssl_mode", "disable")

	viper.SetDefault("quote.base_url", "https://finnhub.io/api/v1")
	viper.SetDefault("quote.timeout_seconds", 10)
	// Fixed KRW conversion applied to foreign-quoted symbols
	viper.SetDefault("quote.fx_rate", "1400")
	viper.SetDefault("quote.local_suffixes", []string{".KS", ".KQ"})

	viper.SetDefault("history.noise_threshold", "100")
	viper.SetDefault("history.settle_delay_seconds", 3)
	// Once a day shortly before midnight, local server time
	viper.SetDefault("history.daily_cron", "50 23 * * *")
}
