package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Tron     TronConfig     `mapstructure:"tron"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Funding  FundingConfig  `mapstructure:"funding"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
	Tenants  []TenantConfig `mapstructure:"tenants"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type AuthConfig struct {
	// Shared credential for the /admin surface, compared by exact match.
	AdminKey string `mapstructure:"admin_key"`
}

type DatabaseConfig struct {
	// Postgres DSN. Empty means the gateway falls back to a local
	// SQLite file at sqlite_path.
	DSN        string `mapstructure:"dsn"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TronConfig struct {
	NodeURL   string `mapstructure:"node_url"`
	APIKey    string `mapstructure:"api_key"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
}

type TelegramConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
}

// FundingConfig carries gateway-wide defaults applied to tenants that do
// not set their own thresholds. Amounts are in SUN (1 TRX = 1e6 SUN).
type FundingConfig struct {
	AutoFundSun   int64 `mapstructure:"auto_fund_sun"`
	MinBalanceSun int64 `mapstructure:"min_balance_sun"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TenantConfig struct {
	Domain           string `mapstructure:"domain"`
	WalletAddress    string `mapstructure:"wallet_address"`
	PrivateKey       string `mapstructure:"private_key"` // legacy embedded secret; the env slot wins
	TelegramBotToken string `mapstructure:"telegram_bot_token"`
	TelegramChatID   string `mapstructure:"telegram_chat_id"`
	AutoFundSun      int64  `mapstructure:"auto_fund_sun"`
	MinBalanceSun    int64  `mapstructure:"min_balance_sun"`
	Enabled          *bool  `mapstructure:"enabled"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	// Environment variables support
	// e.g. TRONGATE_TRON_NODE_URL
	viper.SetEnvPrefix("trongate")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("auth.admin_key", "")
	viper.SetDefault("database.sqlite_path", "./data/trongate.db")
	viper.SetDefault("tron.node_url", "https://api.trongrid.io")
	viper.SetDefault("tron.timeout_ms", 10000)
	viper.SetDefault("telegram.base_url", "https://api.telegram.org")
	viper.SetDefault("telegram.timeout_ms", 5000)
	viper.SetDefault("funding.auto_fund_sun", 10_000_000)
	viper.SetDefault("funding.min_balance_sun", 1_000_000)
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")
	viper.SetDefault("log.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found, using defaults and env vars")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
