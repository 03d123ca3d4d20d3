package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration values.
type Config struct {
	Secret       string `mapstructure:"secret"`
	DatabaseDSN  string `mapstructure:"database_dsn"`
	HTTPPort     string `mapstructure:"http_port"`
	APIBaseURL   string `mapstructure:"api_base_url"`
	SchoolCode   string `mapstructure:"school_code"`
	TenantSuffix string `mapstructure:"tenant_host_suffix"`
	Env          string `mapstructure:"app_env"`
	Metrics      bool   `mapstructure:"metrics_enabled"`
	SeedStockCSV string `mapstructure:"seed_stock_csv"`
}

// Load reads configuration from an optional CONFIG_FILE and environment
// variables, with reasonable defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("secret", "dev_secret")
	v.SetDefault("database_dsn", "file:console.db")
	v.SetDefault("http_port", "8080")
	v.SetDefault("api_base_url", "http://localhost:3000")
	v.SetDefault("school_code", "demo")
	v.SetDefault("tenant_host_suffix", ".admin.itsmyskool.com")
	v.SetDefault("app_env", "dev")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("seed_stock_csv", "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(c.HTTPPort); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", c.HTTPPort)
		c.HTTPPort = "8080"
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	return c, nil
}
