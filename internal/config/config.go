package config

import "github.com/spf13/viper"

// Config is the environment-provided runtime configuration. Absent TDX
// credentials stay empty strings; the upstream then rejects the token
// exchange, which surfaces as an authentication failure per request.
type Config struct {
	Port         int
	ClientID     string
	ClientSecret string
	LogLevel     string
	LogFormat    string
}

// Load reads configuration from the environment with defaults.
func Load() Config {
	v := viper.New()
	v.SetDefault("port", 4002)
	v.SetDefault("tdx_client_id", "")
	v.SetDefault("tdx_client_secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.AutomaticEnv()

	return Config{
		Port:         v.GetInt("port"),
		ClientID:     v.GetString("tdx_client_id"),
		ClientSecret: v.GetString("tdx_client_secret"),
		LogLevel:     v.GetString("log_level"),
		LogFormat:    v.GetString("log_format"),
	}
}
