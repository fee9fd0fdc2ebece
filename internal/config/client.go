package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// storefront CLI の設定。MEDKIT_* 環境変数と storefront.yaml から読む。
type ClientConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Token      string        `mapstructure:"token"`
	CustomerID string        `mapstructure:"customer_id"`
	Timeout    time.Duration `mapstructure:"timeout"`
	LogLevel   string        `mapstructure:"log_level"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	ErrorTTL   time.Duration `mapstructure:"error_ttl"`
}

// 設定キー。CLI のフラグ名は _ を - にしたもの。
var clientKeys = []string{"base_url", "token", "customer_id", "timeout", "log_level", "retry_delay", "error_ttl"}

// 優先順はフラグ > 環境変数 > storefront.yaml > 既定値。
// path が空なら カレントと $HOME/.medkit の storefront.yaml を探す。
func LoadClient(path string, flags *pflag.FlagSet) (ClientConfig, error) {
	v := viper.New()
	v.SetDefault("base_url", "http://localhost:8080/api")
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("log_level", "warn")
	v.SetDefault("retry_delay", 3*time.Second)
	v.SetDefault("error_ttl", 5*time.Second)

	v.SetEnvPrefix("MEDKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range clientKeys {
		_ = v.BindEnv(key)
		if flags == nil {
			continue
		}
		if f := flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return ClientConfig{}, fmt.Errorf("bind flag %s: %w", f.Name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("storefront")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.medkit")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return ClientConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		return ClientConfig{}, fmt.Errorf("base_url is required")
	}
	return cfg, nil
}
