package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, when present, a
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file, which take precedence over
// defaults. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Environment variables use the STYLESHIFT_ prefix with underscores,
	// e.g. STYLESHIFT_SERVER_PORT, STYLESHIFT_PROVIDER_ACCESS_KEY.
	v.SetEnvPrefix("STYLESHIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the reference defaults for every setting.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8787)
	v.SetDefault("server.log_level", "info")
	v.SetDefault(
		"server.fallback_image_url",
		"https://images.unsplash.com/photo-1581009146145-b5ef050c2e1e?w=800&h=800&fit=crop",
	)

	// The empty defaults register the credential keys with viper so
	// AutomaticEnv can see them; validation still rejects empty values.
	v.SetDefault("provider.access_key", "")
	v.SetDefault("provider.secret_key", "")
	v.SetDefault("provider.host", "visual.volcengineapi.com")
	v.SetDefault("provider.region", "cn-north-1")
	v.SetDefault("provider.service", "cv")
	v.SetDefault("provider.version", "2022-08-31")
	v.SetDefault("provider.req_key", "jimeng_t2i_v40")
	v.SetDefault("provider.submit_backoff_base", "2s")
	v.SetDefault("provider.submit_backoff_cap", "15s")
	v.SetDefault("provider.poll_interval", "2s")
	v.SetDefault("provider.task_deadline", "5m")

	v.SetDefault("upload.primary_url", "https://tmpfiles.org/api/v1/upload")
	v.SetDefault("upload.secondary_url", "https://0x0.st")
	v.SetDefault("upload.attempts", 3)
	v.SetDefault("upload.retry_delay_base", "1s")

	v.SetDefault("dedup.active_window", "10s")
	v.SetDefault("dedup.sweep_age", "60s")

	v.SetDefault("queue.size", 100)
	v.SetDefault("queue.concurrency", 1)
}
