package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Provider ProviderConfig `mapstructure:"provider" validate:"required"`
	Upload   UploadConfig   `mapstructure:"upload" validate:"required"`
	Dedup    DedupConfig    `mapstructure:"dedup" validate:"required"`
	Queue    QueueConfig    `mapstructure:"queue" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// FallbackImageURL is used when a submission carries no image at all.
	FallbackImageURL string `mapstructure:"fallback_image_url" validate:"required,url"`
}

// ProviderConfig contains the settings for the signed generation RPC and
// the worker's retry/poll behavior against it.
type ProviderConfig struct {
	AccessKey string `mapstructure:"access_key" validate:"required"`
	SecretKey string `mapstructure:"secret_key" validate:"required"`

	// Host is the provider API host. Region/Service/Version identify the
	// signed RPC surface.
	Host    string `mapstructure:"host" validate:"required"`
	Region  string `mapstructure:"region" validate:"required"`
	Service string `mapstructure:"service" validate:"required"`
	Version string `mapstructure:"version" validate:"required"`

	// ReqKey selects the generation model on the provider side.
	ReqKey string `mapstructure:"req_key" validate:"required"`

	// SubmitBackoffBase is the first delay after a rate-limit rejection;
	// subsequent delays double up to SubmitBackoffCap.
	SubmitBackoffBase time.Duration `mapstructure:"submit_backoff_base" validate:"required"`
	SubmitBackoffCap  time.Duration `mapstructure:"submit_backoff_cap" validate:"required"`

	// PollInterval is the sleep between result polls.
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required"`

	// TaskDeadline bounds one task's submission retries and polling
	// combined.
	TaskDeadline time.Duration `mapstructure:"task_deadline" validate:"required"`
}

// UploadConfig contains the temporary image host relay settings.
type UploadConfig struct {
	PrimaryURL   string `mapstructure:"primary_url" validate:"required,url"`
	SecondaryURL string `mapstructure:"secondary_url" validate:"required,url"`

	// Attempts is the total tries per host (first try included).
	Attempts int `mapstructure:"attempts" validate:"required,gte=1"`

	// RetryDelayBase scales linearly with the attempt number.
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base" validate:"required"`
}

// DedupConfig controls the duplicate-submission suppression window.
type DedupConfig struct {
	// ActiveWindow is how long a reservation suppresses duplicates.
	ActiveWindow time.Duration `mapstructure:"active_window" validate:"required"`

	// SweepAge is the age at which stale reservations are reclaimed.
	SweepAge time.Duration `mapstructure:"sweep_age" validate:"required"`
}

// QueueConfig controls the in-memory submission queue and the submission
// gate in front of the provider.
type QueueConfig struct {
	Size int `mapstructure:"size" validate:"required,gte=1"`

	// Concurrency caps the number of provider submissions in flight.
	Concurrency int `mapstructure:"concurrency" validate:"required,gte=1"`
}
