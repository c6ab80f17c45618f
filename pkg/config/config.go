package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the full jobwatch configuration. Values are loaded from the
// environment (optionally seeded from a .env file, which the deployment
// scripts already maintain) and may be overridden by an optional YAML
// thresholds file.
type Config struct {
	// Collaborator addressing.
	Region   string `env:"AWS_REGION" envDefault:"us-east-1"`
	QueueURL string `env:"QUEUE_URL"`
	LogGroup string `env:"LOG_GROUP" envDefault:"/transcription/workers"`

	// Worker instances are discovered by tag.
	WorkerTagKey   string `env:"WORKER_TAG_KEY" envDefault:"Type"`
	WorkerTagValue string `env:"WORKER_TAG_VALUE" envDefault:"whisper-worker"`

	// How far back job-lifecycle events are fetched.
	LookbackWindow time.Duration `env:"LOOKBACK_WINDOW" envDefault:"1h"`

	// Per-collaborator call timeout.
	CallTimeout time.Duration `env:"CALL_TIMEOUT" envDefault:"15s"`

	// Continuous-mode poll interval.
	Interval time.Duration `env:"CHECK_INTERVAL" envDefault:"60s"`

	// Local snapshot history database. Empty disables history.
	HistoryPath string `env:"HISTORY_PATH" envDefault:""`

	Thresholds Thresholds `envPrefix:"THRESHOLD_"`
}

// Thresholds tune health classification. The stuck threshold is shared by
// the health check and the jobs listing so the two never disagree.
type Thresholds struct {
	Stuck          time.Duration `env:"STUCK" envDefault:"30m" yaml:"stuck"`
	HighBacklog    int           `env:"BACKLOG" envDefault:"20" yaml:"backlog"`
	HighInFlight   int           `env:"INFLIGHT" envDefault:"10" yaml:"inflight"`
	ActivityWindow time.Duration `env:"ACTIVITY_WINDOW" envDefault:"10m" yaml:"activity_window"`
}

// thresholdFile is the on-disk shape of the optional YAML override file.
// Durations are strings ("45m", "1h") since yaml.v3 has no native duration
// decoding.
type thresholdFile struct {
	Thresholds struct {
		Stuck          string `yaml:"stuck"`
		HighBacklog    *int   `yaml:"backlog"`
		HighInFlight   *int   `yaml:"inflight"`
		ActivityWindow string `yaml:"activity_window"`
	} `yaml:"thresholds"`
}

// Load builds the configuration from the environment. yamlFile, when
// non-empty, overrides threshold values. Any .env loading happens before
// this, in the CLI layer.
func Load(yamlFile string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if yamlFile != "" {
		if err := cfg.applyYAML(yamlFile); err != nil {
			return nil, err
		}
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var tf thresholdFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if tf.Thresholds.Stuck != "" {
		d, err := time.ParseDuration(tf.Thresholds.Stuck)
		if err != nil {
			return fmt.Errorf("invalid stuck threshold in %s: %w", path, err)
		}
		c.Thresholds.Stuck = d
	}
	if tf.Thresholds.HighBacklog != nil {
		c.Thresholds.HighBacklog = *tf.Thresholds.HighBacklog
	}
	if tf.Thresholds.HighInFlight != nil {
		c.Thresholds.HighInFlight = *tf.Thresholds.HighInFlight
	}
	if tf.Thresholds.ActivityWindow != "" {
		d, err := time.ParseDuration(tf.Thresholds.ActivityWindow)
		if err != nil {
			return fmt.Errorf("invalid activity window in %s: %w", path, err)
		}
		c.Thresholds.ActivityWindow = d
	}
	return nil
}

// Validate checks values that would make every command fail in confusing
// ways later.
func (c *Config) Validate() error {
	if c.QueueURL == "" {
		return errors.New("QUEUE_URL is not set; source your deployment .env or export it")
	}
	if c.Thresholds.Stuck <= 0 {
		return errors.New("stuck threshold must be positive")
	}
	if c.CallTimeout <= 0 {
		return errors.New("call timeout must be positive")
	}
	return nil
}
