package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// WorkerConfig is the file-based configuration for background processing.
type WorkerConfig struct {
	Queuing   QueuingConfig   `toml:"queuing"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// QueuingConfig contains asynq concurrency settings
type QueuingConfig struct {
	Concurrency     int            `toml:"concurrency"`
	QueuePriorities map[string]int `toml:"queue_priorities"`
	MaxRetry        int            `toml:"max_retry"`
}

type SchedulerConfig struct {
	CompletionSweepMinutes int `toml:"completion_sweep_minutes"`
	MaxConcurrentTenants   int `toml:"max_concurrent_tenants"`
}

func (s SchedulerConfig) CompletionSweepInterval() time.Duration {
	return time.Duration(s.CompletionSweepMinutes) * time.Minute
}

func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Queuing: QueuingConfig{
			Concurrency:     5,
			QueuePriorities: map[string]int{"critical": 6, "default": 3, "low": 1},
			MaxRetry:        3,
		},
		Scheduler: SchedulerConfig{
			CompletionSweepMinutes: 60,
			MaxConcurrentTenants:   4,
		},
	}
}

// LoadWorkerConfig loads configuration from a TOML file. Keys missing from the
// file keep their defaults.
func LoadWorkerConfig(filename string) (*WorkerConfig, error) {
	config := DefaultWorkerConfig()
	if _, err := toml.DecodeFile(filename, &config); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if config.Queuing.Concurrency <= 0 {
		return nil, fmt.Errorf("queuing.concurrency must be positive")
	}
	if config.Scheduler.CompletionSweepMinutes <= 0 {
		return nil, fmt.Errorf("scheduler.completion_sweep_minutes must be positive")
	}
	return &config, nil
}
