package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	ClusterPath string // hcl worker topology
	JobPath     string // hcl task graph; empty for sweep-only invocations
	Sweep       bool   // run the out-of-band schema sweep instead of a job

	LogFormat   string
	LogLevel    string
	MaxParallel int
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ClusterPath == "" {
		return nil, errors.New("ClusterPath is a required configuration field and cannot be empty")
	}
	if cfg.JobPath == "" && !cfg.Sweep {
		return nil, errors.New("either JobPath or Sweep must be set")
	}
	if cfg.MaxParallel < 1 {
		return nil, errors.New("MaxParallel must be at least 1")
	}
	return &cfg, nil
}
