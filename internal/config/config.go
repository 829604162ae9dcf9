package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Train struct {
	Episodes int     `yaml:"episodes"`
	Alpha    float64 `yaml:"alpha"`
	Epsilon  float64 `yaml:"epsilon"`
	Gamma    float64 `yaml:"gamma"`
	// Seed of 0 picks a random seed.
	Seed      uint64 `yaml:"seed"`
	EvalEvery int    `yaml:"eval_every"`
	EvalGames int    `yaml:"eval_games"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Report struct {
	Chart   string `yaml:"chart"`
	Inspect string `yaml:"inspect"`
	Parquet string `yaml:"parquet"`
}

type Config struct {
	Policy   string `yaml:"policy"`
	LogLevel string `yaml:"log_level"`
	Train    Train  `yaml:"train"`
	Server   Server `yaml:"server"`
	Report   Report `yaml:"report"`
}

func Default() Config {
	return Config{
		Policy:   "policy.json",
		LogLevel: "info",
		Train: Train{
			Episodes:  20_000,
			Alpha:     0.1,
			Epsilon:   0.1,
			Gamma:     0.9,
			EvalEvery: 1000,
			EvalGames: 200,
		},
		Server: Server{
			Addr: "127.0.0.1:8000",
		},
		Report: Report{
			Chart:   "charts/training.html",
			Inspect: "policy_values.txt",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var result *multierror.Error

	if c.Policy == "" {
		result = multierror.Append(result, errors.New("policy path is empty"))
	}

	t := c.Train
	if t.Episodes <= 0 {
		result = multierror.Append(result, fmt.Errorf("train.episodes must be positive, got %d", t.Episodes))
	}
	if t.Alpha <= 0 || t.Alpha > 1 {
		result = multierror.Append(result, fmt.Errorf("train.alpha must be in (0,1], got %v", t.Alpha))
	}
	if t.Epsilon < 0 || t.Epsilon > 1 {
		result = multierror.Append(result, fmt.Errorf("train.epsilon must be in [0,1], got %v", t.Epsilon))
	}
	if t.Gamma <= 0 || t.Gamma > 1 {
		result = multierror.Append(result, fmt.Errorf("train.gamma must be in (0,1], got %v", t.Gamma))
	}
	if t.EvalEvery < 0 || t.EvalGames < 0 {
		result = multierror.Append(result, errors.New("train.eval_every and train.eval_games must not be negative"))
	}

	return result.ErrorOrNil()
}
