// Package config holds the solver's one explicit tunables record
// (spec.md §9): no package-level mutable state anywhere else in
// internal/ reads an environment variable or flag directly.
package config

import (
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the full set of solver tunables plus the routing backend
// settings internal/routingclient needs. A zero HeuristicsCount is
// invalid; call Defaults() or Load() rather than constructing one by hand.
type Config struct {
	// HeuristicsCount is H, the number of (λ, regret-k) construction seeds
	// run per variant (spec.md §4.5).
	HeuristicsCount int `yaml:"heuristics_count"`

	// PerturbationPasses caps the perturbation phase's consecutive
	// unsuccessful ruin-and-recreate rounds before a run gives up
	// (spec.md §4.6 step 5).
	PerturbationPasses int `yaml:"perturbation_passes"`

	// ExplorationBudgetMS is a wall-clock ceiling in milliseconds on the
	// whole solve; zero means unbounded (bounded only by
	// PerturbationPasses). Enforced via context.Context cancellation
	// (spec.md §5).
	ExplorationBudgetMS int64 `yaml:"exploration_budget_ms"`

	// Deterministic disables any wall-clock-budget cancellation so two
	// runs against identical input produce byte-identical output (P6);
	// intended for regression fixtures and tests.
	Deterministic bool `yaml:"deterministic"`

	// ThreadCount bounds the solve worker pool. Zero means
	// runtime.GOMAXPROCS(0).
	ThreadCount int `yaml:"thread_count"`

	Routing RoutingConfig `yaml:"routing"`
}

// RoutingConfig configures internal/routingclient's backend selection and
// caching (spec.md §6.2, supplemented).
type RoutingConfig struct {
	Provider   string `yaml:"provider"` // "osrm", "ors", or "" for osrm
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	RedisURL   string `yaml:"redis_url"`
	CacheTTLMS int64  `yaml:"cache_ttl_ms"`
}

// Defaults returns the solver's out-of-the-box tunables.
func Defaults() Config {
	return Config{
		HeuristicsCount:    4,
		PerturbationPasses: 20,
		ThreadCount:        runtime.GOMAXPROCS(0),
	}
}

// Load reads a YAML config file at path and overlays it onto Defaults().
// A missing file is not an error; it is treated as "use the defaults".
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Threads resolves the effective worker-pool size, defaulting to
// GOMAXPROCS when unset or non-positive.
func (c Config) Threads() int {
	if c.ThreadCount <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.ThreadCount
}
