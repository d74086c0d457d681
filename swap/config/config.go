// Package config loads calibration, bootstrap, logging and store settings.
//
// Values come from DefaultConfig, then an optional YAML file, then MCURVE_*
// environment variables (MCURVE_CALIBRATION_MAX_ITERS, MCURVE_LOGGING_LEVEL, ...).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/mcurve/swap/bootstrap"
	"github.com/meenmo/mcurve/swap/calibration"
	"github.com/meenmo/mcurve/swap/solver"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "MCURVE"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds every runtime setting.
type Config struct {
	Calibration CalibrationConfig `mapstructure:"calibration"`
	Bootstrap   BootstrapConfig   `mapstructure:"bootstrap"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Store       StoreConfig       `mapstructure:"store"`
}

// CalibrationConfig configures the Gauss-Newton engine.
type CalibrationConfig struct {
	// MaxIters is the Gauss-Newton iteration budget.
	MaxIters int `mapstructure:"max_iters"`
	// Tol is reserved for a convergence threshold; the engine does not read it.
	Tol float64 `mapstructure:"tol"`
	// LambdaRidge is the Tikhonov weight on every node but the first.
	LambdaRidge float64 `mapstructure:"lambda_ridge"`
	// LambdaSmooth weights the second-difference penalty.
	LambdaSmooth float64 `mapstructure:"lambda_smooth"`
	Verbose      bool    `mapstructure:"verbose"`
}

// BootstrapConfig configures the per-knot root finder.
type BootstrapConfig struct {
	RootTolerance     float64 `mapstructure:"root_tolerance"`
	RootMaxIterations int     `mapstructure:"root_max_iterations"`
}

// LoggingConfig selects the zap logger.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputFile string `mapstructure:"output_file"`
}

// StoreConfig selects where calibrated curves are persisted.
type StoreConfig struct {
	Backend     string        `mapstructure:"backend"`
	RedisURL    string        `mapstructure:"redis_url"`
	PostgresDSN string        `mapstructure:"postgres_dsn"`
	TTL         time.Duration `mapstructure:"ttl"`
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	Calibration: CalibrationConfig{
		MaxIters:     15,
		Tol:          1e-12,
		LambdaRidge:  1e-10,
		LambdaSmooth: 1e-6,
	},
	Bootstrap: BootstrapConfig{
		RootTolerance:     1e-12,
		RootMaxIterations: 100,
	},
	Logging: LoggingConfig{
		Level:  "info",
		Format: "json",
	},
	Store: StoreConfig{
		Backend:  BackendMemory,
		RedisURL: "redis://localhost:6379/0",
		TTL:      24 * time.Hour,
	},
}

// Load reads path (YAML) over DefaultConfig and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// setDefaults registers every key so AutomaticEnv can override keys absent from the file.
func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("calibration.max_iters", c.Calibration.MaxIters)
	v.SetDefault("calibration.tol", c.Calibration.Tol)
	v.SetDefault("calibration.lambda_ridge", c.Calibration.LambdaRidge)
	v.SetDefault("calibration.lambda_smooth", c.Calibration.LambdaSmooth)
	v.SetDefault("calibration.verbose", c.Calibration.Verbose)
	v.SetDefault("bootstrap.root_tolerance", c.Bootstrap.RootTolerance)
	v.SetDefault("bootstrap.root_max_iterations", c.Bootstrap.RootMaxIterations)
	v.SetDefault("logging.level", c.Logging.Level)
	v.SetDefault("logging.format", c.Logging.Format)
	v.SetDefault("logging.output_file", c.Logging.OutputFile)
	v.SetDefault("store.backend", c.Store.Backend)
	v.SetDefault("store.redis_url", c.Store.RedisURL)
	v.SetDefault("store.postgres_dsn", c.Store.PostgresDSN)
	v.SetDefault("store.ttl", c.Store.TTL)
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.Calibration.MaxIters < 0 {
		return fmt.Errorf("calibration.max_iters must be >= 0, got %d", c.Calibration.MaxIters)
	}
	if c.Calibration.LambdaRidge < 0 || c.Calibration.LambdaSmooth < 0 {
		return fmt.Errorf("calibration lambdas must be >= 0")
	}
	if c.Bootstrap.RootTolerance <= 0 || c.Bootstrap.RootMaxIterations <= 0 {
		return fmt.Errorf("bootstrap root settings must be positive")
	}
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// BootstrapOptions maps the root-finder settings onto the default brackets.
func (c Config) BootstrapOptions() bootstrap.Options {
	opts := bootstrap.DefaultOptions
	opts.Root = solver.Options{
		MaxIterations: c.Bootstrap.RootMaxIterations,
		Tolerance:     c.Bootstrap.RootTolerance,
	}
	return opts
}

// CalibrationOptions returns engine options, including the bootstrap settings used for forward curves.
func (c Config) CalibrationOptions() calibration.Options {
	return calibration.Options{
		MaxIterations: c.Calibration.MaxIters,
		Tol:           c.Calibration.Tol,
		LambdaRidge:   c.Calibration.LambdaRidge,
		LambdaSmooth:  c.Calibration.LambdaSmooth,
		Verbose:       c.Calibration.Verbose,
		Bootstrap:     c.BootstrapOptions(),
	}
}
