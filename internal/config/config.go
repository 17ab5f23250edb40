// Package config reads runtime settings from OPSET_* environment variables.
//
// Each getter reads the environment when called, so tests can use t.Setenv.
// Command-line flags take precedence; see cmd/opset.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/born-ml/opset/internal/parallel"
	"github.com/born-ml/opset/internal/tensor"
)

// Var returns an environment variable stripped of whitespace and quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// BoolWithDefault returns a getter for a boolean variable.
// Unparseable values count as true.
func BoolWithDefault(key string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(key); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Int returns a getter for a positive integer variable.
func Int(key string, defaultValue int) func() int {
	return func() int {
		if s := Var(key); s != "" {
			n, err := strconv.Atoi(s)
			if err == nil && n > 0 {
				return n
			}
			log.Warn().Str("key", key).Str("value", s).Int("default", defaultValue).
				Msg("invalid environment variable, using default")
		}
		return defaultValue
	}
}

var (
	// Parallel enables range fan-out in elementwise operators (OPSET_PARALLEL).
	Parallel = BoolWithDefault("OPSET_PARALLEL")
	// Trace enables the stdout trace exporter (OPSET_TRACE).
	Trace = BoolWithDefault("OPSET_TRACE")
)

// Workers returns the fan-out worker count (OPSET_WORKERS).
func Workers() int {
	return Int("OPSET_WORKERS", parallel.DefaultConfig().NumWorkers)()
}

// MinChunk returns the minimum elements per range (OPSET_MIN_CHUNK).
func MinChunk() int {
	return Int("OPSET_MIN_CHUNK", parallel.DefaultConfig().MinChunkSize)()
}

// LogLevel returns the log level (OPSET_LOG_LEVEL), default info.
func LogLevel() zerolog.Level {
	s := Var("OPSET_LOG_LEVEL")
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		log.Warn().Str("key", "OPSET_LOG_LEVEL").Str("value", s).Msg("invalid log level, using info")
		return zerolog.InfoLevel
	}
	return level
}

// Device returns the device operators are resolved for (OPSET_DEVICE),
// default CPU.
func Device() tensor.Device {
	s := Var("OPSET_DEVICE")
	if s == "" {
		return tensor.CPU
	}
	d, err := tensor.ParseDevice(s)
	if err != nil {
		log.Warn().Str("key", "OPSET_DEVICE").Str("value", s).Msg("unknown device, using CPU")
		return tensor.CPU
	}
	return d
}

// Config is a snapshot of all settings.
type Config struct {
	Parallel bool
	Workers  int
	MinChunk int
	LogLevel zerolog.Level
	Trace    bool
	Device   tensor.Device
}

// Load reads every setting from the environment.
func Load() Config {
	return Config{
		Parallel: Parallel(parallel.DefaultConfig().Enabled),
		Workers:  Workers(),
		MinChunk: MinChunk(),
		LogLevel: LogLevel(),
		Trace:    Trace(false),
		Device:   Device(),
	}
}

// ParallelConfig returns the fan-out settings for workspaces.
func (c Config) ParallelConfig() parallel.Config {
	return parallel.Config{
		Enabled:      c.Parallel,
		NumWorkers:   c.Workers,
		MinChunkSize: c.MinChunk,
	}
}
