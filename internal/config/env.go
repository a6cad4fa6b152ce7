package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names read by ApplyEnv.
const (
	EnvTargetURL        = "TARGET_URL"
	EnvMaxDepth         = "MAX_DEPTH"
	EnvMaxPagesPerLevel = "MAX_PAGES_PER_LEVEL"
	EnvProxies          = "PROXIES"
	EnvOutputFile       = "OUTPUT_FILE"
	EnvTimeout          = "REQUEST_TIMEOUT"
)

// LookupFunc looks up an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// LoadEnv loads a .env file from the working directory if one exists and
// then overlays the process environment onto cfg.
// Variables already set in the process environment win over the .env file.
func LoadEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return ApplyEnv(cfg, os.LookupEnv)
}

// ApplyEnv overlays environment variables onto cfg.
// Unset or blank variables leave the current value untouched.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvTargetURL); ok {
		cfg.SeedURL = v
	}
	if v, ok := get(EnvMaxDepth); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidEnv, EnvMaxDepth, v)
		}
		cfg.MaxDepth = n
	}
	if v, ok := get(EnvMaxPagesPerLevel); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidEnv, EnvMaxPagesPerLevel, v)
		}
		cfg.MaxPagesPerLevel = n
	}
	if v, ok := get(EnvProxies); ok {
		cfg.Proxies = SplitProxyList(v)
	}
	if v, ok := get(EnvOutputFile); ok {
		cfg.OutputFile = v
	}
	if v, ok := get(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a duration", ErrInvalidEnv, EnvTimeout, v)
		}
		cfg.Timeout = d
	}
	return nil
}
