package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".contactcrawl"

// xdgConfigFile is the file name looked up inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .contactcrawl configuration file.
// Zero values mean "not set" and leave the current configuration untouched.
type File struct {
	// SeedURL is the URL the crawl starts from.
	SeedURL string `yaml:"seedUrl,omitempty"`

	// MaxDepth is the number of levels to fetch.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// MaxPagesPerLevel caps the pages fetched per level.
	MaxPagesPerLevel int `yaml:"maxPagesPerLevel,omitempty"`

	// Proxies are proxy endpoints used for https requests.
	Proxies []string `yaml:"proxies,omitempty"`

	// Timeout bounds a single fetch attempt, e.g. "10s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Referer overrides the Referer header.
	Referer string `yaml:"referer,omitempty"`

	// UserAgents replaces the built-in user-agent pool.
	UserAgents []string `yaml:"userAgents,omitempty"`

	// Output is the results file path.
	Output string `yaml:"output,omitempty"`

	// Ignore lists glob patterns for URL paths that are never crawled.
	Ignore []string `yaml:"ignore,omitempty"`

	// Follow lists glob patterns; when set, only matching paths are crawled.
	Follow []string `yaml:"follow,omitempty"`
}

// LoadConfigFile loads a configuration file in YAML format.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .contactcrawl in the current directory
// 3. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), xdgConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// Apply overlays the values set in the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	if cf.SeedURL != "" {
		cfg.SeedURL = cf.SeedURL
	}
	if cf.MaxDepth != 0 {
		cfg.MaxDepth = cf.MaxDepth
	}
	if cf.MaxPagesPerLevel != 0 {
		cfg.MaxPagesPerLevel = cf.MaxPagesPerLevel
	}
	if len(cf.Proxies) > 0 {
		cfg.Proxies = append([]string(nil), cf.Proxies...)
	}
	if cf.Timeout != 0 {
		cfg.Timeout = cf.Timeout
	}
	if cf.Referer != "" {
		cfg.Referer = cf.Referer
	}
	if len(cf.UserAgents) > 0 {
		cfg.UserAgents = append([]string(nil), cf.UserAgents...)
	}
	if cf.Output != "" {
		cfg.OutputFile = cf.Output
	}
	if len(cf.Ignore) > 0 {
		cfg.IgnorePatterns = append([]string(nil), cf.Ignore...)
	}
	if len(cf.Follow) > 0 {
		cfg.FollowPatterns = append([]string(nil), cf.Follow...)
	}
}
