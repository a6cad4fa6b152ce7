package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and the loaders so callers
// can use errors.Is() for programmatic handling.
var (
	// ErrNoSeed is returned when no seed URL is configured.
	ErrNoSeed = errors.New("no seed URL specified: pass one as an argument or set TARGET_URL")

	// ErrInvalidSeed is returned when the seed URL is not an absolute http(s) URL.
	ErrInvalidSeed = errors.New("invalid seed URL: must be an absolute http or https URL")

	// ErrInvalidDepth is returned when the max depth is not positive.
	ErrInvalidDepth = errors.New("invalid max depth: must be positive")

	// ErrInvalidMaxPages is returned when the per-level page cap is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages per level: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidProxy is returned when a proxy endpoint cannot be used.
	// Supported schemes are http, https, socks5 and socks5h.
	ErrInvalidProxy = errors.New("invalid proxy URL")

	// ErrInvalidMaxRedirects is returned when the redirect limit is negative.
	ErrInvalidMaxRedirects = errors.New("invalid max redirects: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the body size cap is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrNoOutputFile is returned when the results file path is empty.
	ErrNoOutputFile = errors.New("no output file specified")

	// ErrInvalidLogFormat is returned when the log format is neither text nor json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrInvalidEnv is returned when an environment variable has a malformed value.
	ErrInvalidEnv = errors.New("invalid environment variable")
)
