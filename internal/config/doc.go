// Package config provides the crawl configuration for contactcrawl.
// A Config is built once at startup from defaults, an optional YAML file,
// environment variables and CLI flags, then passed by pointer to every
// component that needs it.
package config
