// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. Block layouts accept the same free-form
// syntax as the analyzer input, e.g. "100, 500, 200" or "[100, 500]".
package config
