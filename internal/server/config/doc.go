// Package config defines the boopmesh-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: validation run before the server starts
//   - sanitize.go: a copy safe to log
//
// Configuration is loaded via internal/infra/confloader from defaults,
// a YAML file, BOOPMESH_* environment variables and command-line flags.
package config
