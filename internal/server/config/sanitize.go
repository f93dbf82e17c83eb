package config

import (
	"path/filepath"
)

// Sanitize returns a copy of the config suitable for logging.
//
// The config holds no secrets itself; file paths are reduced to their base
// name so logs do not expose the deployment layout.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	sanitized.Server.Boop.TLSKeyFile = baseName(cfg.Server.Boop.TLSKeyFile)
	sanitized.Credentials.File = baseName(cfg.Credentials.File)

	return &sanitized
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return ".../" + filepath.Base(path)
}
