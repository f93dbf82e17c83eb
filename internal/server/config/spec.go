package config

import "time"

// ServerConfig is the root configuration for boopmesh-server.
type ServerConfig struct {
	Server      ServerSection      `koanf:"server"`
	Credentials CredentialsSection `koanf:"credentials"`
	Log         LogSection         `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Boop BoopConfig `koanf:"boop"`
	HTTP HTTPConfig `koanf:"http"`
}

// BoopConfig configures the boop protocol listener.
type BoopConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// Plain allows serving without TLS. It must be set explicitly when
	// no certificate is configured.
	Plain bool `koanf:"plain"`

	// IdleTimeout closes a connection that sends nothing for this long.
	// Zero disables it.
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	MaxLineBytes  int `koanf:"max_line_bytes"`
	OutboundQueue int `koanf:"outbound_queue"`
}

// HTTPConfig configures the ops HTTP endpoint.
type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// CredentialsSection configures the client credential file.
type CredentialsSection struct {
	File  string `koanf:"file"`
	Watch bool   `koanf:"watch"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// TLSEnabled reports whether the boop listener should serve TLS.
func (c *BoopConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}
