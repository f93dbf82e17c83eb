package config

import "time"

// Default configuration values.
const (
	DefaultBoopAddr      = "0.0.0.0:5274"
	DefaultIdleTimeout   = 30 * time.Second
	DefaultWriteTimeout  = 10 * time.Second
	DefaultMaxLineBytes  = 1024
	DefaultOutboundQueue = 32

	DefaultHTTPAddr = "127.0.0.1:5280"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Boop: BoopConfig{
				Addr:          DefaultBoopAddr,
				IdleTimeout:   DefaultIdleTimeout,
				WriteTimeout:  DefaultWriteTimeout,
				MaxLineBytes:  DefaultMaxLineBytes,
				OutboundQueue: DefaultOutboundQueue,
			},
			HTTP: HTTPConfig{
				Enabled: true,
				Addr:    DefaultHTTPAddr,
			},
		},
		Credentials: CredentialsSection{
			Watch: true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
